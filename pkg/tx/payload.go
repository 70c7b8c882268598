package tx

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
	"google.golang.org/protobuf/encoding/protowire"
)

// Cryptocurrency service identifiers.
const (
	CryptocurrencyServiceID uint16 = 1
	CreateTokenMessageID    uint16 = 0
)

// Payload errors.
var (
	ErrSymbolTooLong  = errors.New("symbol too long")
	ErrInvalidSymbol  = errors.New("symbol is not valid utf-8")
	ErrMalformedField = errors.New("malformed payload field")
)

// CreateToken is the payload of a create-token message.
type CreateToken struct {
	Symbol string `json:"symbol"`
}

// Encode serializes the payload as protobuf wire format (symbol = field 1).
func (c *CreateToken) Encode() []byte {
	var buf []byte
	if c.Symbol != "" {
		buf = protowire.AppendTag(buf, 1, protowire.BytesType)
		buf = protowire.AppendString(buf, c.Symbol)
	}
	return buf
}

// DecodeCreateToken parses a create-token payload. Unknown fields are skipped.
func DecodeCreateToken(data []byte) (*CreateToken, error) {
	c := &CreateToken{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrMalformedField, protowire.ParseError(n))
		}
		data = data[n:]

		if num == 1 && typ == protowire.BytesType {
			v, m := protowire.ConsumeString(data)
			if m < 0 {
				return nil, fmt.Errorf("%w: symbol: %v", ErrMalformedField, protowire.ParseError(m))
			}
			c.Symbol = v
			data = data[m:]
			continue
		}

		m := protowire.ConsumeFieldValue(num, typ, data)
		if m < 0 {
			return nil, fmt.Errorf("%w: field %d: %v", ErrMalformedField, num, protowire.ParseError(m))
		}
		data = data[m:]
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the symbol length and encoding.
func (c *CreateToken) Validate() error {
	if len(c.Symbol) > MaxSymbolLength {
		return fmt.Errorf("%w: %d bytes, max %d", ErrSymbolTooLong, len(c.Symbol), MaxSymbolLength)
	}
	if !utf8.ValidString(c.Symbol) {
		return ErrInvalidSymbol
	}
	return nil
}

// NewCreateToken builds and signs a create-token transaction.
func NewCreateToken(signer crypto.Signer, symbol string, nonce uint64) (*Transaction, error) {
	payload := &CreateToken{Symbol: symbol}
	if err := payload.Validate(); err != nil {
		return nil, err
	}
	b := NewBuilder(CryptocurrencyServiceID, CreateTokenMessageID).
		SetNonce(nonce).
		SetPayload(payload.Encode())
	if err := b.Sign(signer); err != nil {
		return nil, err
	}
	return b.Build(), nil
}
