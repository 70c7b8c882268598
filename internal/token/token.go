// Package token implements the symbolic token ledger.
//
// A token is identified by a unique human-readable symbol and bound to the
// public key of the account that created it. Tokens are created by the
// CreateToken transition and are never modified afterwards.
package token

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-tokens/pkg/identity"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrCorruptRecord is returned when a stored token cannot be decoded.
var ErrCorruptRecord = errors.New("corrupt token record")

// Token is a ledger record.
type Token struct {
	Owner  types.PublicKey `json:"owner"`
	Symbol string          `json:"symbol"`
}

// Address returns the derived address of the token.
func (t *Token) Address() types.Address {
	return identity.TokenAddress(t.Owner[:], t.Symbol)
}

// OwnerAddress returns the derived account address of the owner.
func (t *Token) OwnerAddress() types.Address {
	return identity.AccountAddress(t.Owner)
}

// Marshal encodes the token in protobuf wire format:
//
//	message Token { PublicKey owner = 1; string symbol = 2; }
//	message PublicKey { bytes data = 1; }
func (t *Token) Marshal() []byte {
	var owner []byte
	owner = protowire.AppendTag(owner, 1, protowire.BytesType)
	owner = protowire.AppendBytes(owner, t.Owner[:])

	buf := make([]byte, 0, len(owner)+len(t.Symbol)+8)
	buf = protowire.AppendTag(buf, 1, protowire.BytesType)
	buf = protowire.AppendBytes(buf, owner)
	if t.Symbol != "" {
		buf = protowire.AppendTag(buf, 2, protowire.BytesType)
		buf = protowire.AppendString(buf, t.Symbol)
	}
	return buf
}

// Unmarshal decodes a token from protobuf wire format. Unknown fields are
// skipped.
func Unmarshal(data []byte) (*Token, error) {
	t := &Token{}
	haveOwner := false
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		switch {
		case num == 1 && typ == protowire.BytesType:
			pk, err := unmarshalPublicKey(v)
			if err != nil {
				return err
			}
			t.Owner = pk
			haveOwner = true
		case num == 2 && typ == protowire.BytesType:
			t.Symbol = string(v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !haveOwner {
		return nil, fmt.Errorf("%w: missing owner", ErrCorruptRecord)
	}
	return t, nil
}

func unmarshalPublicKey(data []byte) (types.PublicKey, error) {
	var pk types.PublicKey
	found := false
	err := consumeFields(data, func(num protowire.Number, typ protowire.Type, v []byte) error {
		if num != 1 || typ != protowire.BytesType {
			return nil
		}
		var ok bool
		if pk, ok = types.PublicKeyFromBytes(v); !ok {
			return fmt.Errorf("%w: owner key is %d bytes", ErrCorruptRecord, len(v))
		}
		found = true
		return nil
	})
	if err != nil {
		return types.PublicKey{}, err
	}
	if !found {
		return types.PublicKey{}, fmt.Errorf("%w: empty owner key", ErrCorruptRecord)
	}
	return pk, nil
}

// consumeFields walks a protobuf message. For length-delimited fields fn
// receives the field contents; for other wire types v is nil.
func consumeFields(data []byte, fn func(num protowire.Number, typ protowire.Type, v []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrCorruptRecord, protowire.ParseError(n))
		}
		data = data[n:]

		var v []byte
		if typ == protowire.BytesType {
			b, m := protowire.ConsumeBytes(data)
			if m < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrCorruptRecord, num, protowire.ParseError(m))
			}
			v, n = b, m
		} else {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("%w: field %d: %v", ErrCorruptRecord, num, protowire.ParseError(n))
			}
		}
		data = data[n:]

		if err := fn(num, typ, v); err != nil {
			return err
		}
	}
	return nil
}
