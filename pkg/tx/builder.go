package tx

import (
	"fmt"

	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
)

// Builder constructs transactions incrementally.
type Builder struct {
	tx *Transaction
}

// NewBuilder creates a builder for a message of the given service.
func NewBuilder(serviceID, messageID uint16) *Builder {
	return &Builder{
		tx: &Transaction{ServiceID: serviceID, MessageID: messageID},
	}
}

// SetNonce sets the transaction nonce.
func (b *Builder) SetNonce(nonce uint64) *Builder {
	b.tx.Nonce = nonce
	return b
}

// SetPayload sets the encoded message payload.
func (b *Builder) SetPayload(payload []byte) *Builder {
	b.tx.Payload = payload
	return b
}

// Sign sets the author to the signer's public key and signs the transaction.
func (b *Builder) Sign(signer crypto.Signer) error {
	if signer == nil {
		return fmt.Errorf("sign tx: nil signer")
	}
	if key, ok := signer.(*crypto.PrivateKey); ok && key == nil {
		return fmt.Errorf("sign tx: nil key")
	}
	b.tx.Author = signer.PublicKey()
	hash := b.tx.Hash()
	b.tx.Signature = signer.Sign(hash[:])
	return nil
}

// Build returns the constructed transaction.
// Does NOT validate. Call tx.Validate() separately.
func (b *Builder) Build() *Transaction {
	return b.tx
}
