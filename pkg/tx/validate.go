package tx

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
)

// Limits.
const (
	MaxPayloadSize = 64 * 1024
	// MaxSymbolLength keeps a token's ledger key under badger's 65000-byte
	// key limit.
	MaxSymbolLength = 32 * 1024
)

// Validation errors.
var (
	ErrMissingAuthor   = errors.New("transaction missing author")
	ErrMissingSig      = errors.New("transaction missing signature")
	ErrInvalidSig      = errors.New("invalid signature")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Validate checks transaction structure. It does not verify the signature.
func (tx *Transaction) Validate() error {
	if tx.Author.IsZero() {
		return ErrMissingAuthor
	}
	if len(tx.Signature) == 0 {
		return ErrMissingSig
	}
	if len(tx.Payload) > MaxPayloadSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrPayloadTooLarge, len(tx.Payload), MaxPayloadSize)
	}
	return nil
}

// VerifySignature checks that the signature was produced by the author over
// the transaction hash.
func (tx *Transaction) VerifySignature() error {
	return tx.VerifySignatureWith(crypto.Ed25519Verifier{})
}

// VerifySignatureWith is VerifySignature using v.
func (tx *Transaction) VerifySignatureWith(v crypto.Verifier) error {
	hash := tx.Hash()
	if !v.Verify(hash[:], tx.Signature, tx.Author) {
		return ErrInvalidSig
	}
	return nil
}
