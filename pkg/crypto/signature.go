package crypto

import (
	"crypto/rand"
	"fmt"

	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
	"golang.org/x/crypto/ed25519"
)

// SeedSize is the length of an Ed25519 private key seed.
const SeedSize = ed25519.SeedSize

// Signer signs messages with a private key using Ed25519.
type Signer interface {
	// Sign produces an Ed25519 signature over msg.
	Sign(msg []byte) []byte
	// PublicKey returns the raw 32-byte public key.
	PublicKey() types.PublicKey
}

// Verifier verifies Ed25519 signatures.
type Verifier interface {
	Verify(msg, signature []byte, publicKey types.PublicKey) bool
}

// PrivateKey wraps an Ed25519 private key.
type PrivateKey struct {
	key ed25519.PrivateKey
}

// GenerateKey creates a new random Ed25519 private key.
func GenerateKey() (*PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &PrivateKey{key: key}, nil
}

// PrivateKeyFromSeed creates a PrivateKey from a 32-byte seed.
func PrivateKeyFromSeed(seed []byte) (*PrivateKey, error) {
	if len(seed) != SeedSize {
		return nil, fmt.Errorf("seed must be %d bytes, got %d", SeedSize, len(seed))
	}
	return &PrivateKey{key: ed25519.NewKeyFromSeed(seed)}, nil
}

// Sign produces an Ed25519 signature over msg.
func (pk *PrivateKey) Sign(msg []byte) []byte {
	return ed25519.Sign(pk.key, msg)
}

// PublicKey returns the raw 32-byte public key.
func (pk *PrivateKey) PublicKey() types.PublicKey {
	var out types.PublicKey
	copy(out[:], pk.key.Public().(ed25519.PublicKey))
	return out
}

// Seed returns a copy of the 32-byte seed the key was derived from.
func (pk *PrivateKey) Seed() []byte {
	return append([]byte{}, pk.key.Seed()...)
}

// Zero overwrites the key material.
func (pk *PrivateKey) Zero() {
	for i := range pk.key {
		pk.key[i] = 0
	}
}

// VerifySignature checks an Ed25519 signature over msg. Returns false on
// malformed signatures.
func VerifySignature(msg, signature []byte, publicKey types.PublicKey) bool {
	if len(signature) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey[:]), msg, signature)
}

// Ed25519Verifier implements the Verifier interface.
type Ed25519Verifier struct{}

// Verify checks an Ed25519 signature.
func (Ed25519Verifier) Verify(msg, signature []byte, publicKey types.PublicKey) bool {
	return VerifySignature(msg, signature, publicKey)
}
