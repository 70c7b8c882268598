package types

import (
	"encoding/hex"
	"encoding/json"
)

// PublicKeySize is the length of a raw Ed25519 public key.
const PublicKeySize = 32

// PublicKey is the raw public-key identity of an account.
type PublicKey [PublicKeySize]byte

// IsZero returns true if the key is all zeros.
func (p PublicKey) IsZero() bool {
	return p == PublicKey{}
}

// String returns the hex-encoded key.
func (p PublicKey) String() string {
	return hex.EncodeToString(p[:])
}

// Bytes returns a copy of the key as a byte slice.
func (p PublicKey) Bytes() []byte {
	b := make([]byte, PublicKeySize)
	copy(b, p[:])
	return b
}

// MarshalJSON encodes the key as a hex string.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes a hex string into a key.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*p = PublicKey{}
		return nil
	}
	parsed, err := HexToPublicKey(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// HexToPublicKey converts a 64-character hex string to a PublicKey.
func HexToPublicKey(s string) (PublicKey, error) {
	var p PublicKey
	if err := decodeFixedHex(p[:], s, "public key"); err != nil {
		return PublicKey{}, err
	}
	return p, nil
}

// PublicKeyFromBytes copies b into a PublicKey. It reports false when b
// has the wrong length.
func PublicKeyFromBytes(b []byte) (PublicKey, bool) {
	var p PublicKey
	if len(b) != PublicKeySize {
		return p, false
	}
	copy(p[:], b)
	return p, true
}
