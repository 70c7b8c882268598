// Package types defines core primitive types for the token ledger.
package types

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// HashSize is the length of a hash in bytes.
const HashSize = 32

// Hash represents a 256-bit hash value.
type Hash [HashSize]byte

// IsZero returns true if the hash is all zeros.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// String returns the hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the hash as a byte slice.
func (h Hash) Bytes() []byte {
	b := make([]byte, HashSize)
	copy(b, h[:])
	return b
}

// MarshalJSON encodes the hash as a hex string.
func (h Hash) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

// UnmarshalJSON decodes a hex string into a hash.
func (h *Hash) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*h = Hash{}
		return nil
	}
	parsed, err := HexToHash(s)
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// HexToHash converts a hex string to a Hash.
// Returns an error if the string is not exactly 64 hex characters.
func HexToHash(s string) (Hash, error) {
	var h Hash
	if err := decodeFixedHex(h[:], s, "hash"); err != nil {
		return Hash{}, err
	}
	return h, nil
}

// decodeFixedHex decodes s into dst, requiring an exact length match.
func decodeFixedHex(dst []byte, s, what string) error {
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("invalid %s hex: %w", what, err)
	}
	if len(b) != len(dst) {
		return fmt.Errorf("%s must be %d bytes, got %d", what, len(dst), len(b))
	}
	copy(dst, b)
	return nil
}
