package types

import (
	"encoding/hex"
	"encoding/json"
)

// AddressSize is the length of a derived address in bytes: one namespace
// tag byte followed by 15 digest bytes.
const AddressSize = 16

// Address is a derived entity identifier. The first byte selects the entity
// namespace, so addresses of different kinds never compare equal.
type Address [AddressSize]byte

// Tag returns the namespace tag byte.
func (a Address) Tag() byte {
	return a[0]
}

// Digest returns the 15 digest bytes following the tag.
func (a Address) Digest() []byte {
	return append([]byte{}, a[1:]...)
}

// IsZero returns true if the address is all zeros.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the hex-encoded address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Bytes returns a copy of the address as a byte slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressSize)
	copy(b, a[:])
	return b
}

// MarshalJSON encodes the address as a hex string.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a hex string into an address.
func (a *Address) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*a = Address{}
		return nil
	}
	parsed, err := HexToAddress(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// HexToAddress converts a 32-character hex string to an Address.
func HexToAddress(s string) (Address, error) {
	var a Address
	if err := decodeFixedHex(a[:], s, "address"); err != nil {
		return Address{}, err
	}
	return a, nil
}
