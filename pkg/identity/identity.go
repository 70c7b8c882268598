// Package identity derives fixed-size ledger addresses from account and token
// descriptors.
//
// An address is one tag byte followed by the first 15 bytes of the SHA-256
// digest of the descriptor's preimage. Derivation is deterministic and total:
// every descriptor, including one with an empty symbol or owner id, has an
// address.
package identity

import (
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
	"github.com/minio/sha256-simd"
)

// Tag is the leading byte of an address identifying the kind of entity.
type Tag byte

// Address tags.
const (
	TagAccount Tag = 160
	TagToken   Tag = 176

	// Reserved for future entity kinds. Never produced by Derive.
	TagReserved192 Tag = 192
	TagReserved208 Tag = 208
)

// DigestSize is the number of digest bytes kept in an address.
const DigestSize = types.AddressSize - 1

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagAccount:
		return "account"
	case TagToken:
		return "token"
	case TagReserved192, TagReserved208:
		return "reserved"
	default:
		return "unknown"
	}
}

// Descriptor is an entity whose address can be derived.
// Implemented only by Account and Token.
type Descriptor interface {
	Tag() Tag
	preimage() []byte
}

// Account describes a participant identified by its public key.
type Account struct {
	PublicKey types.PublicKey
}

// Tag returns TagAccount.
func (Account) Tag() Tag { return TagAccount }

func (a Account) preimage() []byte { return a.PublicKey[:] }

// Token describes a token by the owner identity bytes and its symbol.
type Token struct {
	OwnerID []byte
	Symbol  string
}

// Tag returns TagToken.
func (Token) Tag() Tag { return TagToken }

// No separator between owner id and symbol.
func (t Token) preimage() []byte {
	buf := make([]byte, 0, len(t.OwnerID)+len(t.Symbol))
	buf = append(buf, t.OwnerID...)
	return append(buf, t.Symbol...)
}

// Derive computes the address of a descriptor.
func Derive(d Descriptor) types.Address {
	digest := sha256.Sum256(d.preimage())

	var addr types.Address
	addr[0] = byte(d.Tag())
	copy(addr[1:], digest[:DigestSize])
	return addr
}

// AccountAddress derives the address of the account owning pk.
func AccountAddress(pk types.PublicKey) types.Address {
	return Derive(Account{PublicKey: pk})
}

// TokenAddress derives the address of the token with the given owner id and
// symbol.
func TokenAddress(ownerID []byte, symbol string) types.Address {
	return Derive(Token{OwnerID: ownerID, Symbol: symbol})
}
