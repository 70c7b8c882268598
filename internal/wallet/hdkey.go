package wallet

import (
	"fmt"

	"github.com/stellar/go/exp/crypto/derivation"

	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
	"github.com/Klingon-tech/klingnet-tokens/pkg/identity"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

// Derivation path constants. Full path: m/44'/CoinType'/account'/0'/index'.
// Ed25519 supports hardened derivation only, so every level is hardened.
const (
	HardenedOffset uint32 = derivation.FirstHardenedIndex

	PurposeBIP44 = HardenedOffset + 44

	// CoinTypeKlingnet is a placeholder coin type.
	CoinTypeKlingnet = HardenedOffset + 8888
)

// HDKey is a SLIP-10 Ed25519 extended private key.
type HDKey struct {
	key   *derivation.Key
	depth uint8
}

// NewMasterKey creates a master key from a BIP-39 seed.
func NewMasterKey(seed []byte) (*HDKey, error) {
	if len(seed) < 16 || len(seed) > SeedSize {
		return nil, fmt.Errorf("seed must be 16..%d bytes, got %d", SeedSize, len(seed))
	}
	key, err := derivation.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("master key: %w", err)
	}
	return &HDKey{key: key}, nil
}

// DeriveChild derives the hardened child at index. Indices below
// HardenedOffset are hardened implicitly.
func (k *HDKey) DeriveChild(index uint32) (*HDKey, error) {
	if k.depth == 255 {
		return nil, fmt.Errorf("derive child %d: maximum depth reached", index)
	}
	child, err := k.key.Derive(index | HardenedOffset)
	if err != nil {
		return nil, fmt.Errorf("derive child %d: %w", index, err)
	}
	return &HDKey{key: child, depth: k.depth + 1}, nil
}

// DerivePath derives a key along a sequence of indices.
func (k *HDKey) DerivePath(indices ...uint32) (*HDKey, error) {
	current := k
	for _, idx := range indices {
		child, err := current.DeriveChild(idx)
		if err != nil {
			return nil, err
		}
		current = child
	}
	return current, nil
}

// DeriveAccount derives the key at m/44'/8888'/account'/0'/index'.
func (k *HDKey) DeriveAccount(account, index uint32) (*HDKey, error) {
	return k.DerivePath(PurposeBIP44, CoinTypeKlingnet, account, 0, index)
}

// PrivateKeyBytes returns a copy of the 32-byte Ed25519 seed.
func (k *HDKey) PrivateKeyBytes() []byte {
	return append([]byte{}, k.key.Key...)
}

// ChainCode returns a copy of the chain code.
func (k *HDKey) ChainCode() []byte {
	return append([]byte{}, k.key.ChainCode...)
}

// Signer returns the Ed25519 signing key.
func (k *HDKey) Signer() (*crypto.PrivateKey, error) {
	seed := k.key.RawSeed()
	return crypto.PrivateKeyFromSeed(seed[:])
}

// PublicKey returns the Ed25519 public key.
func (k *HDKey) PublicKey() types.PublicKey {
	signer, err := k.Signer()
	if err != nil {
		// Unreachable: RawSeed is always SeedSize bytes.
		panic(err)
	}
	return signer.PublicKey()
}

// Address returns the account address of this key.
func (k *HDKey) Address() types.Address {
	return identity.AccountAddress(k.PublicKey())
}

// Depth returns the derivation depth (0 for master).
func (k *HDKey) Depth() uint8 {
	return k.depth
}

// Zero overwrites the key material.
func (k *HDKey) Zero() {
	clear(k.key.Key)
	clear(k.key.ChainCode)
}
