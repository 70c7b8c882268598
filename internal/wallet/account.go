package wallet

import (
	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
)

// DefaultAccount is the BIP-44 account used for all derived keys.
const DefaultAccount = 0

// Account is a derived key together with its keystore metadata.
type Account struct {
	AccountEntry
	Key *crypto.PrivateKey
}

// DeriveAccount derives the signing key at index from a wallet seed.
func DeriveAccount(seed []byte, index uint32, name string) (*Account, error) {
	master, err := NewMasterKey(seed)
	if err != nil {
		return nil, err
	}
	defer master.Zero()

	hd, err := master.DeriveAccount(DefaultAccount, index)
	if err != nil {
		return nil, err
	}
	defer hd.Zero()

	key, err := hd.Signer()
	if err != nil {
		return nil, err
	}
	return &Account{
		AccountEntry: AccountEntry{
			Index:     index,
			Name:      name,
			PublicKey: key.PublicKey().String(),
			Address:   hd.Address().String(),
		},
		Key: key,
	}, nil
}
