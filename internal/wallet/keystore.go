package wallet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	klog "github.com/Klingon-tech/klingnet-tokens/internal/log"
)

// Keystore errors.
var (
	ErrWalletExists   = errors.New("wallet already exists")
	ErrWalletNotFound = errors.New("wallet not found")
	ErrAccountExists  = errors.New("account already exists")
	ErrNoAccounts     = errors.New("wallet has no accounts")
)

const keystoreVersion = 2

// keystoreFile is the on-disk JSON format for an encrypted wallet.
type keystoreFile struct {
	Version       int            `json:"version"`
	CreatedAt     time.Time      `json:"created_at"`
	EncryptedSeed []byte         `json:"encrypted_seed"`
	Accounts      []AccountEntry `json:"accounts"`
	NextIndex     uint32         `json:"next_index"`
}

// AccountEntry stores metadata for a derived account.
type AccountEntry struct {
	Index     uint32 `json:"index"`
	Name      string `json:"name"`
	PublicKey string `json:"public_key"` // hex-encoded Ed25519 key
	Address   string `json:"address"`    // hex-encoded account address
}

// Keystore manages encrypted wallet files in one directory.
type Keystore struct {
	path string
}

// NewKeystore creates a keystore that reads/writes to the given directory.
// The directory is created if it doesn't exist.
func NewKeystore(path string) (*Keystore, error) {
	if err := os.MkdirAll(path, 0700); err != nil {
		return nil, fmt.Errorf("create keystore dir: %w", err)
	}
	return &Keystore{path: path}, nil
}

// Path returns the keystore directory.
func (ks *Keystore) Path() string {
	return ks.path
}

func (ks *Keystore) walletPath(name string) string {
	return filepath.Join(ks.path, name+".wallet")
}

// Exists reports whether a wallet with the given name exists.
func (ks *Keystore) Exists(name string) bool {
	_, err := os.Stat(ks.walletPath(name))
	return err == nil
}

// Create writes a new wallet holding seed encrypted under password.
func (ks *Keystore) Create(name string, seed, password []byte, params EncryptionParams) error {
	if name == "" || filepath.Base(name) != name {
		return fmt.Errorf("invalid wallet name %q", name)
	}
	if ks.Exists(name) {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}

	encrypted, err := Encrypt(seed, password, params)
	if err != nil {
		return fmt.Errorf("encrypt seed: %w", err)
	}

	path := ks.walletPath(name)
	if err := ks.writeFile(path, &keystoreFile{
		Version:       keystoreVersion,
		CreatedAt:     time.Now().UTC(),
		EncryptedSeed: encrypted,
		Accounts:      []AccountEntry{},
	}); err != nil {
		return err
	}

	klog.Wallet.Debug().Str("wallet", name).Str("path", path).Msg("Wallet created")
	return nil
}

// Load decrypts a wallet and returns the seed bytes.
func (ks *Keystore) Load(name string, password []byte) ([]byte, error) {
	kf, err := ks.readFile(name)
	if err != nil {
		return nil, err
	}
	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		klog.Wallet.Debug().Str("wallet", name).Err(err).Msg("Wallet unlock failed")
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}
	klog.Wallet.Debug().Str("wallet", name).Msg("Wallet unlocked")
	return seed, nil
}

// NewAccount derives the next account of a wallet, records it and returns
// it with its signing key.
func (ks *Keystore) NewAccount(walletName string, password []byte, accountName string) (*Account, error) {
	kf, err := ks.readFile(walletName)
	if err != nil {
		return nil, err
	}
	seed, err := Decrypt(kf.EncryptedSeed, password)
	if err != nil {
		return nil, fmt.Errorf("decrypt wallet: %w", err)
	}
	defer zero(seed)

	acct, err := DeriveAccount(seed, kf.NextIndex, accountName)
	if err != nil {
		return nil, err
	}
	if err := kf.addAccount(acct.AccountEntry); err != nil {
		return nil, err
	}
	kf.NextIndex++
	if err := ks.writeFile(ks.walletPath(walletName), kf); err != nil {
		return nil, err
	}
	return acct, nil
}

// AddAccount records a derived account in the wallet metadata.
func (ks *Keystore) AddAccount(walletName string, acct AccountEntry) error {
	kf, err := ks.readFile(walletName)
	if err != nil {
		return err
	}
	if err := kf.addAccount(acct); err != nil {
		return err
	}
	if acct.Index >= kf.NextIndex {
		kf.NextIndex = acct.Index + 1
	}
	return ks.writeFile(ks.walletPath(walletName), kf)
}

func (kf *keystoreFile) addAccount(acct AccountEntry) error {
	for _, existing := range kf.Accounts {
		if existing.Index == acct.Index {
			if existing.Address == acct.Address {
				return nil
			}
			return fmt.Errorf("%w: index %d", ErrAccountExists, acct.Index)
		}
	}
	kf.Accounts = append(kf.Accounts, acct)
	sort.Slice(kf.Accounts, func(i, j int) bool { return kf.Accounts[i].Index < kf.Accounts[j].Index })
	return nil
}

// ListAccounts returns the account entries of a wallet ordered by index.
func (ks *Keystore) ListAccounts(walletName string) ([]AccountEntry, error) {
	kf, err := ks.readFile(walletName)
	if err != nil {
		return nil, err
	}
	return kf.Accounts, nil
}

// Signer loads the signing key of the account at index.
func (ks *Keystore) Signer(walletName string, password []byte, index uint32) (*Account, error) {
	seed, err := ks.Load(walletName, password)
	if err != nil {
		return nil, err
	}
	defer zero(seed)

	accounts, err := ks.ListAccounts(walletName)
	if err != nil {
		return nil, err
	}
	for _, a := range accounts {
		if a.Index == index {
			return DeriveAccount(seed, index, a.Name)
		}
	}
	return nil, fmt.Errorf("account %d not found in wallet %q", index, walletName)
}

// DefaultSigner loads the lowest-index account of a wallet.
func (ks *Keystore) DefaultSigner(walletName string, password []byte) (*Account, error) {
	accounts, err := ks.ListAccounts(walletName)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoAccounts, walletName)
	}
	return ks.Signer(walletName, password, accounts[0].Index)
}

// List returns the names of all wallets in the keystore, sorted.
func (ks *Keystore) List() ([]string, error) {
	entries, err := os.ReadDir(ks.path)
	if err != nil {
		return nil, fmt.Errorf("read keystore dir: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if ext := filepath.Ext(name); ext == ".wallet" {
			names = append(names, name[:len(name)-len(ext)])
		}
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a wallet file.
func (ks *Keystore) Delete(name string) error {
	if !ks.Exists(name) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return os.Remove(ks.walletPath(name))
}

func (ks *Keystore) writeFile(path string, kf *keystoreFile) error {
	data, err := json.MarshalIndent(kf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal wallet: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

func (ks *Keystore) readFile(name string) (*keystoreFile, error) {
	data, err := os.ReadFile(ks.walletPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("parse wallet: %w", err)
	}
	if kf.Version != keystoreVersion {
		return nil, fmt.Errorf("unsupported wallet version: %d", kf.Version)
	}
	return &kf, nil
}
