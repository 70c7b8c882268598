package main

import (
	"flag"
	"fmt"

	"github.com/Klingon-tech/klingnet-tokens/internal/wallet"
)

const walletUsage = "Usage: token-cli wallet <create|import|list|address|new-address> [flags]"

func cmdWallet(args []string, ksDir string) {
	if len(args) < 1 {
		fatal(walletUsage)
	}

	switch args[0] {
	case "create":
		cmdWalletCreate(args[1:], ksDir)
	case "import":
		cmdWalletImport(args[1:], ksDir)
	case "list":
		cmdWalletList(ksDir)
	case "address":
		cmdWalletAddress(args[1:], ksDir)
	case "new-address":
		cmdWalletNewAddress(args[1:], ksDir)
	default:
		fatal("Unknown wallet command: %s\n%s", args[0], walletUsage)
	}
}

func cmdWalletCreate(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet create", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	fs.Parse(args)

	if *name == "" {
		fatal("Usage: token-cli wallet create --name <name>")
	}

	mnemonic, err := wallet.GenerateMnemonic()
	if err != nil {
		fatal("generate mnemonic: %v", err)
	}

	fmt.Println("Mnemonic (write this down!):")
	fmt.Printf("  %s\n\n", mnemonic)

	acct := storeWallet(ksDir, *name, mnemonic, readNewPassword())

	fmt.Printf("\nWallet created: %s\n", *name)
	printAccount(acct)
}

func cmdWalletImport(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet import", flag.ExitOnError)
	name := fs.String("name", "", "Wallet name")
	mnemonic := fs.String("mnemonic", "", "BIP-39 mnemonic (24 words)")
	fs.Parse(args)

	if *name == "" || *mnemonic == "" {
		fatal("Usage: token-cli wallet import --name <name> --mnemonic \"word1 word2 ...\"")
	}
	if !wallet.ValidateMnemonic(*mnemonic) {
		fatal("invalid mnemonic")
	}

	acct := storeWallet(ksDir, *name, *mnemonic, readNewPassword())

	fmt.Printf("Wallet imported: %s\n", *name)
	printAccount(acct)
}

// storeWallet encrypts the mnemonic's seed into the keystore and records
// account 0.
func storeWallet(ksDir, name, mnemonic string, password []byte) wallet.AccountEntry {
	seed, err := wallet.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		fatal("derive seed: %v", err)
	}
	defer func() {
		for i := range seed {
			seed[i] = 0
		}
	}()

	acct, err := wallet.DeriveAccount(seed, 0, "Default")
	if err != nil {
		fatal("derive account: %v", err)
	}
	acct.Key.Zero()

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("create keystore: %v", err)
	}
	if err := ks.Create(name, seed, password, wallet.DefaultParams()); err != nil {
		fatal("create wallet: %v", err)
	}
	if err := ks.AddAccount(name, acct.AccountEntry); err != nil {
		fatal("add account: %v", err)
	}
	return acct.AccountEntry
}

func cmdWalletList(ksDir string) {
	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	names, err := ks.List()
	if err != nil {
		fatal("list wallets: %v", err)
	}

	if len(names) == 0 {
		fmt.Println("No wallets found.")
		return
	}

	for _, name := range names {
		fmt.Println(name)
	}
}

func cmdWalletAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: token-cli wallet address --wallet <name>")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	accounts, err := ks.ListAccounts(*walletName)
	if err != nil {
		fatal("list accounts: %v", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts found.")
		return
	}

	for _, acct := range accounts {
		fmt.Printf("  [%d] %-10s %s  %s\n", acct.Index, acct.Name, acct.Address, acct.PublicKey)
	}
}

func cmdWalletNewAddress(args []string, ksDir string) {
	fs := flag.NewFlagSet("wallet new-address", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	label := fs.String("label", "", "Account label")
	fs.Parse(args)

	if *walletName == "" {
		fatal("Usage: token-cli wallet new-address --wallet <name> [--label <label>]")
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}

	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	acct, err := ks.NewAccount(*walletName, password, *label)
	if err != nil {
		fatal("new account: %v", err)
	}
	acct.Key.Zero()

	printAccount(acct.AccountEntry)
}

func printAccount(acct wallet.AccountEntry) {
	fmt.Printf("Account:    %d\n", acct.Index)
	fmt.Printf("Public key: %s\n", acct.PublicKey)
	fmt.Printf("Address:    %s\n", acct.Address)
}
