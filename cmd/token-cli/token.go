package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"time"

	"github.com/Klingon-tech/klingnet-tokens/internal/rpc"
	"github.com/Klingon-tech/klingnet-tokens/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-tokens/internal/wallet"
	"github.com/Klingon-tech/klingnet-tokens/pkg/identity"
	"github.com/Klingon-tech/klingnet-tokens/pkg/tx"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

const tokenUsage = "Usage: token-cli token <create|get|list> [flags]"

func cmdToken(client *rpcclient.Client, args []string, ksDir string) {
	if len(args) < 1 {
		fatal(tokenUsage)
	}

	switch args[0] {
	case "create":
		cmdTokenCreate(client, args[1:], ksDir)
	case "get":
		if len(args) < 2 {
			fatal("Usage: token-cli token get <symbol>")
		}
		cmdTokenGet(client, args[1])
	case "list":
		cmdTokenList(client)
	default:
		fatal("Unknown token command: %s\n%s", args[0], tokenUsage)
	}
}

func cmdTokenCreate(client *rpcclient.Client, args []string, ksDir string) {
	fs := flag.NewFlagSet("token create", flag.ExitOnError)
	walletName := fs.String("wallet", "", "Wallet name")
	symbol := fs.String("symbol", "", "Token symbol")
	account := fs.Int("account", -1, "Account index (default: lowest)")
	nonce := fs.Uint64("nonce", 0, "Transaction nonce (default: current time)")
	fs.Parse(args)

	if *walletName == "" || *symbol == "" {
		fatal("Usage: token-cli token create --wallet <w> --symbol <SYM> [--account <i>] [--nonce <n>]")
	}
	if err := (&tx.CreateToken{Symbol: *symbol}).Validate(); err != nil {
		fatal("invalid symbol: %v", err)
	}

	ks, err := wallet.NewKeystore(ksDir)
	if err != nil {
		fatal("open keystore: %v", err)
	}
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}

	var acct *wallet.Account
	if *account < 0 {
		acct, err = ks.DefaultSigner(*walletName, password)
	} else {
		acct, err = ks.Signer(*walletName, password, uint32(*account))
	}
	if err != nil {
		fatal("load signer: %v", err)
	}

	n := *nonce
	if n == 0 {
		n = uint64(time.Now().UnixNano())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, tokenAddr, err := submitCreateToken(ctx, client, acct, *symbol, n)
	if err != nil {
		fatal("%v", err)
	}

	fmt.Printf("Tx:      %s\n", res.TxHash)
	fmt.Printf("Status:  %s\n", res.Result.Status)
	if res.Result.Description != "" {
		fmt.Printf("Detail:  %s\n", res.Result.Description)
	}
	if res.Result.Status == "success" {
		fmt.Printf("Token:   %s\n", tokenAddr)
	}
}

// submitCreateToken signs and submits a CreateToken transaction. The
// account's key is zeroed before it returns.
func submitCreateToken(ctx context.Context, client *rpcclient.Client, acct *wallet.Account, symbol string, nonce uint64) (*rpc.TxSubmitResult, types.Address, error) {
	defer acct.Key.Zero()

	tokenAddr := identity.TokenAddress(acct.Key.PublicKey().Bytes(), symbol)
	transaction, err := tx.NewCreateToken(acct.Key, symbol, nonce)
	if err != nil {
		return nil, types.Address{}, fmt.Errorf("build transaction: %w", err)
	}
	res, err := client.Submit(ctx, transaction)
	if err != nil {
		return nil, types.Address{}, fmt.Errorf("tx_submit: %w", err)
	}
	return res, tokenAddr, nil
}

func cmdTokenGet(client *rpcclient.Client, symbol string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tok, err := client.Token(ctx, symbol)
	if rpcclient.IsNotFound(err) {
		fatal("token %q not found", symbol)
	}
	if err != nil {
		fatal("token_get: %v", err)
	}
	printToken(*tok)
}

func cmdTokenList(client *rpcclient.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tokens, err := client.Tokens(ctx)
	if err != nil {
		fatal("token_list: %v", err)
	}

	if len(tokens) == 0 {
		fmt.Println("No tokens found.")
		return
	}

	fmt.Printf("Tokens: %d\n\n", len(tokens))
	for i, t := range tokens {
		fmt.Printf("  [%d] %s\n", i, t.Symbol)
		fmt.Printf("      Address: %s\n", t.Address)
		fmt.Printf("      Owner:   %s\n", t.Owner)
		fmt.Println()
	}
}

func printToken(t rpc.TokenResult) {
	fmt.Printf("Symbol:         %s\n", t.Symbol)
	fmt.Printf("Address:        %s\n", t.Address)
	fmt.Printf("Owner:          %s\n", t.Owner)
	fmt.Printf("Owner address:  %s\n", t.OwnerAddress)
}

// ── address ─────────────────────────────────────────────────────────────

const addressUsage = "Usage: token-cli address <account <pubkey>|token <owner_id_hex> <symbol>>"

func cmdAddress(args []string) {
	addr, err := deriveAddress(args)
	if err != nil {
		fatal("%v\n%s", err, addressUsage)
	}
	fmt.Printf("Tag:      %d (%s)\n", addr.Tag(), identity.Tag(addr.Tag()))
	fmt.Printf("Address:  %s\n", addr)
}

// deriveAddress computes an address locally, without contacting a node.
func deriveAddress(args []string) (types.Address, error) {
	if len(args) < 1 {
		return types.Address{}, fmt.Errorf("missing address kind")
	}
	switch args[0] {
	case rpc.IdentityAccount:
		if len(args) != 2 {
			return types.Address{}, fmt.Errorf("account takes one public key")
		}
		pk, err := types.HexToPublicKey(args[1])
		if err != nil {
			return types.Address{}, err
		}
		return identity.AccountAddress(pk), nil
	case rpc.IdentityToken:
		if len(args) != 3 {
			return types.Address{}, fmt.Errorf("token takes an owner id and a symbol")
		}
		owner, err := hex.DecodeString(args[1])
		if err != nil {
			return types.Address{}, fmt.Errorf("owner id: %w", err)
		}
		return identity.TokenAddress(owner, args[2]), nil
	default:
		return types.Address{}, fmt.Errorf("unknown address kind %q", args[0])
	}
}
