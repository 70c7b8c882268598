// token-cli is a command-line client for a tokend node and its local
// keystore.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Klingon-tech/klingnet-tokens/config"
	"github.com/Klingon-tech/klingnet-tokens/internal/rpcclient"
	"golang.org/x/term"
)

// globals are the flags accepted before the subcommand.
type globals struct {
	rpcURL  string
	dataDir string
	network string
}

// keystoreDir returns the keystore path matching tokend's layout:
// <datadir>/<network>/keystore
func (g globals) keystoreDir() string {
	return filepath.Join(g.dataDir, g.network, "keystore")
}

// parseGlobals consumes --rpc, --datadir and --network (in either
// "--flag value" or "--flag=value" form) and returns the remaining args.
func parseGlobals(args []string) (globals, []string) {
	g := globals{
		rpcURL:  "",
		dataDir: config.DefaultDataDir(),
		network: string(config.Mainnet),
	}

	for len(args) > 0 {
		name, value, consumed := splitFlag(args, "--rpc", "--datadir", "--network")
		if consumed == 0 {
			break
		}
		switch name {
		case "--rpc":
			g.rpcURL = value
		case "--datadir":
			g.dataDir = value
		case "--network":
			g.network = value
		}
		args = args[consumed:]
	}

	if g.rpcURL == "" {
		cfg := config.Default(config.NetworkType(g.network))
		g.rpcURL = "http://" + cfg.RPCListenAddr()
	}
	return g, args
}

// splitFlag matches args[0] against names and returns the flag name, its
// value and how many args were consumed (0 when args[0] is not one of names).
func splitFlag(args []string, names ...string) (string, string, int) {
	for _, name := range names {
		if args[0] == name && len(args) > 1 {
			return name, args[1], 2
		}
		if v, ok := strings.CutPrefix(args[0], name+"="); ok {
			return name, v, 1
		}
	}
	return "", "", 0
}

func main() {
	g, args := parseGlobals(os.Args[1:])
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}

	client := rpcclient.New(g.rpcURL)
	cmd := args[0]
	cmdArgs := args[1:]

	switch cmd {
	case "status":
		cmdStatus(client)
	case "tx":
		cmdTx(client, cmdArgs)
	case "wallet":
		cmdWallet(cmdArgs, g.keystoreDir())
	case "token":
		cmdToken(client, cmdArgs, g.keystoreDir())
	case "address":
		cmdAddress(cmdArgs)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: token-cli [global flags] <command> [flags]

Global flags:
  --rpc <url>         RPC endpoint (default: http://127.0.0.1:8200, testnet 8201)
  --datadir <path>    Data directory (default: ~/.klingnet-tokens)
  --network <net>     mainnet (default) or testnet

Commands:
  status                          Show node status
  tx <hash>                       Show the execution result of a transaction

  wallet create --name <n>        Create a new wallet
  wallet import --name <n> --mnemonic "..."
                                  Import wallet from mnemonic
  wallet list                     List wallets
  wallet address --wallet <w>     List wallet accounts
  wallet new-address --wallet <w> [--label <l>]
                                  Derive a new account

  token create --wallet <w> --symbol <SYM> [--account <i>] [--nonce <n>]
                                  Create a token owned by the wallet account
  token get <SYM>                 Show one token
  token list                      List all tokens

  address account <pubkey>        Derive an account address
  address token <owner_id> <SYM>  Derive a token address
`)
}

// ── status ──────────────────────────────────────────────────────────────

func cmdStatus(client *rpcclient.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info, err := client.NodeInfo(ctx)
	if err != nil {
		fatal("node_getInfo: %v", err)
	}

	fmt.Printf("Network:  %s\n", info.Network)
	fmt.Printf("Version:  %s\n", info.Version)
	fmt.Printf("Tokens:   %d\n", info.Tokens)
	for _, svc := range info.Services {
		fmt.Printf("Service:  [%d] %s\n", svc.ID, svc.Name)
		for _, m := range svc.Messages {
			fmt.Printf("            [%d] %s\n", m.ID, m.Name)
		}
	}
}

// ── tx ──────────────────────────────────────────────────────────────────

func cmdTx(client *rpcclient.Client, args []string) {
	if len(args) < 1 {
		fatal("Usage: token-cli tx <hash>")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := client.Result(ctx, args[0])
	if err != nil {
		fatal("tx_getResult: %v", err)
	}

	fmt.Printf("Tx:      %s\n", res.TxHash)
	fmt.Printf("Status:  %s\n", res.Result.Status)
	if res.Result.Code != nil {
		fmt.Printf("Code:    %d\n", *res.Result.Code)
	}
	if res.Result.Description != "" {
		fmt.Printf("Detail:  %s\n", res.Result.Description)
	}
}

// ── Password helper ─────────────────────────────────────────────────────

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, err
	}
	return password, nil
}

// readNewPassword prompts twice and fails when the entries differ.
func readNewPassword() []byte {
	password, err := readPassword("Enter password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		fatal("read password: %v", err)
	}
	if string(password) != string(confirm) {
		fatal("passwords do not match")
	}
	return password
}

// ── Error helper ────────────────────────────────────────────────────────

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
