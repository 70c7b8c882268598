package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/Klingon-tech/klingnet-tokens/internal/rpcclient"
	"github.com/Klingon-tech/klingnet-tokens/internal/wallet"
	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
	"github.com/Klingon-tech/klingnet-tokens/pkg/identity"
)

func TestParseGlobals(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantRPC  string
		wantNet  string
		wantDir  string
		wantRest []string
	}{
		{
			name:     "defaults",
			args:     []string{"status"},
			wantRPC:  "http://127.0.0.1:8200",
			wantNet:  "mainnet",
			wantRest: []string{"status"},
		},
		{
			name:     "testnet port",
			args:     []string{"--network=testnet", "token", "list"},
			wantRPC:  "http://127.0.0.1:8201",
			wantNet:  "testnet",
			wantRest: []string{"token", "list"},
		},
		{
			name:     "explicit values",
			args:     []string{"--rpc", "http://node:9000", "--datadir=/tmp/x", "tx", "abcd"},
			wantRPC:  "http://node:9000",
			wantNet:  "mainnet",
			wantDir:  "/tmp/x",
			wantRest: []string{"tx", "abcd"},
		},
		{
			name:     "flag without value is left alone",
			args:     []string{"--rpc"},
			wantRPC:  "http://127.0.0.1:8200",
			wantNet:  "mainnet",
			wantRest: []string{"--rpc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, rest := parseGlobals(tt.args)
			if g.rpcURL != tt.wantRPC {
				t.Errorf("rpcURL = %s, want %s", g.rpcURL, tt.wantRPC)
			}
			if g.network != tt.wantNet {
				t.Errorf("network = %s, want %s", g.network, tt.wantNet)
			}
			if tt.wantDir != "" && g.dataDir != tt.wantDir {
				t.Errorf("dataDir = %s, want %s", g.dataDir, tt.wantDir)
			}
			if len(rest) != len(tt.wantRest) {
				t.Fatalf("rest = %v, want %v", rest, tt.wantRest)
			}
			for i := range rest {
				if rest[i] != tt.wantRest[i] {
					t.Errorf("rest[%d] = %s, want %s", i, rest[i], tt.wantRest[i])
				}
			}
		})
	}
}

func TestKeystoreDir(t *testing.T) {
	g := globals{dataDir: "/data", network: "testnet"}
	if got := g.keystoreDir(); got != filepath.Join("/data", "testnet", "keystore") {
		t.Errorf("keystoreDir() = %s", got)
	}
}

func TestDeriveAddress(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{
			name: "account",
			args: []string{"account", "8a88e3dd7409f195fd52db2d3cba5d72ca6709bf1d94121bf3748801b40f6f5c"},
			want: "a034750f98bd59fcfc946da45aaabe93",
		},
		{
			name: "token",
			args: []string{"token", "01010101010101010101010101010101", "USD"},
			want: "b02abae7735206dd7e0901f2f967eea8",
		},
		{name: "no kind", args: nil, wantErr: true},
		{name: "unknown kind", args: []string{"wallet", "x"}, wantErr: true},
		{name: "short key", args: []string{"account", "abcd"}, wantErr: true},
		{name: "bad owner hex", args: []string{"token", "zz", "USD"}, wantErr: true},
		{name: "missing symbol", args: []string{"token", "01"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := deriveAddress(tt.args)
			if tt.wantErr {
				if err == nil {
					t.Errorf("deriveAddress(%v) should fail", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("deriveAddress: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("address = %s, want %s", got, tt.want)
			}
		})
	}
}

func testAccount(t *testing.T) *wallet.Account {
	t.Helper()
	seed, err := wallet.SeedFromMnemonic("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about", "")
	if err != nil {
		t.Fatalf("SeedFromMnemonic: %v", err)
	}
	acct, err := wallet.DeriveAccount(seed, 0, "main")
	if err != nil {
		t.Fatalf("DeriveAccount: %v", err)
	}
	return acct
}

func TestSubmitCreateToken_ZeroesKey(t *testing.T) {
	zero := make([]byte, crypto.SeedSize)

	t.Run("success", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"tx_hash":"ab","result":{"status":"success"}}}`))
		}))
		defer srv.Close()

		acct := testAccount(t)
		owner := acct.Key.PublicKey()
		res, addr, err := submitCreateToken(context.Background(), rpcclient.New(srv.URL), acct, "BTC", 1)
		if err != nil {
			t.Fatalf("submitCreateToken: %v", err)
		}
		if res.Result.Status != "success" {
			t.Errorf("status = %s, want success", res.Result.Status)
		}
		if want := identity.TokenAddress(owner.Bytes(), "BTC"); addr != want {
			t.Errorf("token address = %s, want %s", addr, want)
		}
		if !bytes.Equal(acct.Key.Seed(), zero) {
			t.Error("key should be zeroed after submit")
		}
	})

	t.Run("node unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		acct := testAccount(t)
		if _, _, err := submitCreateToken(context.Background(), rpcclient.New(url), acct, "BTC", 1); err == nil {
			t.Fatal("submitCreateToken should fail")
		}
		if !bytes.Equal(acct.Key.Seed(), zero) {
			t.Error("key should be zeroed when submit fails")
		}
	})
}
