package rpcclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	klog "github.com/Klingon-tech/klingnet-tokens/internal/log"
	"github.com/Klingon-tech/klingnet-tokens/internal/rpc"
	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/internal/token"
	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
	"github.com/Klingon-tech/klingnet-tokens/pkg/tx"
)

func setupClient(t *testing.T) *Client {
	t.Helper()
	klog.Init("error", false, "")

	registry := service.NewRegistry()
	if err := token.Register(registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	executor, err := service.NewExecutor(storage.NewMemory(), registry)
	if err != nil {
		t.Fatalf("create executor: %v", err)
	}

	srv := rpc.New("127.0.0.1:0", executor, "testnet")
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	return New(fmt.Sprintf("http://%s/", srv.Addr()))
}

func TestClient_TokenLifecycle(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	if _, err := c.Token(ctx, "BTC"); !IsNotFound(err) {
		t.Fatalf("Token(BTC) = %v, want not found", err)
	}

	key, _ := crypto.GenerateKey()
	transaction, err := tx.NewCreateToken(key, "BTC", 1)
	if err != nil {
		t.Fatalf("NewCreateToken: %v", err)
	}
	sub, err := c.Submit(ctx, transaction)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if sub.Result.Status != "success" {
		t.Errorf("status = %s", sub.Result.Status)
	}
	if sub.TxHash != transaction.Hash().String() {
		t.Errorf("tx_hash = %s, want %s", sub.TxHash, transaction.Hash())
	}

	tok, err := c.Token(ctx, "BTC")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if tok.Owner != key.PublicKey().String() {
		t.Errorf("owner = %s", tok.Owner)
	}

	list, err := c.Tokens(ctx)
	if err != nil || len(list) != 1 {
		t.Errorf("Tokens() = %v, %v", list, err)
	}

	res, err := c.Result(ctx, sub.TxHash)
	if err != nil || res.Result.Status != "success" {
		t.Errorf("Result() = %+v, %v", res, err)
	}

	info, err := c.NodeInfo(ctx)
	if err != nil || info.Tokens != 1 {
		t.Errorf("NodeInfo() = %+v, %v", info, err)
	}
}

func TestClient_Derive(t *testing.T) {
	c := setupClient(t)
	got, err := c.Derive(context.Background(), rpc.IdentityDeriveParam{
		Kind:    rpc.IdentityToken,
		OwnerID: "01010101010101010101010101010101",
		Symbol:  "USD",
	})
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if got.Address != "b02abae7735206dd7e0901f2f967eea8" {
		t.Errorf("address = %s", got.Address)
	}
}

func TestClient_MethodNotFound(t *testing.T) {
	c := setupClient(t)
	err := c.Call("nonexistent_method", nil, nil)
	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error = %v, want *RPCError", err)
	}
	if rpcErr.Code != -32601 {
		t.Errorf("code = %d, want -32601", rpcErr.Code)
	}
	if IsNotFound(err) {
		t.Error("method-not-found is not a not-found error")
	}
}

func TestClient_ConnectionError(t *testing.T) {
	c := NewWithTimeout("http://127.0.0.1:1/", time.Second)
	if err := c.Call("node_getInfo", nil, nil); err == nil {
		t.Error("expected connection error")
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	c := setupClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.NodeInfo(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("NodeInfo() = %v, want context.Canceled", err)
	}
}
