package token

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
	"github.com/Klingon-tech/klingnet-tokens/pkg/tx"
)

func newTestExecutor(t *testing.T) (*service.Executor, storage.DB) {
	t.Helper()
	db := storage.NewMemory()
	r := service.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("Register: %v", err)
	}
	ex, err := service.NewExecutor(db, r)
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return ex, db
}

func mustKey(t *testing.T) *crypto.PrivateKey {
	t.Helper()
	k, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	return k
}

func TestRegister_Twice(t *testing.T) {
	r := service.NewRegistry()
	if err := Register(r); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(r); !errors.Is(err, service.ErrDuplicate) {
		t.Errorf("second Register = %v, want ErrDuplicate", err)
	}
}

func TestService_CreateToken(t *testing.T) {
	ex, db := newTestExecutor(t)
	alice, bob := mustKey(t), mustKey(t)

	create, err := tx.NewCreateToken(alice, "BTC", 0)
	if err != nil {
		t.Fatalf("NewCreateToken: %v", err)
	}
	_, res, err := ex.Execute(create)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !res.IsSuccess() {
		t.Fatalf("result = %+v, want success", res)
	}

	dup, _ := tx.NewCreateToken(bob, "BTC", 0)
	hash, res, err := ex.Execute(dup)
	if err != nil {
		t.Fatalf("Execute dup: %v", err)
	}
	if res.Status != service.StatusError || res.Code == nil || *res.Code != 0 {
		t.Errorf("dup result = %+v, want error code 0", res)
	}
	if res.Description != "Token already exists" {
		t.Errorf("Description = %q", res.Description)
	}
	if stored, ok, _ := ex.Result(hash); !ok || stored.Status != service.StatusError {
		t.Errorf("stored dup result = %+v, %v", stored, ok)
	}

	got, _, _ := NewSchema(db).Token("BTC")
	if got.Owner != alice.PublicKey() {
		t.Errorf("owner = %s, want alice", got.Owner)
	}
}

func TestHandleCreateToken_LogsThroughContext(t *testing.T) {
	var buf bytes.Buffer
	db := storage.NewMemory()
	key := mustKey(t)
	ctx := &service.Context{
		Author: key.PublicKey(),
		Fork:   storage.NewFork(db),
		Logger: zerolog.New(&buf).With().Str("tx", "abc").Logger(),
	}

	if err := handleCreateToken(ctx, (&tx.CreateToken{Symbol: "LOG"}).Encode()); err != nil {
		t.Fatalf("handleCreateToken: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"symbol":"LOG"`) || !strings.Contains(out, `"tx":"abc"`) {
		t.Errorf("log output = %q, want symbol and tx fields", out)
	}
}

func TestService_LongSymbols(t *testing.T) {
	engines := []struct {
		name string
		open func(t *testing.T) storage.DB
	}{
		{"memory", func(t *testing.T) storage.DB { return storage.NewMemory() }},
		{"badger", func(t *testing.T) storage.DB {
			db, err := storage.NewBadger(t.TempDir())
			if err != nil {
				t.Fatalf("NewBadger: %v", err)
			}
			t.Cleanup(func() { db.Close() })
			return db
		}},
	}
	for _, eng := range engines {
		t.Run(eng.name, func(t *testing.T) {
			db := eng.open(t)
			r := service.NewRegistry()
			if err := Register(r); err != nil {
				t.Fatalf("Register: %v", err)
			}
			ex, err := service.NewExecutor(db, r)
			if err != nil {
				t.Fatalf("NewExecutor: %v", err)
			}
			key := mustKey(t)

			for i, n := range []int{256, tx.MaxSymbolLength} {
				symbol := strings.Repeat("s", n)
				b := tx.NewBuilder(ServiceID, CreateTokenMessageID).
					SetNonce(uint64(i)).
					SetPayload((&tx.CreateToken{Symbol: symbol}).Encode())
				if err := b.Sign(key); err != nil {
					t.Fatalf("Sign: %v", err)
				}
				_, res, err := ex.Execute(b.Build())
				if err != nil {
					t.Fatalf("Execute(%d bytes): %v", n, err)
				}
				if !res.IsSuccess() {
					t.Fatalf("Execute(%d bytes) = %+v, want success", n, res)
				}
				if _, ok, _ := NewSchema(db).Token(symbol); !ok {
					t.Errorf("%d-byte symbol not stored", n)
				}
			}

			b := tx.NewBuilder(ServiceID, CreateTokenMessageID).
				SetNonce(9).
				SetPayload((&tx.CreateToken{Symbol: strings.Repeat("s", tx.MaxSymbolLength+1)}).Encode())
			if err := b.Sign(key); err != nil {
				t.Fatalf("Sign: %v", err)
			}
			_, res, err := ex.Execute(b.Build())
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if res.Status != service.StatusError {
				t.Errorf("oversized symbol status = %s, want error", res.Status)
			}
		})
	}
}

func TestService_MalformedPayload(t *testing.T) {
	ex, db := newTestExecutor(t)
	b := tx.NewBuilder(ServiceID, CreateTokenMessageID).SetPayload([]byte{0x80})
	if err := b.Sign(mustKey(t)); err != nil {
		t.Fatalf("Sign: %v", err)
	}

	_, res, err := ex.Execute(b.Build())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.Status != service.StatusError || res.Code != nil {
		t.Errorf("result = %+v, want uncoded error", res)
	}
	if n, _ := NewSchema(db).Count(); n != 0 {
		t.Errorf("Count() = %d, want 0", n)
	}
}

func TestService_ConcurrentCreatesOneWinner(t *testing.T) {
	ex, db := newTestExecutor(t)

	const workers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		key := mustKey(t)
		wg.Add(1)
		go func() {
			defer wg.Done()
			create, err := tx.NewCreateToken(key, "BTC", 0)
			if err != nil {
				t.Errorf("NewCreateToken: %v", err)
				return
			}
			_, res, err := ex.Execute(create)
			if err != nil {
				t.Errorf("Execute: %v", err)
				return
			}
			if res.IsSuccess() {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if success != 1 {
		t.Errorf("%d creates succeeded, want exactly 1", success)
	}
	if n, _ := NewSchema(db).Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
}
