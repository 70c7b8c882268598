package token

import (
	"errors"
	"testing"

	"github.com/Klingon-tech/klingnet-tokens/internal/service"
	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

var (
	alice = types.PublicKey{0xa1}
	bob   = types.PublicKey{0xb0}
)

func TestCreateToken_CreatesOnce(t *testing.T) {
	db := storage.NewMemory()

	if err := CreateToken(db, "BTC", alice); err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	got, ok, err := NewSchema(db).Token("BTC")
	if err != nil || !ok {
		t.Fatalf("Token(BTC) = %v, %v", ok, err)
	}
	if got.Owner != alice || got.Symbol != "BTC" {
		t.Errorf("got %+v, want owner alice symbol BTC", got)
	}
}

func TestCreateToken_RejectsExisting(t *testing.T) {
	for _, actor := range []types.PublicKey{alice, bob} {
		t.Run(actor.String()[:4], func(t *testing.T) {
			db := storage.NewMemory()
			if err := CreateToken(db, "BTC", alice); err != nil {
				t.Fatalf("CreateToken: %v", err)
			}

			err := CreateToken(db, "BTC", actor)
			if !errors.Is(err, ErrTokenAlreadyExists) {
				t.Fatalf("second CreateToken = %v, want ErrTokenAlreadyExists", err)
			}
			ee, ok := service.AsExecutionError(err)
			if !ok || ee.Code != 0 || ee.Description != "Token already exists" {
				t.Errorf("execution error = %+v", ee)
			}

			got, _, _ := NewSchema(db).Token("BTC")
			if got.Owner != alice {
				t.Errorf("owner changed to %s", got.Owner)
			}
		})
	}
}

func TestCreateToken_RejectionWritesNothing(t *testing.T) {
	db := storage.NewMemory()
	if err := CreateToken(db, "BTC", alice); err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	fork := storage.NewFork(db)
	if err := CreateToken(fork, "BTC", bob); err == nil {
		t.Fatal("expected rejection")
	}
	if fork.Len() != 0 {
		t.Errorf("rejected transition buffered %d writes", fork.Len())
	}
}

func TestCreateToken_ListsAll(t *testing.T) {
	db := storage.NewMemory()
	if err := CreateToken(db, "A", alice); err != nil {
		t.Fatalf("CreateToken(A): %v", err)
	}
	if err := CreateToken(db, "B", bob); err != nil {
		t.Fatalf("CreateToken(B): %v", err)
	}

	got, err := NewSchema(db).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	seen := map[string]types.PublicKey{}
	for _, tok := range got {
		seen[tok.Symbol] = tok.Owner
	}
	if len(got) != 2 || seen["A"] != alice || seen["B"] != bob {
		t.Errorf("List() = %+v", got)
	}
}

func TestCreateToken_AnySymbol(t *testing.T) {
	db := storage.NewMemory()
	for _, sym := range []string{"", "a/b", "日本"} {
		if err := CreateToken(db, sym, alice); err != nil {
			t.Errorf("CreateToken(%q): %v", sym, err)
		}
	}
	if n, _ := NewSchema(db).Count(); n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}
