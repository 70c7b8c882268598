package storage

import (
	"bytes"
	"testing"
)

func TestFork_ReadsSeePendingWrites(t *testing.T) {
	db := NewMemory()
	db.Put([]byte("a"), []byte("base"))

	f := NewFork(db)
	f.Put([]byte("a"), []byte("forked"))
	f.Put([]byte("b"), []byte("new"))

	got, err := f.Get([]byte("a"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, []byte("forked")) {
		t.Errorf("fork Get(a) = %q, want %q", got, "forked")
	}
	if ok, _ := f.Has([]byte("b")); !ok {
		t.Error("fork Has(b) = false, want true")
	}

	// Base is untouched.
	base, _ := db.Get([]byte("a"))
	if !bytes.Equal(base, []byte("base")) {
		t.Errorf("db Get(a) = %q, want %q", base, "base")
	}
	if ok, _ := db.Has([]byte("b")); ok {
		t.Error("pending write leaked into db before Commit")
	}
}

func TestFork_DeleteHidesBaseKey(t *testing.T) {
	db := NewMemory()
	db.Put([]byte("x"), []byte("1"))

	f := NewFork(db)
	f.Delete([]byte("x"))

	if ok, _ := f.Has([]byte("x")); ok {
		t.Error("fork Has(x) after Delete = true")
	}
	if _, err := f.Get([]byte("x")); !IsNotFound(err) {
		t.Errorf("fork Get(x) error = %v, want ErrNotFound", err)
	}
}

func TestFork_ForEachMerges(t *testing.T) {
	db := NewMemory()
	db.Put([]byte("p/a"), []byte("1"))
	db.Put([]byte("p/b"), []byte("2"))
	db.Put([]byte("q/z"), []byte("9"))

	f := NewFork(db)
	f.Delete([]byte("p/a"))
	f.Put([]byte("p/c"), []byte("3"))
	f.Put([]byte("p/b"), []byte("22"))

	var got []string
	err := f.ForEach([]byte("p/"), func(key, value []byte) error {
		got = append(got, string(key)+"="+string(value))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEach: %v", err)
	}
	want := []string{"p/b=22", "p/c=3"}
	if len(got) != len(want) {
		t.Fatalf("ForEach = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ForEach[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFork_Commit(t *testing.T) {
	db := NewMemory()
	db.Put([]byte("gone"), []byte("x"))

	f := NewFork(db)
	f.Put([]byte("k"), []byte("v"))
	f.Delete([]byte("gone"))
	if f.Len() != 2 {
		t.Fatalf("Len = %d, want 2", f.Len())
	}

	if err := f.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("Len after Commit = %d, want 0", f.Len())
	}

	got, err := db.Get([]byte("k"))
	if err != nil || string(got) != "v" {
		t.Errorf("db Get(k) = %q, %v; want %q", got, err, "v")
	}
	if ok, _ := db.Has([]byte("gone")); ok {
		t.Error("deleted key still present after Commit")
	}
}

func TestFork_Discard(t *testing.T) {
	db := NewMemory()
	f := NewFork(db)
	f.Put([]byte("k"), []byte("v"))
	f.Discard()

	if ok, _ := f.Has([]byte("k")); ok {
		t.Error("fork still sees discarded write")
	}
	if err := f.Commit(); err != nil {
		t.Fatalf("Commit after Discard: %v", err)
	}
	if ok, _ := db.Has([]byte("k")); ok {
		t.Error("discarded write reached db")
	}
}

func TestFork_CommitBadger(t *testing.T) {
	db, err := NewBadger(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	defer db.Close()

	f := NewFork(db)
	f.Put([]byte("a"), []byte("1"))
	f.Put([]byte("b"), []byte("2"))
	if err := f.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	for _, k := range []string{"a", "b"} {
		if ok, _ := db.Has([]byte(k)); !ok {
			t.Errorf("badger missing %q after fork commit", k)
		}
	}
}
