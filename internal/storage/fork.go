package storage

import (
	"fmt"
	"sort"
	"strings"
)

// Fork is a mutable view over a DB. Writes are buffered in memory and are
// visible to reads through the fork, but the underlying DB is untouched
// until Commit. A fork is scoped to one pending state change and is not
// safe for concurrent use.
type Fork struct {
	db      DB
	pending map[string]batchOp
}

// NewFork opens a mutable view over db.
func NewFork(db DB) *Fork {
	return &Fork{db: db, pending: make(map[string]batchOp)}
}

// Get retrieves a value by key, preferring pending writes.
func (f *Fork) Get(key []byte) ([]byte, error) {
	if op, ok := f.pending[string(key)]; ok {
		if op.delete {
			return nil, fmt.Errorf("fork get %x: %w", key, ErrNotFound)
		}
		return append([]byte{}, op.value...), nil
	}
	return f.db.Get(key)
}

// Has checks if a key exists, preferring pending writes.
func (f *Fork) Has(key []byte) (bool, error) {
	if op, ok := f.pending[string(key)]; ok {
		return !op.delete, nil
	}
	return f.db.Has(key)
}

// ForEach iterates over the merged view of the DB and pending writes, in key order.
func (f *Fork) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	merged := make(map[string][]byte)
	err := f.db.ForEach(prefix, func(key, value []byte) error {
		merged[string(key)] = value
		return nil
	})
	if err != nil {
		return err
	}
	p := string(prefix)
	for k, op := range f.pending {
		if !strings.HasPrefix(k, p) {
			continue
		}
		if op.delete {
			delete(merged, k)
		} else {
			merged[k] = op.value
		}
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), append([]byte{}, merged[k]...)); err != nil {
			return err
		}
	}
	return nil
}

// Put buffers a write.
func (f *Fork) Put(key, value []byte) error {
	f.pending[string(key)] = newBatchOp(key, value, false)
	return nil
}

// Delete buffers a removal.
func (f *Fork) Delete(key []byte) error {
	f.pending[string(key)] = newBatchOp(key, nil, true)
	return nil
}

// Len returns the number of buffered writes.
func (f *Fork) Len() int {
	return len(f.pending)
}

// Commit applies all buffered writes to the DB in one batch and clears
// the fork. When the DB supports Batcher the commit is atomic.
func (f *Fork) Commit() error {
	if len(f.pending) == 0 {
		return nil
	}
	keys := make([]string, 0, len(f.pending))
	for k := range f.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	batch := NewBatch(f.db)
	for _, k := range keys {
		op := f.pending[k]
		var err error
		if op.delete {
			err = batch.Delete(op.key)
		} else {
			err = batch.Put(op.key, op.value)
		}
		if err != nil {
			return fmt.Errorf("fork commit: %w", err)
		}
	}
	if err := batch.Commit(); err != nil {
		return fmt.Errorf("fork commit: %w", err)
	}
	f.Discard()
	return nil
}

// Discard drops all buffered writes.
func (f *Fork) Discard() {
	f.pending = make(map[string]batchOp)
}
