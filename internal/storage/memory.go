package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryDB implements DB using an in-memory map.
type MemoryDB struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates a new in-memory database.
func NewMemory() *MemoryDB {
	return &MemoryDB{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value by key.
func (m *MemoryDB) Get(key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[string(key)]
	if !ok {
		return nil, fmt.Errorf("memory get %x: %w", key, ErrNotFound)
	}
	return append([]byte{}, v...), nil
}

// Put stores a key-value pair.
func (m *MemoryDB) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[string(key)] = append([]byte{}, value...)
	return nil
}

// Delete removes a key.
func (m *MemoryDB) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, string(key))
	return nil
}

// Has checks if a key exists.
func (m *MemoryDB) Has(key []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[string(key)]
	return ok, nil
}

// ForEach iterates over all keys with the given prefix in key order.
// Matching entries are copied before the callback runs, so fn may write
// to the database.
func (m *MemoryDB) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	m.mu.RLock()
	entries := collectPrefix(m.data, string(prefix))
	m.mu.RUnlock()

	for _, e := range entries {
		if err := fn(e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot returns a point-in-time copy of the database.
func (m *MemoryDB) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		cp[k] = v
	}
	return &memorySnapshot{data: cp}
}

// NewBatch creates a batch that is applied under a single write lock.
func (m *MemoryDB) NewBatch() Batch {
	return &memoryBatch{db: m}
}

// Close closes the database.
func (m *MemoryDB) Close() error {
	return nil
}

type kv struct {
	key   []byte
	value []byte
}

func collectPrefix(data map[string][]byte, prefix string) []kv {
	var out []kv
	for k, v := range data {
		if strings.HasPrefix(k, prefix) {
			out = append(out, kv{key: []byte(k), value: append([]byte{}, v...)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return string(out[i].key) < string(out[j].key) })
	return out
}

// memorySnapshot is an immutable copy of a MemoryDB.
type memorySnapshot struct {
	data map[string][]byte
}

func (s *memorySnapshot) Get(key []byte) ([]byte, error) {
	v, ok := s.data[string(key)]
	if !ok {
		return nil, fmt.Errorf("snapshot get %x: %w", key, ErrNotFound)
	}
	return append([]byte{}, v...), nil
}

func (s *memorySnapshot) Has(key []byte) (bool, error) {
	_, ok := s.data[string(key)]
	return ok, nil
}

func (s *memorySnapshot) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	for _, e := range collectPrefix(s.data, string(prefix)) {
		if err := fn(e.key, e.value); err != nil {
			return err
		}
	}
	return nil
}

func (s *memorySnapshot) Release() {}

type memoryBatch struct {
	db  *MemoryDB
	ops []batchOp
}

func (b *memoryBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, newBatchOp(key, value, false))
	return nil
}

func (b *memoryBatch) Delete(key []byte) error {
	b.ops = append(b.ops, newBatchOp(key, nil, true))
	return nil
}

func (b *memoryBatch) Commit() error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()
	for _, op := range b.ops {
		if op.delete {
			delete(b.db.data, string(op.key))
		} else {
			b.db.data[string(op.key)] = op.value
		}
	}
	b.ops = nil
	return nil
}
