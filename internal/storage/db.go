// Package storage provides database abstractions.
//
// A DB is the persistent store. Read paths work against a Reader (a DB, a
// Snapshot, or a Fork); state transitions work against a Fork, which buffers
// writes until the host commits or discards them.
package storage

import "errors"

// ErrNotFound is returned (possibly wrapped) by Get for missing keys.
var ErrNotFound = errors.New("key not found")

// Reader is read-only access to a keyspace.
type Reader interface {
	Get(key []byte) ([]byte, error)
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix.
	// The callback receives a copy of the key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
}

// Writer is write access to a keyspace.
type Writer interface {
	Put(key, value []byte) error
	Delete(key []byte) error
}

// ReadWriter combines Reader and Writer. A Fork is the usual implementation.
type ReadWriter interface {
	Reader
	Writer
}

// DB is the interface for key-value storage.
type DB interface {
	Reader
	Writer
	Close() error
}

// Snapshot is a consistent read-only view of a DB at a point in time.
// Release must be called when the snapshot is no longer needed.
type Snapshot interface {
	Reader
	Release()
}

// Snapshotter is implemented by databases that can open snapshots.
type Snapshotter interface {
	Snapshot() Snapshot
}

// IsNotFound reports whether err signals a missing key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
