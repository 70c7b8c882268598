package storage

// PrefixReader wraps a Reader and prepends a fixed prefix to all keys.
// It turns a shared keyspace into a named index: callers see only their
// logical keys.
type PrefixReader struct {
	inner  Reader
	prefix []byte
}

// NewPrefixReader creates a read-only prefixed view over inner.
func NewPrefixReader(inner Reader, prefix []byte) *PrefixReader {
	p := make([]byte, len(prefix))
	copy(p, prefix)
	return &PrefixReader{inner: inner, prefix: p}
}

// prefixed returns key with the prefix prepended.
func (p *PrefixReader) prefixed(key []byte) []byte {
	out := make([]byte, len(p.prefix)+len(key))
	copy(out, p.prefix)
	copy(out[len(p.prefix):], key)
	return out
}

// Get retrieves a value by key.
func (p *PrefixReader) Get(key []byte) ([]byte, error) {
	return p.inner.Get(p.prefixed(key))
}

// Has checks if a key exists.
func (p *PrefixReader) Has(key []byte) (bool, error) {
	return p.inner.Has(p.prefixed(key))
}

// ForEach iterates over all keys with the given prefix (within the namespace).
// The callback receives keys with the namespace prefix stripped.
func (p *PrefixReader) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	return p.inner.ForEach(p.prefixed(prefix), func(key, value []byte) error {
		return fn(key[len(p.prefix):], value)
	})
}

// PrefixReadWriter is a PrefixReader that also accepts writes.
type PrefixReadWriter struct {
	PrefixReader
	w Writer
}

// NewPrefixReadWriter creates a prefixed read-write view over inner.
func NewPrefixReadWriter(inner ReadWriter, prefix []byte) *PrefixReadWriter {
	return &PrefixReadWriter{
		PrefixReader: *NewPrefixReader(inner, prefix),
		w:            inner,
	}
}

// Put stores a key-value pair.
func (p *PrefixReadWriter) Put(key, value []byte) error {
	return p.w.Put(p.prefixed(key), value)
}

// Delete removes a key.
func (p *PrefixReadWriter) Delete(key []byte) error {
	return p.w.Delete(p.prefixed(key))
}
