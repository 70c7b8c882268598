package storage

// Batch groups writes that are applied together by Commit.
type Batch interface {
	Put(key, value []byte) error
	Delete(key []byte) error
	Commit() error
}

// Batcher is implemented by databases that support atomic batches.
type Batcher interface {
	NewBatch() Batch
}

// batchOp is a buffered write. delete distinguishes a removal from a put
// of an empty value.
type batchOp struct {
	key    []byte
	value  []byte
	delete bool
}

func newBatchOp(key, value []byte, del bool) batchOp {
	op := batchOp{key: append([]byte{}, key...), delete: del}
	if !del {
		op.value = append([]byte{}, value...)
	}
	return op
}

// NewBatch returns an atomic batch when db supports one, and otherwise a
// batch that replays writes one by one on Commit.
func NewBatch(db DB) Batch {
	if b, ok := db.(Batcher); ok {
		return b.NewBatch()
	}
	return &fallbackBatch{db: db}
}

// fallbackBatch buffers writes and applies them non-atomically.
type fallbackBatch struct {
	db  Writer
	ops []batchOp
}

func (fb *fallbackBatch) Put(key, value []byte) error {
	fb.ops = append(fb.ops, newBatchOp(key, value, false))
	return nil
}

func (fb *fallbackBatch) Delete(key []byte) error {
	fb.ops = append(fb.ops, newBatchOp(key, nil, true))
	return nil
}

func (fb *fallbackBatch) Commit() error {
	for _, op := range fb.ops {
		if op.delete {
			if err := fb.db.Delete(op.key); err != nil {
				return err
			}
			continue
		}
		if err := fb.db.Put(op.key, op.value); err != nil {
			return err
		}
	}
	fb.ops = nil
	return nil
}
