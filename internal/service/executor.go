package service

import (
	"fmt"
	"sync"

	klog "github.com/Klingon-tech/klingnet-tokens/internal/log"
	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/pkg/crypto"
	"github.com/Klingon-tech/klingnet-tokens/pkg/tx"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

// Executor applies transactions one at a time.
type Executor struct {
	mu       sync.Mutex // Serializes every transition from fork to commit.
	db       storage.DB
	registry *Registry
	verifier crypto.Verifier
}

// NewExecutor creates an executor over db dispatching through registry.
func NewExecutor(db storage.DB, registry *Registry) (*Executor, error) {
	if db == nil {
		return nil, fmt.Errorf("storage db is nil")
	}
	if registry == nil {
		return nil, fmt.Errorf("registry is nil")
	}
	return &Executor{db: db, registry: registry, verifier: crypto.Ed25519Verifier{}}, nil
}

// SetVerifier replaces the signature verifier. Must be called before the
// executor is shared.
func (e *Executor) SetVerifier(v crypto.Verifier) {
	if v != nil {
		e.verifier = v
	}
}

// Registry returns the handler registry.
func (e *Executor) Registry() *Registry {
	return e.registry
}

// Execute verifies and runs a transaction. A returned error means the
// transaction was rejected before execution or its outcome could not be
// stored. Otherwise the Result reports success, a handler error, or a panic;
// in the failure cases state is unchanged.
func (e *Executor) Execute(transaction *tx.Transaction) (types.Hash, *Result, error) {
	if transaction == nil {
		return types.Hash{}, nil, fmt.Errorf("%w: nil transaction", ErrInvalidTx)
	}
	if err := transaction.Validate(); err != nil {
		return types.Hash{}, nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	if err := transaction.VerifySignatureWith(e.verifier); err != nil {
		return types.Hash{}, nil, fmt.Errorf("%w: %w", ErrInvalidTx, err)
	}
	hash := transaction.Hash()

	handler, ok := e.registry.Lookup(transaction.ServiceID, transaction.MessageID)
	if !ok {
		return hash, nil, fmt.Errorf("%w: service %d message %d",
			ErrUnknownMessage, transaction.ServiceID, transaction.MessageID)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	_, applied, err := ReadResult(e.db, hash)
	if err != nil {
		return hash, nil, err
	}
	if applied {
		return hash, nil, fmt.Errorf("%w: %s", ErrAlreadyApplied, hash)
	}

	fork := storage.NewFork(e.db)
	ctx := &Context{
		Author: transaction.Author,
		TxHash: hash,
		Fork:   fork,
		Logger: klog.Ledger.With().Str("tx", hash.String()).Logger(),
	}

	res := run(handler, ctx, transaction.Payload)
	if !res.IsSuccess() {
		fork.Discard()
	}
	if err := putResult(fork, hash, res); err != nil {
		fork.Discard()
		return hash, nil, err
	}
	if err := fork.Commit(); err != nil {
		return hash, nil, err
	}

	ev := klog.Executor.Debug()
	if !res.IsSuccess() {
		ev = klog.Executor.Info()
	}
	ev.Str("tx", hash.String()).
		Uint16("service", transaction.ServiceID).
		Uint16("message", transaction.MessageID).
		Str("status", string(res.Status)).
		Str("description", res.Description).
		Msg("Transaction executed")

	return hash, res, nil
}

// run invokes the handler and converts its outcome into a Result.
func run(h Handler, ctx *Context, payload []byte) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			klog.Executor.Error().
				Str("tx", ctx.TxHash.String()).
				Interface("panic", r).
				Msg("Handler panicked")
			res = &Result{Status: StatusPanic, Description: fmt.Sprint(r)}
		}
	}()
	return resultFromError(h(ctx, payload))
}

// Result returns the stored result of a transaction.
func (e *Executor) Result(hash types.Hash) (*Result, bool, error) {
	return ReadResult(e.db, hash)
}

// Snapshot opens a read-only view of committed state.
func (e *Executor) Snapshot() storage.Snapshot {
	return storage.OpenSnapshot(e.db)
}
