package service

import (
	"encoding/json"
	"fmt"

	"github.com/Klingon-tech/klingnet-tokens/internal/storage"
	"github.com/Klingon-tech/klingnet-tokens/pkg/types"
)

// Status is the outcome of an executed transaction.
type Status string

// Execution statuses.
const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusPanic   Status = "panic"
)

var prefixResult = []byte("core.tx_results/") // core.tx_results/<hash(32)> -> Result JSON

// Result records how a transaction was executed.
type Result struct {
	Status Status `json:"status"`
	// Code is set only for ExecutionErrors.
	Code        *uint8 `json:"code,omitempty"`
	Description string `json:"description,omitempty"`
}

// IsSuccess reports whether the transaction changed state.
func (r *Result) IsSuccess() bool {
	return r.Status == StatusSuccess
}

func resultFromError(err error) *Result {
	if err == nil {
		return &Result{Status: StatusSuccess}
	}
	if ee, ok := AsExecutionError(err); ok {
		code := ee.Code
		return &Result{Status: StatusError, Code: &code, Description: ee.Description}
	}
	return &Result{Status: StatusError, Description: err.Error()}
}

func resultKey(hash types.Hash) []byte {
	key := make([]byte, len(prefixResult)+types.HashSize)
	copy(key, prefixResult)
	copy(key[len(prefixResult):], hash[:])
	return key
}

func putResult(w storage.Writer, hash types.Hash, r *Result) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("result marshal: %w", err)
	}
	return w.Put(resultKey(hash), data)
}

// ReadResult loads the result of a transaction. Absence is reported with
// false and a nil error.
func ReadResult(r storage.Reader, hash types.Hash) (*Result, bool, error) {
	data, err := r.Get(resultKey(hash))
	if storage.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("result get: %w", err)
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, fmt.Errorf("result unmarshal: %w", err)
	}
	return &res, true, nil
}
