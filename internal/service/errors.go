package service

import (
	"errors"
	"fmt"
)

// Executor errors. These reject a transaction before any handler runs.
var (
	ErrInvalidTx      = errors.New("invalid transaction")
	ErrAlreadyApplied = errors.New("transaction already applied")
	ErrUnknownMessage = errors.New("unknown service message")
	ErrDuplicate      = errors.New("handler already registered")
)

// ExecutionError is a domain rejection returned by a handler. The code is
// scoped to the service that defines it.
type ExecutionError struct {
	Code        uint8
	Description string
}

// NewExecutionError creates an ExecutionError.
func NewExecutionError(code uint8, description string) *ExecutionError {
	return &ExecutionError{Code: code, Description: description}
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execution error %d: %s", e.Code, e.Description)
}

// Is matches another ExecutionError with the same code and description.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Description == t.Description
}

// AsExecutionError unwraps err into an ExecutionError if it is one.
func AsExecutionError(err error) (*ExecutionError, bool) {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
