// Package errors provides the error kinds used across the engine, and a
// lazy-formatting error constructor.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Sentinel kinds. Every error produced by the engines wraps one of these,
// so that callers can dispatch with Is.
var (
	// ErrInvalidArgument reports an input that violates a contract, e.g.
	// a non-definite clause where a definite one is expected.
	ErrInvalidArgument = stderrors.New("invalid argument")
	// ErrInvalidState reports an operation issued in the wrong lifecycle
	// state, e.g. reading a query result before completion.
	ErrInvalidState = stderrors.New("invalid state")
	// ErrExhausted reports a finite resource that ran out, e.g. a
	// formatter label set.
	ErrExhausted = stderrors.New("exhausted")
	// ErrCancelled reports a query aborted by its context.
	ErrCancelled = stderrors.New("cancelled")
)

type err struct {
	msg  string
	args []interface{}
}

func (err err) Error() string {
	return fmt.Sprintf(err.msg, err.args...)
}

func (err err) Unwrap() error {
	var wrapped error
	for _, arg := range err.args {
		if e, ok := arg.(error); ok {
			wrapped = e
		}
	}
	return wrapped
}

// New builds an error that formats msg with args on demand. Unwrap
// returns the last arg that is itself an error, so a sentinel in final
// position is always visible to Is.
func New(msg string, args ...interface{}) error {
	return err{msg, args}
}

// Is reports whether any error in e's chain matches target.
func Is(e, target error) bool {
	return stderrors.Is(e, target)
}
