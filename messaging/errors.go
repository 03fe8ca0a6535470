package messaging

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers classify failures with errors.Is; the typed
// wrappers below carry the detail.
var (
	ErrInvalidArgument      = errors.New("invalid argument")
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// InvalidArgumentError reports malformed caller input. It is returned before
// any bridge delegation happens.
type InvalidArgumentError struct {
	Argument string
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return ErrInvalidArgument }

// TypeMismatchError reports that a value of the wrong type was passed where a
// specific value type is required.
type TypeMismatchError struct {
	Expected string
	Received string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, received %s", e.Expected, e.Received)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

// UnsupportedOperationError reports an operation intentionally not
// implemented on this platform. The message names the module and method so
// callers porting from a platform that supports it see exactly what is
// missing.
type UnsupportedOperationError struct {
	Module string
	Method string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s.%s is unsupported on this platform", e.Module, e.Method)
}

func (e *UnsupportedOperationError) Unwrap() error { return ErrUnsupportedOperation }
