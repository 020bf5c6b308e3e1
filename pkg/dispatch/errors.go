package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrRejected        = errors.New("rejected promise")
	ErrMissingDone     = errors.New("done callback is required")
	ErrNextCalledTwice = errors.New("next called more than once")
)

// MisuseError reports an integration bug, such as a missing done
// callback or a continuation called twice. It is never routed to
// error handlers.
type MisuseError struct {
	Op  string
	Err error
}

func (e *MisuseError) Error() string {
	return "dispatch: " + e.Op + ": " + e.Err.Error()
}

func (e *MisuseError) Unwrap() error { return e.Err }

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
