// Package errutil wraps errors with context and carries HTTP status
// classifications through error chains.
package errutil

import (
	"errors"
	"fmt"
	"net/http"
)

func Maybe(msg string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// Statuser is implemented by errors that know which HTTP status
// they should be rendered as.
type Statuser interface {
	Status() int
}

type statusError struct {
	err    error
	status int
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }
func (e *statusError) Status() int   { return e.status }

// WithStatus attaches an HTTP status to err. A nil err stays nil.
func WithStatus(err error, status int) error {
	if err == nil {
		return nil
	}
	return &statusError{err: err, status: status}
}

// StatusOf returns the first status classification found in err's
// chain. Only 4xx and 5xx codes count.
func StatusOf(err error) (int, bool) {
	var s Statuser
	if !errors.As(err, &s) {
		return 0, false
	}
	status := s.Status()
	if status < 400 || status > 599 {
		return 0, false
	}
	return status, true
}

// StatusOrDefault is StatusOf with a 500 fallback.
func StatusOrDefault(err error) int {
	if status, ok := StatusOf(err); ok {
		return status
	}
	return http.StatusInternalServerError
}
