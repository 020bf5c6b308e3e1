// Package contextutil stores typed values in request contexts.
package contextutil

import (
	"context"
	"net/http"
)

type Store[T any] struct {
	key keyWrapper
}

type keyWrapper struct {
	name string
}

func NewStore[T any](key string) *Store[T] {
	return &Store[T]{key: keyWrapper{name: key}}
}

func (s *Store[T]) WithValue(ctx context.Context, val T) context.Context {
	return context.WithValue(ctx, s.key, val)
}

// From returns the stored value and whether one was present.
func (s *Store[T]) From(ctx context.Context) (T, bool) {
	val, ok := ctx.Value(s.key).(T)
	return val, ok
}

// Attach returns a shallow copy of r whose context carries val.
func (s *Store[T]) Attach(r *http.Request, val T) *http.Request {
	return r.WithContext(s.WithValue(r.Context(), val))
}
