package errutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMaybe(t *testing.T) {
	if err := Maybe("ctx", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	base := errors.New("boom")
	err := Maybe("loading user", base)
	if err.Error() != "loading user: boom" {
		t.Errorf("expected wrapped message, got %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Error("expected wrapped error to unwrap to base")
	}
}

func TestStatusOf(t *testing.T) {
	base := errors.New("bad input")

	tests := []struct {
		name   string
		err    error
		status int
		ok     bool
	}{
		{"nil", nil, 0, false},
		{"plain", base, 0, false},
		{"with status", WithStatus(base, http.StatusBadRequest), 400, true},
		{"wrapped further", fmt.Errorf("outer: %w", WithStatus(base, 404)), 404, true},
		{"out of range", WithStatus(base, 302), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := StatusOf(tt.err)
			if status != tt.status || ok != tt.ok {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.status, tt.ok, status, ok)
			}
		})
	}
}

func TestWithStatusKeepsChain(t *testing.T) {
	if WithStatus(nil, 400) != nil {
		t.Error("expected nil for nil error")
	}

	base := errors.New("x")
	err := WithStatus(base, 422)
	if !errors.Is(err, base) {
		t.Error("expected errors.Is to see the base error")
	}
	if err.Error() != "x" {
		t.Errorf("expected message to be preserved, got %q", err.Error())
	}
	if StatusOrDefault(base) != http.StatusInternalServerError {
		t.Error("expected 500 fallback")
	}
	if StatusOrDefault(err) != 422 {
		t.Error("expected 422")
	}
}
