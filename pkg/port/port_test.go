package port

import (
	"fmt"
	"net"
	"testing"
)

func TestGetRandomFreePort(t *testing.T) {
	p, err := GetRandomFreePort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p <= 0 || p > 65535 {
		t.Errorf("expected a valid port, got %d", p)
	}
}

func TestBusyPortIsSkipped(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	busy := ln.Addr().(*net.TCPAddr).Port

	if CheckPortAvailability(busy) {
		t.Errorf("expected port %d to be busy", busy)
	}

	got, err := GetFreePort(busy)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == busy {
		t.Errorf("expected a port other than %d", busy)
	}
}

func TestOutOfRange(t *testing.T) {
	for _, p := range []int{-1, 70000} {
		t.Run(fmt.Sprint(p), func(t *testing.T) {
			if _, err := GetFreePort(p); err == nil {
				t.Errorf("expected an error for %d", p)
			}
		})
	}
}
