package mux

import (
	"net/http"
	"sync"
)

// writer records whether and how the response was started. For HEAD
// requests it swallows the body. Once closed, because the handler gave up
// on a dispatch that was still running, later writes are dropped.
type writer struct {
	http.ResponseWriter
	head bool

	mu        sync.Mutex
	status    int
	committed bool
	bytes     int
	closed    bool
	header    http.Header
}

func newWriter(w http.ResponseWriter, head bool) *writer {
	return &writer{ResponseWriter: w, head: head}
}

func (w *writer) Header() http.Header {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		if w.header == nil {
			w.header = make(http.Header)
		}
		return w.header
	}
	return w.ResponseWriter.Header()
}

func (w *writer) WriteHeader(status int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writeHeader(status)
}

func (w *writer) writeHeader(status int) {
	if w.committed || w.closed {
		return
	}
	w.committed = true
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, http.ErrHandlerTimeout
	}
	if !w.committed {
		w.writeHeader(http.StatusOK)
	}
	if w.head {
		return len(p), nil
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

func (w *writer) Committed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.committed
}

// Status is the status that was sent, or 0.
func (w *writer) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *writer) Bytes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bytes
}

func (w *writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.committed {
			w.writeHeader(http.StatusOK)
		}
		f.Flush()
	}
}

func (w *writer) close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
}

func (w *writer) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
