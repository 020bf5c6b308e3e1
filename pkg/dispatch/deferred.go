package dispatch

import (
	"runtime/debug"
	"sync"
)

// Deferred is the eventual outcome of asynchronous handler work. An
// AsyncHandlerFunc returns one; if it rejects before the handler's next
// has been called, the rejection becomes the pending error.
type Deferred struct {
	once sync.Once
	done chan struct{}
	err  error
}

func NewDeferred() *Deferred {
	return &Deferred{done: make(chan struct{})}
}

// Go runs fn on a new goroutine. A returned error or a panic rejects.
func Go(fn func() error) *Deferred {
	d := NewDeferred()
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				d.Reject(&PanicError{Value: rec, Stack: debug.Stack()})
			}
		}()
		if err := fn(); err != nil {
			d.Reject(err)
			return
		}
		d.Resolve()
	}()
	return d
}

// Resolved returns an already resolved Deferred.
func Resolved() *Deferred {
	d := NewDeferred()
	d.Resolve()
	return d
}

func (d *Deferred) Resolve() {
	d.settle(nil)
}

// Reject settles d with err. A nil err becomes ErrRejected.
func (d *Deferred) Reject(err error) {
	if err == nil {
		err = ErrRejected
	}
	d.settle(err)
}

func (d *Deferred) Done() <-chan struct{} {
	return d.done
}

// Err is the rejection, or nil. Only meaningful once Done is closed.
func (d *Deferred) Err() error {
	select {
	case <-d.done:
		return d.err
	default:
		return nil
	}
}

func (d *Deferred) settle(err error) {
	d.once.Do(func() {
		d.err = err
		close(d.done)
	})
}
