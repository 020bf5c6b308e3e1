package dispatch

import (
	"net/http"
	"runtime/debug"
	"sync/atomic"
)

// Handler is anything a layer can run. Request-shaped handlers run
// while no error is pending; error-shaped ones only run while one is.
// The concrete kinds are HandlerFunc, ErrorHandlerFunc,
// AsyncHandlerFunc, AsyncErrorHandlerFunc and *Dispatcher.
type Handler interface {
	errorShaped() bool
	serve(err error, inv *invocation) error
}

type HandlerFunc func(req *Request, w http.ResponseWriter, next Next) error

type ErrorHandlerFunc func(err error, req *Request, w http.ResponseWriter, next Next) error

// AsyncHandlerFunc returns a Deferred for work it leaves running. A nil
// Deferred means there is none.
type AsyncHandlerFunc func(req *Request, w http.ResponseWriter, next Next) *Deferred

type AsyncErrorHandlerFunc func(err error, req *Request, w http.ResponseWriter, next Next) *Deferred

// ParamFunc runs before any handler of a layer that captured the
// named param.
type ParamFunc func(req *Request, w http.ResponseWriter, next Next, value, name string) error

func (f HandlerFunc) errorShaped() bool           { return false }
func (f ErrorHandlerFunc) errorShaped() bool      { return true }
func (f AsyncHandlerFunc) errorShaped() bool      { return false }
func (f AsyncErrorHandlerFunc) errorShaped() bool { return true }

func (f HandlerFunc) serve(_ error, inv *invocation) error {
	return f(inv.req, inv.w, inv.next)
}

func (f ErrorHandlerFunc) serve(err error, inv *invocation) error {
	return f(err, inv.req, inv.w, inv.next)
}

func (f AsyncHandlerFunc) serve(_ error, inv *invocation) error {
	inv.await(f(inv.req, inv.w, inv.next))
	return nil
}

func (f AsyncErrorHandlerFunc) serve(err error, inv *invocation) error {
	inv.await(f(err, inv.req, inv.w, inv.next))
	return nil
}

func isNilHandler(h Handler) bool {
	switch v := h.(type) {
	case nil:
		return true
	case HandlerFunc:
		return v == nil
	case ErrorHandlerFunc:
		return v == nil
	case AsyncHandlerFunc:
		return v == nil
	case AsyncErrorHandlerFunc:
		return v == nil
	case *Dispatcher:
		return v == nil
	case *Route:
		return v == nil
	}
	return false
}

// invocation is one run of one handler. Its next may fire once; the
// first of next and a Deferred rejection wins.
type invocation struct {
	d       *Dispatcher
	req     *Request
	w       http.ResponseWriter
	op      string
	forward func(Signal)
	settled atomic.Bool
}

func (inv *invocation) next(sig Signal) {
	if !inv.settled.CompareAndSwap(false, true) {
		inv.d.misuse(&MisuseError{Op: inv.op, Err: ErrNextCalledTwice})
		return
	}
	inv.forward(sig)
}

// run calls fn, turning a returned error or a panic into Fail. A panic
// raised once next has fired belongs to the rest of the scan, so it is
// passed up instead.
func (inv *invocation) run(fn func() error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		if m, ok := rec.(*MisuseError); ok {
			panic(m)
		}
		if inv.settled.Load() {
			panic(rec)
		}
		inv.d.log.Error("recovered from panic", "op", inv.op, "panic", rec)
		inv.next(Fail(&PanicError{Value: rec, Stack: debug.Stack()}))
	}()
	if err := fn(); err != nil {
		inv.next(Fail(err))
	}
}

func (inv *invocation) await(def *Deferred) {
	if def == nil {
		return
	}
	release := inv.req.Hold()
	go func() {
		defer release()
		<-def.Done()
		err := def.Err()
		if err == nil {
			return
		}
		if !inv.settled.CompareAndSwap(false, true) {
			inv.d.log.Debug("dropping late rejection", "op", inv.op, "error", err)
			return
		}
		inv.forward(Fail(err))
	}()
}
