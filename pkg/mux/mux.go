// Package mux serves a dispatch.Dispatcher over net/http. It owns the
// parts a dispatcher leaves to its host: the final handler that turns
// an unhandled request into a 404 or an error status, panic recovery,
// HEAD body suppression and access logging.
package mux

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"

	"github.com/sjc5/routekit/pkg/colorlog"
	"github.com/sjc5/routekit/pkg/contextutil"
	"github.com/sjc5/routekit/pkg/dispatch"
	"github.com/sjc5/routekit/pkg/errutil"
	"github.com/sjc5/routekit/pkg/response"
	"github.com/sjc5/routekit/pkg/timer"
)

type HTTPMiddleware = func(http.Handler) http.Handler

type Options struct {
	Logger *slog.Logger

	// MethodNotAllowed answers 405 with an Allow header, instead of 404,
	// when no handler took the request but some route matched its path.
	MethodNotAllowed bool

	AccessLog bool

	// Middleware wraps the whole handler, outermost first.
	Middleware []HTTPMiddleware
}

type Option func(*Options)

func WithLogger(log *slog.Logger) Option {
	return func(o *Options) { o.Logger = log }
}

func WithMethodNotAllowed() Option {
	return func(o *Options) { o.MethodNotAllowed = true }
}

func WithAccessLog() Option {
	return func(o *Options) { o.AccessLog = true }
}

func WithMiddleware(mws ...HTTPMiddleware) Option {
	return func(o *Options) { o.Middleware = append(o.Middleware, mws...) }
}

type Handler struct {
	d       *dispatch.Dispatcher
	opts    Options
	log     *slog.Logger
	root    http.Handler
	mounted bool
}

var requestStore = contextutil.NewStore[*dispatch.Request]("dispatch-request")

// RequestFrom returns the dispatch request that r is being served for.
// It is available to handlers wrapped with Adapt.
func RequestFrom(r *http.Request) (*dispatch.Request, bool) {
	return requestStore.From(r.Context())
}

func New(d *dispatch.Dispatcher, opts ...Option) *Handler {
	h := &Handler{d: d}
	for _, opt := range opts {
		opt(&h.opts)
	}
	h.log = h.opts.Logger
	if h.log == nil {
		h.log = colorlog.New("mux")
	}

	var handler http.Handler = http.HandlerFunc(h.serve)
	for i := len(h.opts.Middleware) - 1; i >= 0; i-- {
		handler = h.opts.Middleware[i](handler)
	}
	h.root = handler
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.root.ServeHTTP(w, r)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request) {
	tm := timer.New()
	rw := newWriter(w, r.Method == http.MethodHead)

	req := dispatch.FromHTTP(r)
	req.OriginalURL = req.URL
	if h.mounted {
		if url, base, ok := mountedURL(r); ok {
			req.URL, req.BaseURL = url, base
		}
	}
	req.HTTP = requestStore.Attach(r, req)

	var once sync.Once
	finish := func(err error) {
		once.Do(func() { h.finish(rw, req, err) })
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.log.Error("recovered from panic", "method", req.Method, "url", req.URL, "panic", rec)
			finish(&dispatch.PanicError{Value: rec, Stack: debug.Stack()})
		}
		if h.opts.AccessLog {
			h.log.Info(req.Method+" "+req.OriginalURL,
				"status", rw.Status(),
				"bytes", rw.Bytes(),
				"duration", tm.Elapsed(),
			)
		}
	}()

	h.d.Dispatch(req, rw, finish)
	h.wait(r.Context(), req, rw)
}

// wait blocks until the dispatch is quiescent or ctx ends. A dispatch
// still running past ctx keeps its goroutines, but its writes go nowhere.
func (h *Handler) wait(ctx context.Context, req *dispatch.Request, rw *writer) {
	quiet := make(chan struct{})
	go func() {
		req.Wait()
		close(quiet)
	}()

	select {
	case <-quiet:
	case <-ctx.Done():
		rw.close()
		h.log.Warn("abandoned unfinished dispatch", "method", req.Method, "url", req.OriginalURL, "error", context.Cause(ctx))
	}
}

// finish is the final handler: the done callback of the outermost
// dispatch.
func (h *Handler) finish(w *writer, req *dispatch.Request, err error) {
	res := response.New(w)
	if res.IsCommitted() {
		if err != nil {
			h.log.Error("error after response was committed", "url", req.URL, "error", err)
		}
		return
	}

	if err == nil {
		if h.opts.MethodNotAllowed {
			if methods := h.d.Allowed(req.URL); len(methods) > 0 {
				res.MethodNotAllowed(methods)
				return
			}
		}
		res.NotFound()
		return
	}

	status := errutil.StatusOrDefault(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", "method", req.Method, "url", req.URL, "error", err)
	}
	res.Error(status)
}
