package mux

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/sjc5/routekit/pkg/dispatch"
	"github.com/sjc5/routekit/pkg/errutil"
)

// Adapt runs a plain http.Handler as a terminal dispatch handler. The
// handler sees the URL as the dispatcher currently has it, with any
// mount prefix stripped, and can reach the dispatch request through
// RequestFrom.
func Adapt(h http.Handler) dispatch.HandlerFunc {
	return func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		r, err := stdRequest(req)
		if err != nil {
			return err
		}
		h.ServeHTTP(w, r)
		return nil
	}
}

func stdRequest(req *dispatch.Request) (*http.Request, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, errutil.WithStatus(errutil.Maybe("parse url", err), http.StatusBadRequest)
	}

	var r *http.Request
	if req.HTTP != nil {
		r = req.HTTP.Clone(requestStore.WithValue(req.HTTP.Context(), req))
	} else {
		r, err = http.NewRequestWithContext(requestStore.WithValue(req.Context(), req), req.Method, req.URL, nil)
		if err != nil {
			return nil, errutil.WithStatus(errutil.Maybe("build request", err), http.StatusBadRequest)
		}
	}

	r.URL.Path = u.Path
	r.URL.RawPath = u.RawPath
	r.URL.RawQuery = u.RawQuery
	return r, nil
}

// Mount serves d under pattern on a chi router. Inside d, BaseURL is the
// matched prefix and URL is the remainder.
func Mount(r chi.Router, pattern string, d *dispatch.Dispatcher, opts ...Option) *Handler {
	h := New(d, opts...)
	h.mounted = true
	r.Mount(pattern, h)
	return h
}

// mountedURL splits the request path at the point where chi handed it
// to the mounted handler. chi routes on the decoded path unless the URL
// carries a RawPath, so the split point is mapped back onto the escaped
// path and the remainder stays escaped for the dispatcher to decode.
func mountedURL(r *http.Request) (rest, base string, ok bool) {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.RoutePath == "" {
		return "", "", false
	}

	routed, escaped := r.URL.Path, r.URL.EscapedPath()
	if r.URL.RawPath != "" {
		routed, escaped = r.URL.RawPath, r.URL.RawPath
	}

	var n int
	switch {
	case strings.HasSuffix(routed, rctx.RoutePath):
		n = len(routed) - len(rctx.RoutePath)
	case rctx.RoutePath == "/":
		n = len(routed)
	default:
		return "", "", false
	}

	i := n
	if routed != escaped {
		if i, ok = escapedOffset(escaped, n); !ok {
			return "", "", false
		}
		if prefix, err := url.PathUnescape(escaped[:i]); err != nil || prefix != routed[:n] {
			return "", "", false
		}
	}

	base, rest = escaped[:i], escaped[i:]
	if rest == "" {
		rest = "/"
	}
	if r.URL.RawQuery != "" {
		rest += "?" + r.URL.RawQuery
	}
	return rest, base, true
}

// escapedOffset returns the index in escaped that covers the first n
// decoded bytes.
func escapedOffset(escaped string, n int) (int, bool) {
	i := 0
	for ; n > 0 && i < len(escaped); n-- {
		if escaped[i] == '%' {
			i += 3
		} else {
			i++
		}
	}
	return i, n == 0 && i <= len(escaped)
}
