package dispatch

import (
	"context"
	"net/http"
	"strings"
	"sync"
)

// Request is the mutable request descriptor a Dispatcher works on.
// URL, BaseURL, Params and Route change while a dispatch runs and are
// put back before its Done fires.
type Request struct {
	Method      string
	URL         string
	OriginalURL string
	BaseURL     string
	Params      map[string]string
	Route       *Route

	// HTTP is the request being served, when there is one.
	HTTP *http.Request

	// LayerStack holds the routing paths of the layers currently
	// running, outermost first.
	LayerStack []string

	// Locals is free for handlers to share per-request values.
	Locals map[string]any

	inflight   sync.WaitGroup
	observedBy *Dispatcher
}

func NewRequest(method, url string) *Request {
	return &Request{Method: strings.ToUpper(method), URL: url}
}

// FromHTTP builds a Request from r. Proxy-style requests keep their
// absolute URL.
func FromHTTP(r *http.Request) *Request {
	u := r.RequestURI
	if u == "" {
		u = r.URL.RequestURI()
	}
	return &Request{Method: r.Method, URL: u, HTTP: r}
}

func (r *Request) Context() context.Context {
	if r.HTTP != nil {
		return r.HTTP.Context()
	}
	return context.Background()
}

// Path returns the pathname of URL without query or fragment, or ""
// when URL has none.
func (r *Request) Path() string {
	path, _ := pathname(r.URL)
	return path
}

func (r *Request) Param(name string) string {
	return r.Params[name]
}

func (r *Request) Set(key string, val any) {
	if r.Locals == nil {
		r.Locals = make(map[string]any)
	}
	r.Locals[key] = val
}

func (r *Request) Get(key string) (any, bool) {
	val, ok := r.Locals[key]
	return val, ok
}

// Hold registers asynchronous work that will continue this dispatch
// later. The returned release must be called exactly once, after that
// work has called next or decided not to.
func (r *Request) Hold() (release func()) {
	r.inflight.Add(1)
	var once sync.Once
	return func() { once.Do(r.inflight.Done) }
}

// Wait blocks until every Hold has been released.
func (r *Request) Wait() {
	r.inflight.Wait()
}

// RoutingPath joins the layer stack into a single pattern, e.g.
// "/hello/:name/" for a route entry under "/hello/:name".
func (r *Request) RoutingPath() string {
	return strings.Join(r.LayerStack, "")
}

type snapshot struct {
	url     string
	baseURL string
	params  map[string]string
	route   *Route
}

func takeSnapshot(r *Request) snapshot {
	return snapshot{url: r.URL, baseURL: r.BaseURL, params: r.Params, route: r.Route}
}

func (s snapshot) restore(r *Request) {
	r.URL = s.url
	r.BaseURL = s.baseURL
	r.Params = s.params
	r.Route = s.route
}
