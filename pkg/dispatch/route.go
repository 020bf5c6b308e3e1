package dispatch

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/net/http/httpguts"
)

const allMethods = "_all"

// Route holds the method-specific handler chain of a single path.
type Route struct {
	Path any

	owner   *Dispatcher
	stack   []*Layer
	methods map[string]bool
	order   []string
}

func newRoute(owner *Dispatcher, path any) *Route {
	return &Route{Path: path, owner: owner, methods: make(map[string]bool)}
}

func (r *Route) Get(handlers ...Handler) *Route     { return r.Method(http.MethodGet, handlers...) }
func (r *Route) Post(handlers ...Handler) *Route    { return r.Method(http.MethodPost, handlers...) }
func (r *Route) Put(handlers ...Handler) *Route     { return r.Method(http.MethodPut, handlers...) }
func (r *Route) Patch(handlers ...Handler) *Route   { return r.Method(http.MethodPatch, handlers...) }
func (r *Route) Delete(handlers ...Handler) *Route  { return r.Method(http.MethodDelete, handlers...) }
func (r *Route) Head(handlers ...Handler) *Route    { return r.Method(http.MethodHead, handlers...) }
func (r *Route) Options(handlers ...Handler) *Route { return r.Method(http.MethodOptions, handlers...) }
func (r *Route) Connect(handlers ...Handler) *Route { return r.Method(http.MethodConnect, handlers...) }
func (r *Route) Trace(handlers ...Handler) *Route   { return r.Method(http.MethodTrace, handlers...) }

// All registers handlers that run for every method.
func (r *Route) All(handlers ...Handler) *Route {
	return r.add(allMethods, "", handlers)
}

// Method registers handlers for an arbitrary method token.
func (r *Route) Method(method string, handlers ...Handler) *Route {
	m := strings.ToLower(method)
	if !httpguts.ValidHeaderFieldName(method) || m == allMethods {
		panic(fmt.Sprintf("dispatch: invalid method %q for route %s", method, r.describe()))
	}
	return r.add(m, m, handlers)
}

func (r *Route) add(key, method string, handlers []Handler) *Route {
	if len(handlers) == 0 {
		panic(fmt.Sprintf("dispatch: route %s %s requires a handler", strings.ToUpper(key), r.describe()))
	}
	for _, h := range handlers {
		if isNilHandler(h) {
			panic(fmt.Sprintf("dispatch: nil handler for route %s %s", strings.ToUpper(key), r.describe()))
		}
		r.stack = append(r.stack, &Layer{Path: "/", routingPath: "/", handler: h, method: method})
	}
	if !r.methods[key] {
		r.methods[key] = true
		r.order = append(r.order, key)
	}
	return r
}

// HandlesMethod reports whether a request with the given method would
// run any of this route's handlers. HEAD is served by GET.
func (r *Route) HandlesMethod(method string) bool {
	if r.methods[allMethods] {
		return true
	}
	name := strings.ToLower(method)
	if name == "head" && !r.methods["head"] {
		name = "get"
	}
	return r.methods[name]
}

// Methods lists the concrete methods this route accepts, uppercased,
// with HEAD implied by GET.
func (r *Route) Methods() []string {
	out := make([]string, 0, len(r.order)+1)
	for _, m := range r.order {
		if m == allMethods {
			continue
		}
		out = append(out, strings.ToUpper(m))
	}
	if r.methods["get"] && !r.methods["head"] {
		out = append(out, http.MethodHead)
	}
	return out
}

// registered lists methods in registration order, "all" as "_ALL".
func (r *Route) registered() []string {
	out := make([]string, len(r.order))
	for i, m := range r.order {
		out[i] = strings.ToUpper(m)
	}
	return out
}

func (r *Route) describe() string {
	if s, ok := r.Path.(string); ok {
		return s
	}
	return fmt.Sprint(r.Path)
}

func (r *Route) errorShaped() bool { return false }

func (r *Route) serve(_ error, inv *invocation) error {
	r.dispatch(inv.req, inv.w, inv.next)
	return nil
}

func (r *Route) dispatch(req *Request, w http.ResponseWriter, done Next) {
	if len(r.stack) == 0 {
		done(Continue)
		return
	}

	method := strings.ToLower(req.Method)
	if method == "head" && !r.methods["head"] {
		method = "get"
	}

	req.Route = r
	idx := 0

	var next func(Signal)
	next = func(sig Signal) {
		switch sig.kind {
		case sigSkipRoute:
			done(Continue)
			return
		case sigExitRouter:
			done(sig)
			return
		}

		err := sig.Err()
		var layer *Layer
		for layer == nil && idx < len(r.stack) {
			l := r.stack[idx]
			idx++
			if l.method == "" || l.method == method {
				layer = l
			}
		}
		if layer == nil {
			done(Fail(err))
			return
		}

		r.owner.invoke(layer, err, req, w, next)
	}

	next(Continue)
}
