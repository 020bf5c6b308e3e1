package dispatch

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/sjc5/routekit/pkg/colorlog"
	"github.com/sjc5/routekit/pkg/pathmatch"
)

type Options struct {
	CaseSensitive bool
	Strict        bool
	// MergeParams exposes the params of the enclosing dispatcher's
	// layer to this dispatcher's handlers.
	MergeParams bool

	// Logger defaults to a colorlog logger labelled "dispatch".
	Logger   *slog.Logger
	Observer Observer

	// PanicOnMisuse turns logged protocol misuse, such as calling next
	// twice, into a panic.
	PanicOnMisuse bool
}

// Dispatcher runs a request through an ordered stack of layers.
type Dispatcher struct {
	caseSensitive bool
	strict        bool
	mergeParams   bool
	panicOnMisuse bool

	log      *slog.Logger
	observer Observer

	stack  []*Layer
	params map[string][]ParamFunc
}

func New(opts Options) *Dispatcher {
	log := opts.Logger
	if log == nil {
		log = colorlog.New("dispatch")
	}
	return &Dispatcher{
		caseSensitive: opts.CaseSensitive,
		strict:        opts.Strict,
		mergeParams:   opts.MergeParams,
		panicOnMisuse: opts.PanicOnMisuse,
		log:           log,
		observer:      opts.Observer,
		params:        make(map[string][]ParamFunc),
	}
}

// Use mounts middleware under path. The matched prefix is stripped from
// req.URL and appended to req.BaseURL while the handlers run.
func (d *Dispatcher) Use(path any, handlers ...Handler) *Dispatcher {
	opts := pathmatch.Options{CaseSensitive: d.caseSensitive}
	return d.push(path, handlers, func(h Handler) *Layer {
		return newLayer(path, opts, h)
	})
}

// UseHandler mounts middleware at "/".
func (d *Dispatcher) UseHandler(handlers ...Handler) *Dispatcher {
	return d.Use("/", handlers...)
}

// UseMatcher mounts middleware behind a custom match function. path is
// kept for listings and routing paths only.
func (d *Dispatcher) UseMatcher(path any, match MatchFunc, handlers ...Handler) *Dispatcher {
	if match == nil {
		panic(fmt.Sprintf("dispatch: nil match function for %s", pathmatch.Source(path)))
	}
	return d.push(path, handlers, func(h Handler) *Layer {
		return newMatcherLayer(path, match, h)
	})
}

func (d *Dispatcher) push(path any, handlers []Handler, build func(Handler) *Layer) *Dispatcher {
	if len(handlers) == 0 {
		panic(fmt.Sprintf("dispatch: use %s requires a handler", pathmatch.Source(path)))
	}
	for _, h := range handlers {
		if isNilHandler(h) {
			panic(fmt.Sprintf("dispatch: nil handler for use %s", pathmatch.Source(path)))
		}
		if inner, ok := h.(*Dispatcher); ok && inner == d {
			panic("dispatch: a dispatcher cannot be mounted on itself")
		}
		d.stack = append(d.stack, build(h))
	}
	return d
}

// Route creates a route matching path exactly.
func (d *Dispatcher) Route(path any) *Route {
	l := newLayer(path, pathmatch.Options{CaseSensitive: d.caseSensitive, Strict: d.strict, End: true}, nil)
	return d.attach(l)
}

// RouteMatcher creates a route behind a custom match function.
func (d *Dispatcher) RouteMatcher(path any, match MatchFunc) *Route {
	if match == nil {
		panic(fmt.Sprintf("dispatch: nil match function for %s", pathmatch.Source(path)))
	}
	return d.attach(newMatcherLayer(path, match, nil))
}

func (d *Dispatcher) attach(l *Layer) *Route {
	r := newRoute(d, l.Path)
	l.route = r
	l.handler = r
	d.stack = append(d.stack, l)
	return r
}

func (d *Dispatcher) Get(path any, handlers ...Handler) *Dispatcher {
	return d.Method(http.MethodGet, path, handlers...)
}

func (d *Dispatcher) Post(path any, handlers ...Handler) *Dispatcher {
	return d.Method(http.MethodPost, path, handlers...)
}

func (d *Dispatcher) Put(path any, handlers ...Handler) *Dispatcher {
	return d.Method(http.MethodPut, path, handlers...)
}

func (d *Dispatcher) Patch(path any, handlers ...Handler) *Dispatcher {
	return d.Method(http.MethodPatch, path, handlers...)
}

func (d *Dispatcher) Delete(path any, handlers ...Handler) *Dispatcher {
	return d.Method(http.MethodDelete, path, handlers...)
}

func (d *Dispatcher) Head(path any, handlers ...Handler) *Dispatcher {
	return d.Method(http.MethodHead, path, handlers...)
}

func (d *Dispatcher) Options(path any, handlers ...Handler) *Dispatcher {
	return d.Method(http.MethodOptions, path, handlers...)
}

func (d *Dispatcher) All(path any, handlers ...Handler) *Dispatcher {
	d.Route(path).All(handlers...)
	return d
}

// Method registers a new route for path handling method.
func (d *Dispatcher) Method(method string, path any, handlers ...Handler) *Dispatcher {
	d.Route(path).Method(method, handlers...)
	return d
}

// Param registers fns to run, in order, before any layer that captured
// the named param. Each value runs them at most once per dispatch.
func (d *Dispatcher) Param(name string, fns ...ParamFunc) *Dispatcher {
	if name == "" {
		panic("dispatch: param name is required")
	}
	if len(fns) == 0 {
		panic(fmt.Sprintf("dispatch: param %q requires a handler", name))
	}
	for _, fn := range fns {
		if fn == nil {
			panic(fmt.Sprintf("dispatch: nil handler for param %q", name))
		}
	}
	d.params[name] = append(d.params[name], fns...)
	return d
}

// Allowed lists the methods of every route, nested ones included, whose
// path matches rawURL. The result is sorted and deduplicated.
func (d *Dispatcher) Allowed(rawURL string) []string {
	path, ok := pathname(rawURL)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	d.allowed(path, seen)

	out := make([]string, 0, len(seen))
	for m := range seen {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

func (d *Dispatcher) allowed(path string, seen map[string]bool) {
	for _, l := range d.stack {
		m, err := l.Match(path)
		if err != nil || m == nil {
			continue
		}
		if l.route != nil {
			for _, method := range l.route.Methods() {
				seen[method] = true
			}
			continue
		}
		inner, ok := l.handler.(*Dispatcher)
		if !ok {
			continue
		}
		rest := path[len(m.Path):]
		if rest != "" && rest[0] != '/' {
			continue
		}
		if !strings.HasPrefix(rest, "/") {
			rest = "/" + rest
		}
		inner.allowed(rest, seen)
	}
}

func (d *Dispatcher) errorShaped() bool { return false }

func (d *Dispatcher) serve(_ error, inv *invocation) error {
	d.Dispatch(inv.req, inv.w, func(err error) {
		inv.next(Fail(err))
	})
	return nil
}

func (d *Dispatcher) misuse(err *MisuseError) {
	d.log.Error("protocol misuse", "op", err.Op, "error", err)
	if d.panicOnMisuse {
		panic(err)
	}
}

// invoke runs one layer's handler. forward continues the enclosing
// scan once the handler calls next.
func (d *Dispatcher) invoke(l *Layer, err error, req *Request, w http.ResponseWriter, forward func(Signal)) {
	depth := len(req.LayerStack)
	req.LayerStack = append(req.LayerStack, l.routingPath)

	inv := &invocation{
		d:   d,
		req: req,
		w:   w,
		op:  l.routingPath,
		forward: func(sig Signal) {
			if len(req.LayerStack) > depth {
				req.LayerStack = req.LayerStack[:depth]
			}
			forward(sig)
		},
	}

	h := l.handler
	if (err != nil) != h.errorShaped() {
		inv.next(Fail(err))
		return
	}

	inv.run(func() error {
		d.notify(l, err, req)
		return h.serve(err, inv)
	})
}
