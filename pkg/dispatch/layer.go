package dispatch

import (
	"runtime/debug"

	"github.com/sjc5/routekit/pkg/pathmatch"
)

// MatchFunc is a custom path matcher. It returns nil, nil for no match.
type MatchFunc func(path string) (*pathmatch.Match, error)

// Layer binds a path matcher to a handler. Route layers also carry the
// Route they dispatch to.
type Layer struct {
	Path any

	routingPath string
	opts        pathmatch.Options
	match       MatchFunc
	handler     Handler
	route       *Route
	method      string // route entries only; "" accepts any method
	fastSlash   bool
	fastStar    bool
	custom      bool
}

func newLayer(path any, opts pathmatch.Options, handler Handler) *Layer {
	l := &Layer{Path: path, routingPath: pathmatch.Source(path), opts: opts, handler: handler}

	if s, ok := path.(string); ok {
		switch {
		case s == "/" && !opts.End:
			l.fastSlash = true
			return l
		case s == "*":
			l.fastStar = true
			return l
		}
	}

	m, err := pathmatch.Compile(path, opts)
	if err != nil {
		panic(err)
	}
	l.match = m.Match
	return l
}

func newMatcherLayer(path any, match MatchFunc, handler Handler) *Layer {
	return &Layer{Path: path, routingPath: pathmatch.Source(path), handler: handler, match: match, custom: true}
}

// Match tests path against the layer. The result belongs to the caller.
// A panicking matcher is reported as a *PanicError.
func (l *Layer) Match(path string) (m *pathmatch.Match, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			m, err = nil, &PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()

	switch {
	case l.fastSlash:
		return &pathmatch.Match{}, nil
	case l.fastStar:
		val, err := pathmatch.Decode(path)
		if err != nil {
			return nil, err
		}
		return &pathmatch.Match{Path: path, Params: []pathmatch.Param{{Name: "0", Value: val}}}, nil
	}
	return l.match(path)
}

// Route returns the layer's route, or nil for middleware.
func (l *Layer) Route() *Route {
	return l.route
}

func (l *Layer) RoutingPath() string {
	return l.routingPath
}
