package dispatch

type signalKind uint8

const (
	sigContinue signalKind = iota
	sigSkipRoute
	sigExitRouter
	sigFail
)

// Signal is what a handler hands back to the dispatcher through Next.
type Signal struct {
	kind signalKind
	err  error
}

var (
	// Continue moves on to the next matching handler and clears any
	// pending error.
	Continue = Signal{}

	// SkipRoute abandons the rest of the current route's handlers and
	// resumes the scan after that route.
	SkipRoute = Signal{kind: sigSkipRoute}

	// ExitRouter leaves the current dispatcher as if nothing in it
	// had matched.
	ExitRouter = Signal{kind: sigExitRouter}
)

// Fail makes err the pending error. Fail(nil) is Continue.
func Fail(err error) Signal {
	if err == nil {
		return Continue
	}
	return Signal{kind: sigFail, err: err}
}

// Err returns the error carried by a Fail signal.
func (s Signal) Err() error {
	if s.kind != sigFail {
		return nil
	}
	return s.err
}

func (s Signal) String() string {
	switch s.kind {
	case sigSkipRoute:
		return "route"
	case sigExitRouter:
		return "router"
	case sigFail:
		return "fail: " + s.err.Error()
	default:
		return "continue"
	}
}

// Next continues a dispatch. It must be called at most once per handler
// invocation.
type Next func(Signal)

// Done receives the outcome of a whole dispatch: nil when nothing
// handled the request, or the unresolved pending error.
type Done func(err error)
