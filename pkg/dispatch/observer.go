package dispatch

// HandleRequestEvent is reported right before a request-shaped handler
// runs.
type HandleRequestEvent struct {
	Request *Request
	Layer   *Layer
	// RoutingPath is req.RoutingPath at the time of the event.
	RoutingPath string
}

// HandleErrorEvent is reported right before an error-shaped handler
// runs.
type HandleErrorEvent struct {
	Request     *Request
	Layer       *Layer
	RoutingPath string
	Error       error
}

// Observer receives layer events. Either hook may be nil. Nested
// dispatchers also report to the observer of the outermost observed
// dispatcher a request passed through.
type Observer struct {
	OnHandleRequest func(HandleRequestEvent)
	OnHandleError   func(HandleErrorEvent)
}

func (o Observer) active() bool {
	return o.OnHandleRequest != nil || o.OnHandleError != nil
}

// Observers fans events out to every observer in order.
func Observers(obs ...Observer) Observer {
	var out Observer
	for _, o := range obs {
		if o.OnHandleRequest != nil {
			prev, fn := out.OnHandleRequest, o.OnHandleRequest
			out.OnHandleRequest = func(e HandleRequestEvent) {
				if prev != nil {
					prev(e)
				}
				fn(e)
			}
		}
		if o.OnHandleError != nil {
			prev, fn := out.OnHandleError, o.OnHandleError
			out.OnHandleError = func(e HandleErrorEvent) {
				if prev != nil {
					prev(e)
				}
				fn(e)
			}
		}
	}
	return out
}

func (d *Dispatcher) notify(l *Layer, err error, req *Request) {
	targets := [2]*Dispatcher{d}
	if req.observedBy != nil && req.observedBy != d {
		targets[1] = req.observedBy
	}

	routingPath := ""
	for _, t := range targets {
		if t == nil || !t.observer.active() {
			continue
		}
		if routingPath == "" {
			routingPath = req.RoutingPath()
		}
		if err != nil {
			if t.observer.OnHandleError != nil {
				t.observer.OnHandleError(HandleErrorEvent{Request: req, Layer: l, RoutingPath: routingPath, Error: err})
			}
			continue
		}
		if t.observer.OnHandleRequest != nil {
			t.observer.OnHandleRequest(HandleRequestEvent{Request: req, Layer: l, RoutingPath: routingPath})
		}
	}
}
