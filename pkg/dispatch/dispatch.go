package dispatch

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/sjc5/routekit/pkg/pathmatch"
)

// Dispatch runs req through the stack. done fires exactly once when the
// stack is exhausted, with the pending error if any. It does not fire
// when a handler ends the request without calling next, nor when an
// automatic OPTIONS response was written.
//
// Layers that run synchronously run on the caller's goroutine. Reaching
// the end of the stack always completes on a new goroutine; use
// req.Wait to block until the dispatch is quiescent.
func (d *Dispatcher) Dispatch(req *Request, w http.ResponseWriter, done Done) {
	if done == nil {
		panic(&MisuseError{Op: "Dispatch", Err: ErrMissingDone})
	}

	d.log.Debug("dispatching", "method", req.Method, "url", req.URL)

	s := &scan{
		d:            d,
		req:          req,
		w:            w,
		protohost:    protohost(req.URL),
		parentParams: req.Params,
		parentURL:    req.BaseURL,
		called:       make(map[string]*paramMemo),
	}

	snap := takeSnapshot(req)
	s.done = func(err error) {
		snap.restore(req)
		done(err)
	}

	if req.Method == http.MethodOptions {
		s.collect = true
		restoreAndDone := s.done
		s.done = func(err error) {
			if err != nil || len(s.allow) == 0 {
				restoreAndDone(err)
				return
			}
			snap.restore(req)
			if err := sendOptions(w, s.allow); err != nil {
				done(err)
			}
		}
	}

	if req.observedBy == nil && d.observer.active() {
		req.observedBy = d
	}

	req.BaseURL = s.parentURL
	if req.OriginalURL == "" {
		req.OriginalURL = req.URL
	}

	s.next(Continue)
}

// scan is the state of one Dispatch call.
type scan struct {
	d   *Dispatcher
	req *Request
	w   http.ResponseWriter

	done func(error)

	idx          int
	protohost    string
	removed      string
	slashAdded   bool
	parentParams map[string]string
	parentURL    string

	collect bool
	allow   []string

	called map[string]*paramMemo
}

func (s *scan) next(sig Signal) {
	req := s.req

	var layerErr error
	if sig.kind == sigFail {
		layerErr = sig.err
	}

	if s.slashAdded {
		req.URL = req.URL[1:]
		s.slashAdded = false
	}

	if s.removed != "" {
		req.BaseURL = s.parentURL
		req.URL = s.protohost + s.removed + req.URL[len(s.protohost):]
		s.removed = ""
	}

	if sig.kind == sigExitRouter {
		s.deferDone(nil)
		return
	}

	stack := s.d.stack
	if s.idx >= len(stack) {
		s.deferDone(layerErr)
		return
	}

	path, ok := pathname(req.URL)
	if !ok {
		s.done(layerErr)
		return
	}

	var (
		layer *Layer
		match *pathmatch.Match
		route *Route
	)

	for match == nil && s.idx < len(stack) {
		layer = stack[s.idx]
		s.idx++

		m, err := layer.Match(path)
		route = layer.route

		if err != nil {
			if layerErr == nil {
				layerErr = err
			}
			continue
		}
		if m == nil {
			continue
		}
		if route == nil {
			match = m
			continue
		}
		if layerErr != nil {
			continue
		}

		hasMethod := route.HandlesMethod(req.Method)
		if !hasMethod && s.collect {
			s.allow = append(s.allow, route.Methods()...)
		}
		if !hasMethod && req.Method != http.MethodHead {
			continue
		}
		match = m
	}

	if match == nil {
		s.done(layerErr)
		return
	}

	if route != nil {
		req.Route = route
	}

	params := match.Map()
	if s.d.mergeParams {
		params = mergeParams(params, s.parentParams)
	}
	req.Params = params
	layerPath := match.Path

	s.processParams(match, func(sig Signal) {
		if sig.kind != sigContinue {
			if layerErr != nil {
				s.next(Fail(layerErr))
			} else {
				s.next(sig)
			}
			return
		}

		if route != nil {
			s.d.invoke(layer, nil, req, s.w, s.next)
			return
		}

		s.trimPrefix(layer, layerErr, layerPath, path)
	})
}

func (s *scan) trimPrefix(layer *Layer, layerErr error, layerPath, path string) {
	if len(path) > len(layerPath) && path[len(layerPath)] != '/' {
		s.next(Fail(layerErr))
		return
	}

	req := s.req
	if layerPath != "" {
		s.d.log.Debug("trim prefix", "prefix", layerPath, "url", req.URL)
		s.removed = layerPath
		req.URL = s.protohost + req.URL[len(s.protohost)+len(layerPath):]

		if s.protohost == "" && !strings.HasPrefix(req.URL, "/") {
			req.URL = "/" + req.URL
			s.slashAdded = true
		}

		req.BaseURL = s.parentURL + strings.TrimSuffix(layerPath, "/")
	}

	s.d.invoke(layer, layerErr, req, s.w, s.next)
}

func (s *scan) deferDone(err error) {
	release := s.req.Hold()
	go func() {
		defer release()
		s.done(err)
	}()
}

type paramMemo struct {
	match string
	value string
	sig   Signal
}

// sticky reports whether the memo short-circuits later layers whatever
// their value.
func (p *paramMemo) sticky() bool {
	return p.sig.kind == sigFail || p.sig.kind == sigExitRouter
}

func (s *scan) processParams(match *pathmatch.Match, done func(Signal)) {
	if len(match.Params) == 0 || len(s.d.params) == 0 {
		done(Continue)
		return
	}

	req := s.req
	i := 0

	var param func(Signal)
	param = func(sig Signal) {
		if sig.kind != sigContinue {
			done(sig)
			return
		}

		for i < len(match.Params) {
			name := match.Params[i].Name
			i++

			val, ok := req.Params[name]
			fns := s.d.params[name]
			if !ok || len(fns) == 0 {
				continue
			}

			memo := s.called[name]
			if memo != nil && (memo.match == val || memo.sticky()) {
				req.Params[name] = memo.value
				param(memo.sig)
				return
			}

			memo = &paramMemo{match: val, value: val, sig: Continue}
			s.called[name] = memo
			s.runParam(name, val, fns, memo, param)
			return
		}

		done(Continue)
	}

	param(Continue)
}

func (s *scan) runParam(name, val string, fns []ParamFunc, memo *paramMemo, param func(Signal)) {
	idx := 0

	var step func(Signal)
	step = func(sig Signal) {
		memo.value = s.req.Params[name]

		if sig.kind != sigContinue {
			memo.sig = sig
			param(sig)
			return
		}
		if idx >= len(fns) {
			param(Continue)
			return
		}

		fn := fns[idx]
		idx++

		inv := &invocation{d: s.d, req: s.req, w: s.w, op: "param " + name, forward: step}
		inv.run(func() error {
			return fn(s.req, s.w, inv.next, val, name)
		})
	}

	step(Continue)
}

// mergeParams overlays params on a copy of parent. When both carry
// ordinal keys, the child's are shifted past the parent's.
func mergeParams(params, parent map[string]string) map[string]string {
	if parent == nil {
		return params
	}

	out := make(map[string]string, len(parent)+len(params))
	for k, v := range parent {
		out[k] = v
	}

	_, childOrdinals := params["0"]
	_, parentOrdinals := parent["0"]
	if childOrdinals && parentOrdinals {
		i := countOrdinals(params)
		o := countOrdinals(parent)
		for i--; i >= 0; i-- {
			params[strconv.Itoa(i+o)] = params[strconv.Itoa(i)]
			if i < o {
				delete(params, strconv.Itoa(i))
			}
		}
	}

	for k, v := range params {
		out[k] = v
	}
	return out
}

func countOrdinals(m map[string]string) int {
	n := 0
	for {
		if _, ok := m[strconv.Itoa(n)]; !ok {
			return n
		}
		n++
	}
}

// protohost returns the scheme and host of an absolute URL, or "".
func protohost(url string) string {
	if url == "" || url[0] == '/' {
		return ""
	}

	pathLength := len(url)
	if i := strings.IndexByte(url, '?'); i >= 0 {
		pathLength = i
	}

	fqdn := strings.Index(url[:pathLength], "://")
	if fqdn < 0 {
		return ""
	}

	slash := strings.IndexByte(url[fqdn+3:], '/')
	if slash < 0 {
		return ""
	}
	return url[:fqdn+3+slash]
}

// pathname extracts the raw path of a request URL. It fails on an empty
// URL or one holding control characters.
func pathname(url string) (string, bool) {
	if url == "" || strings.ContainsFunc(url, isCTL) {
		return "", false
	}

	if i := strings.IndexAny(url, "?#"); i >= 0 {
		url = url[:i]
	}

	if url != "" && url[0] != '/' {
		if i := strings.Index(url, "://"); i >= 0 {
			rest := url[i+3:]
			slash := strings.IndexByte(rest, '/')
			if slash < 0 {
				return "/", true
			}
			return rest[slash:], true
		}
	}

	if url == "" {
		return "", false
	}
	return url, true
}

func isCTL(r rune) bool {
	return r < 0x20 || r == 0x7f
}

func sendOptions(w http.ResponseWriter, methods []string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("dispatch: sending OPTIONS response: %v", rec)
		}
	}()

	seen := make(map[string]bool, len(methods))
	allow := make([]string, 0, len(methods))
	for _, m := range methods {
		if !seen[m] {
			seen[m] = true
			allow = append(allow, m)
		}
	}
	sort.Strings(allow)
	body := strings.Join(allow, ", ")

	h := w.Header()
	h.Set("Allow", body)
	h.Set("Content-Length", strconv.Itoa(len(body)))
	h.Set("Content-Type", "text/plain")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	_, err = w.Write([]byte(body))
	return err
}
