package dispatch

import (
	"regexp"
	"strings"

	"github.com/sjc5/routekit/pkg/pathmatch"
)

type RouteOptions struct {
	Strict        bool `json:"strict"`
	CaseSensitive bool `json:"caseSensitive"`
}

// RouteInfo describes one registered route path.
type RouteInfo struct {
	Path    string          `json:"path"`
	Methods []string        `json:"methods"`
	Keys    []pathmatch.Key `json:"keys"`
	Options RouteOptions    `json:"options"`
}

type RouteMapEntry struct {
	Path    string   `json:"path"`
	Methods []string `json:"methods"`
}

// Routes flattens every route reachable from d, including those of
// dispatchers mounted with Use. A route with several paths yields one
// entry per path. Methods are listed as registered, "all" as "_ALL".
func (d *Dispatcher) Routes() []RouteInfo {
	return d.collectRoutes("", nil)
}

func (d *Dispatcher) collectRoutes(prefix string, out []RouteInfo) []RouteInfo {
	opts := RouteOptions{Strict: d.strict, CaseSensitive: d.caseSensitive}

	for _, l := range d.stack {
		if l.route != nil {
			for _, p := range expandPath(l.Path) {
				out = append(out, RouteInfo{
					Path:    joinRoutePath(prefix, listingPath(p)),
					Methods: l.route.registered(),
					Keys:    routeKeys(l, p),
					Options: opts,
				})
			}
			continue
		}

		inner, ok := l.handler.(*Dispatcher)
		if !ok {
			continue
		}
		for _, p := range expandPath(l.Path) {
			out = inner.collectRoutes(joinRoutePath(prefix, listingPath(p)), out)
		}
	}
	return out
}

// MapRoutes is Routes deduplicated by path, with the methods of every
// registration of a path merged in first-seen order.
func (d *Dispatcher) MapRoutes() []RouteMapEntry {
	var out []RouteMapEntry
	index := make(map[string]int)

	for _, info := range d.Routes() {
		i, ok := index[info.Path]
		if !ok {
			index[info.Path] = len(out)
			out = append(out, RouteMapEntry{Path: info.Path, Methods: append([]string{}, info.Methods...)})
			continue
		}
		for _, m := range info.Methods {
			if !contains(out[i].Methods, m) {
				out[i].Methods = append(out[i].Methods, m)
			}
		}
	}
	return out
}

func expandPath(path any) []any {
	switch v := path.(type) {
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	case []any:
		var out []any
		for _, p := range v {
			out = append(out, expandPath(p)...)
		}
		return out
	}
	return []any{path}
}

func listingPath(p any) string {
	if re, ok := p.(*regexp.Regexp); ok {
		return "/" + re.String() + "/"
	}
	return pathmatch.Source(p)
}

func routeKeys(l *Layer, p any) []pathmatch.Key {
	if l.custom {
		return nil
	}
	switch p.(type) {
	case string, *regexp.Regexp:
	default:
		return nil
	}
	m, err := pathmatch.Compile(p, l.opts)
	if err != nil {
		return nil
	}
	return m.Keys()
}

func joinRoutePath(prefix, child string) string {
	return strings.TrimSuffix(prefix, "/") + child
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
