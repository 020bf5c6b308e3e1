// Package pathmatch compiles Express-style path patterns into RE2
// matchers and extracts decoded parameters from request paths.
//
// Supported pattern syntax:
//
//	/users/:id          one segment
//	/users/:id?         optional segment (the leading slash goes with it)
//	/files/:path*       zero or more segments
//	/files/:path+       one or more segments
//	/users/:id(\d+)     custom capture
//	/files/(\d+)        unnamed capture, keyed "0", "1", ...
//	/assets/*           wildcard, keyed like unnamed captures
//	/a\(b\)             escaped literal parens
//
// Arrays of patterns are tried in order. A *regexp.Regexp is used as
// given: named groups become param names and unnamed ones ordinals.
package pathmatch

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/sjc5/routekit/pkg/errutil"
	"github.com/sjc5/routekit/pkg/lru"
)

type Options struct {
	CaseSensitive bool
	Strict        bool
	// End anchors the pattern at the end of the path. Without it the
	// pattern matches a prefix that stops at "/" or end of string.
	End bool
}

const (
	KeyTypeParam    = "param"
	KeyTypeWildcard = "wildcard"
)

type Key struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Param struct {
	Name  string
	Value string
}

// Match is the result of a successful match. Path is the matched
// portion of the input.
type Match struct {
	Path   string
	Params []Param
}

// Get returns the value for name.
func (m *Match) Get(name string) (string, bool) {
	for _, p := range m.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Map returns the params as a fresh map.
func (m *Match) Map() map[string]string {
	out := make(map[string]string, len(m.Params))
	for _, p := range m.Params {
		out[p.Name] = p.Value
	}
	return out
}

type Matcher struct {
	source string
	alts   []*compiled
}

type compiled struct {
	re     *regexp.Regexp
	keys   []Key
	groups []int
	prefix bool
}

type cacheKey struct {
	pattern string
	opts    Options
}

var cache = lru.NewCache[cacheKey, *compiled](1024)

// Compile builds a Matcher from a string, a []string, a
// *regexp.Regexp, or a []any mixing strings and regexps.
func Compile(spec any, opts Options) (*Matcher, error) {
	m := &Matcher{source: Source(spec)}

	add := func(s any) error {
		var c *compiled
		var err error
		switch v := s.(type) {
		case string:
			c, err = cache.GetOrCreate(cacheKey{pattern: v, opts: opts}, func() (*compiled, error) {
				return compileString(v, opts)
			})
		case *regexp.Regexp:
			c = compileRegexp(v)
		default:
			err = fmt.Errorf("unsupported path type %T", s)
		}
		if err != nil {
			return err
		}
		m.alts = append(m.alts, c)
		return nil
	}

	var err error
	switch v := spec.(type) {
	case []string:
		for _, s := range v {
			if err = add(s); err != nil {
				break
			}
		}
	case []any:
		for _, s := range v {
			if err = add(s); err != nil {
				break
			}
		}
	default:
		err = add(spec)
	}
	if err != nil {
		return nil, errutil.Maybe(fmt.Sprintf("pathmatch: compiling %s", m.source), err)
	}
	if len(m.alts) == 0 {
		return nil, fmt.Errorf("pathmatch: empty path list")
	}
	return m, nil
}

// MustCompile is Compile that panics on error.
func MustCompile(spec any, opts Options) *Matcher {
	m, err := Compile(spec, opts)
	if err != nil {
		panic(err)
	}
	return m
}

// Match returns nil, nil when pathname does not match. A captured
// value that fails to decode yields a *DecodeError.
func (m *Matcher) Match(pathname string) (*Match, error) {
	for _, c := range m.alts {
		idx := c.re.FindStringSubmatchIndex(pathname)
		if idx == nil {
			continue
		}
		return c.extract(pathname, idx)
	}
	return nil, nil
}

// Keys lists the capture keys across all alternatives, first seen first.
func (m *Matcher) Keys() []Key {
	var keys []Key
	seen := make(map[string]bool)
	for _, c := range m.alts {
		for _, k := range c.keys {
			if !seen[k.Name] {
				seen[k.Name] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Regexps returns the compiled expression of every alternative.
func (m *Matcher) Regexps() []string {
	out := make([]string, len(m.alts))
	for i, c := range m.alts {
		out[i] = c.re.String()
	}
	return out
}

func (m *Matcher) String() string {
	return m.source
}

// Source renders a path spec the way listings show it.
func Source(spec any) string {
	switch v := spec.(type) {
	case string:
		return v
	case []string:
		return "[" + strings.Join(v, ", ") + "]"
	case *regexp.Regexp:
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = Source(s)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(spec)
	}
}

func (c *compiled) extract(pathname string, idx []int) (*Match, error) {
	match := &Match{Path: pathname[idx[0]:idx[1]]}
	if c.prefix {
		match.Path = pathname[idx[2]:idx[3]]
	}

	for i, k := range c.keys {
		g := c.groups[i]
		if idx[2*g] < 0 {
			continue
		}
		val, err := Decode(pathname[idx[2*g]:idx[2*g+1]])
		if err != nil {
			return nil, err
		}
		match.set(k.Name, val)
	}
	return match, nil
}

func (m *Match) set(name, val string) {
	for i := range m.Params {
		if m.Params[i].Name == name {
			m.Params[i].Value = val
			return
		}
	}
	m.Params = append(m.Params, Param{Name: name, Value: val})
}

func compileString(pattern string, opts Options) (*compiled, error) {
	tokens, err := parse(pattern)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	var keys []Key
	ordinal := 0

	for _, tok := range tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(regexp.QuoteMeta(tok.value))
			continue
		case tokenRaw:
			b.WriteString(tok.pattern)
			continue
		}

		group := "rk" + strconv.Itoa(len(keys))
		switch tok.kind {
		case tokenParam:
			keys = append(keys, Key{Name: tok.value, Type: KeyTypeParam})
		default:
			keys = append(keys, Key{Name: strconv.Itoa(ordinal), Type: KeyTypeWildcard})
			ordinal++
		}

		if tok.kind == tokenWildcard {
			fmt.Fprintf(&b, "(?P<%s>.*)", group)
			continue
		}
		b.WriteString(captureExpr(group, tok))
	}

	expr := b.String()
	if !opts.Strict {
		if strings.HasSuffix(expr, "/") {
			expr += "?"
		} else {
			expr += "/?"
		}
	}

	flags := "(?s)"
	if !opts.CaseSensitive {
		flags = "(?is)"
	}

	c := &compiled{keys: keys, prefix: !opts.End}
	if opts.End {
		expr = flags + "^" + expr + "$"
	} else {
		expr = flags + "^(" + expr + ")(?:/.*)?$"
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	c.re = re
	for i := range keys {
		c.groups = append(c.groups, re.SubexpIndex("rk"+strconv.Itoa(i)))
	}
	return c, nil
}

func captureExpr(group string, tok token) string {
	slash := ""
	if tok.prefixed {
		slash = "/"
	}
	single := fmt.Sprintf("(?P<%s>%s)", group, tok.pattern)
	repeated := fmt.Sprintf("(?P<%s>(?:%s)(?:/(?:%s))*)", group, tok.pattern, tok.pattern)

	switch tok.modifier {
	case '?':
		return "(?:" + slash + single + ")?"
	case '+':
		return slash + repeated
	case '*':
		return "(?:" + slash + repeated + ")?"
	default:
		return slash + single
	}
}

func compileRegexp(re *regexp.Regexp) *compiled {
	c := &compiled{re: re}
	ordinal := 0
	for i, name := range re.SubexpNames() {
		if i == 0 {
			continue
		}
		if name == "" {
			c.keys = append(c.keys, Key{Name: strconv.Itoa(ordinal), Type: KeyTypeWildcard})
			ordinal++
		} else {
			c.keys = append(c.keys, Key{Name: name, Type: KeyTypeParam})
		}
		c.groups = append(c.groups, i)
	}
	return c
}
