// Package tsgen writes a TypeScript manifest of a dispatcher's routes:
// interfaces for the route listing types, the listing itself and one
// path constant per distinct route path.
package tsgen

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sjc5/routekit/pkg/dispatch"
	"github.com/sjc5/routekit/pkg/errutil"
	"github.com/tkrajina/typescriptify-golang-structs/typescriptify"
)

const DefaultFileName = "routes.ts"

type Opts struct {
	// OutDest is the directory the manifest is written to.
	OutDest  string
	FileName string
	Routes   []dispatch.RouteInfo
}

// Write generates the manifest and writes it to OutDest.
func Write(opts Opts) error {
	if err := os.MkdirAll(opts.OutDest, os.ModePerm); err != nil {
		return errutil.Maybe("failed to ensure out dest dir", err)
	}
	ts, err := Generate(opts.Routes)
	if err != nil {
		return err
	}
	name := opts.FileName
	if name == "" {
		name = DefaultFileName
	}
	if err := os.WriteFile(filepath.Join(opts.OutDest, name), []byte(ts), 0o644); err != nil {
		return errutil.Maybe("failed to write ts file", err)
	}
	return nil
}

func Generate(routes []dispatch.RouteInfo) (string, error) {
	var b strings.Builder
	b.WriteString("/*\n * This file is auto-generated. Do not edit.\n */\n\n")

	converter := newConverter()
	converter.Add(dispatch.RouteInfo{})
	types, err := converter.Convert(make(map[string]string))
	if err != nil {
		return "", errutil.Maybe("failed to convert route types to ts", err)
	}
	b.WriteString(stripBanner(types))
	b.WriteString("\n\n")

	if routes == nil {
		routes = []dispatch.RouteInfo{}
	}
	listing, err := json.MarshalIndent(routes, "", "  ")
	if err != nil {
		return "", errutil.Maybe("failed to encode routes", err)
	}
	b.WriteString("export const ROUTES = ")
	b.Write(listing)
	b.WriteString(" as const;\n\n")

	for _, c := range pathConstants(routes) {
		fmt.Fprintf(&b, "export const %s = %q;\n", c.name, c.path)
	}
	b.WriteString(extraCode)

	return b.String(), nil
}

var extraCode = `
export type RoutePath = (typeof ROUTES)[number]["path"];
export type RouteMethod = (typeof ROUTES)[number]["methods"][number];
`

type pathConstant struct {
	name string
	path string
}

// pathConstants names each distinct path after its PascalCased form,
// e.g. "/users/:id" becomes UsersIdPath. Collisions get a numeric
// suffix.
func pathConstants(routes []dispatch.RouteInfo) []pathConstant {
	var out []pathConstant
	seenPath := make(map[string]bool)
	seenName := make(map[string]int)
	for _, r := range routes {
		if seenPath[r.Path] {
			continue
		}
		seenPath[r.Path] = true

		base := convertToPascalCase(r.Path)
		if base == "" {
			base = "Root"
		}
		base += "Path"
		name := base
		if n := seenName[base]; n > 0 {
			name = fmt.Sprintf("%s%d", base, n+1)
		}
		seenName[base]++
		out = append(out, pathConstant{name: name, path: r.Path})
	}
	return out
}

func stripBanner(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "/*") {
		if i := strings.Index(s, "*/"); i >= 0 {
			s = strings.TrimSpace(s[i+2:])
		}
	}
	return s
}

func newConverter() *typescriptify.TypeScriptify {
	converter := typescriptify.New()
	converter.CreateInterface = true
	return converter
}
