// Package secureheaders sets the security headers helmetjs sets by
// default (https://github.com/helmetjs/helmet#reference).
package secureheaders

import (
	"net/http"

	"github.com/sjc5/routekit/pkg/dispatch"
)

var Defaults = map[string]string{
	"Content-Security-Policy":           "default-src 'self';base-uri 'self';font-src 'self' https: data:;form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';upgrade-insecure-requests",
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Origin-Agent-Cluster":              "?1",
	"Referrer-Policy":                   "no-referrer",
	"Strict-Transport-Security":         "max-age=15552000; includeSubDomains",
	"X-Content-Type-Options":            "nosniff",
	"X-DNS-Prefetch-Control":            "off",
	"X-Download-Options":                "noopen",
	"X-Frame-Options":                   "SAMEORIGIN",
	"X-Permitted-Cross-Domain-Policies": "none",
	"X-XSS-Protection":                  "0",
}

// New returns middleware that sets Defaults, with overrides applied on
// top. An empty override value removes that header.
func New(overrides map[string]string) dispatch.HandlerFunc {
	headers := make(map[string]string, len(Defaults)+len(overrides))
	for k, v := range Defaults {
		headers[k] = v
	}
	for k, v := range overrides {
		if v == "" {
			delete(headers, k)
			continue
		}
		headers[k] = v
	}

	return func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		h := w.Header()
		for k, v := range headers {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")
		next(dispatch.Continue)
		return nil
	}
}

var Middleware = New(nil)
