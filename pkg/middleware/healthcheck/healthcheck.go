package healthcheck

import (
	"net/http"
	"strings"

	"github.com/sjc5/routekit/pkg/dispatch"
	"github.com/sjc5/routekit/pkg/response"
)

// OK returns middleware that answers GET and HEAD requests for endpoint
// with a 200 and the body "OK". Everything else continues down the
// stack.
func OK(endpoint string) dispatch.HandlerFunc {
	return func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		isAppropriateMethod := req.Method == http.MethodGet || req.Method == http.MethodHead
		if isAppropriateMethod && strings.EqualFold(req.Path(), endpoint) {
			return response.New(w).OKText()
		}
		next(dispatch.Continue)
		return nil
	}
}

// Healthz answers "/healthz".
var Healthz = OK("/healthz")
