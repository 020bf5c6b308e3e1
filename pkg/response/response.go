// Package response writes common responses from dispatch handlers and
// from the final handler of the HTTP adapter.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// Committer is implemented by writers that know whether headers have
// been sent.
type Committer interface {
	Committed() bool
}

type Response struct {
	Writer      http.ResponseWriter
	isCommitted bool
}

func New(w http.ResponseWriter) *Response {
	return &Response{Writer: w}
}

// IsCommitted reports whether a status line has gone out, either
// through this Response or directly on a writer that tracks it.
func (res *Response) IsCommitted() bool {
	if res.isCommitted {
		return true
	}
	if c, ok := res.Writer.(Committer); ok {
		return c.Committed()
	}
	return false
}

/////////////////////////////////////////////////////////////////////
// General helpers
/////////////////////////////////////////////////////////////////////

func (res *Response) SetHeader(key, value string) {
	res.Writer.Header().Set(key, value)
}

func (res *Response) AddHeader(key, value string) {
	res.Writer.Header().Add(key, value)
}

func (res *Response) SetStatus(status int) {
	res.Writer.WriteHeader(status)
	res.isCommitted = true
}

// Error writes a plain text error body. Without reasons the body is
// the status text.
func (res *Response) Error(status int, reasons ...string) {
	reason := strings.Join(reasons, " ")
	if reason == "" {
		reason = http.StatusText(status)
	}
	http.Error(res.Writer, reason, status)
	res.isCommitted = true
}

/////////////////////////////////////////////////////////////////////
// Contentful responses
/////////////////////////////////////////////////////////////////////

func (res *Response) JSON(obj any) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	res.SetHeader("Content-Type", "application/json")
	return res.body(http.StatusOK, data)
}

func (res *Response) OK() error {
	res.SetHeader("Content-Type", "application/json")
	return res.body(http.StatusOK, []byte(`{"ok":true}`))
}

func (res *Response) Text(text string) error {
	res.SetHeader("Content-Type", "text/plain; charset=utf-8")
	return res.body(http.StatusOK, []byte(text))
}

func (res *Response) OKText() error {
	return res.Text("OK")
}

func (res *Response) body(status int, data []byte) error {
	res.SetHeader("Content-Length", strconv.Itoa(len(data)))
	res.SetStatus(status)
	_, err := res.Writer.Write(data)
	return err
}

/////////////////////////////////////////////////////////////////////
// HTTP status responses
/////////////////////////////////////////////////////////////////////

func (res *Response) NotModified() {
	res.SetStatus(http.StatusNotModified)
}

func (res *Response) NotFound() {
	res.Error(http.StatusNotFound)
}

/////////////////////////////////////////////////////////////////////
// Error responses
/////////////////////////////////////////////////////////////////////

func (res *Response) Unauthorized(reasons ...string) {
	res.Error(http.StatusUnauthorized, reasons...)
}

func (res *Response) InternalServerError(reasons ...string) {
	res.Error(http.StatusInternalServerError, reasons...)
}

func (res *Response) BadRequest(reasons ...string) {
	res.Error(http.StatusBadRequest, reasons...)
}

func (res *Response) Forbidden(reasons ...string) {
	res.Error(http.StatusForbidden, reasons...)
}

// MethodNotAllowed sets Allow from methods and writes a 405.
func (res *Response) MethodNotAllowed(methods []string) {
	if len(methods) > 0 {
		res.SetHeader("Allow", strings.Join(methods, ", "))
	}
	res.Error(http.StatusMethodNotAllowed)
}
