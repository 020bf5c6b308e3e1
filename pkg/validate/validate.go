// Package validate decodes request input into structs and checks it
// with go-playground/validator. Validation failures carry a 400 status
// so the dispatcher's final handler renders them as bad requests.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sjc5/routekit/pkg/dispatch"
	"github.com/sjc5/routekit/pkg/errutil"
)

// Validate is a wrapper around the go-playground/validator package.
type Validate struct {
	Instance *validator.Validate
}

func New() *Validate {
	return &Validate{Instance: validator.New(validator.WithRequiredStructEnabled())}
}

const ValidationErrorPrefix = "validation error: "

type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return ValidationErrorPrefix + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }
func (e *ValidationError) Status() int   { return http.StatusBadRequest }

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (v *Validate) check(dest any) error {
	if err := v.Instance.Struct(dest); err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

func decodeFailure(what string, err error) error {
	return errutil.WithStatus(errutil.Maybe("error decoding "+what, err), http.StatusBadRequest)
}

// JSONBodyInto decodes the JSON body of r into dest and validates it.
func (v *Validate) JSONBodyInto(r *http.Request, dest any) error {
	if r.Body == nil {
		return decodeFailure("JSON", io.EOF)
	}
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return decodeFailure("JSON", err)
	}
	return v.check(dest)
}

func (v *Validate) JSONBytesInto(data []byte, dest any) error {
	if err := json.Unmarshal(data, dest); err != nil {
		return decodeFailure("JSON", err)
	}
	return v.check(dest)
}

func (v *Validate) JSONStrInto(data string, dest any) error {
	return v.JSONBytesInto([]byte(data), dest)
}

// URLSearchParamsInto fills dest from the query string of r.
func (v *Validate) URLSearchParamsInto(r *http.Request, dest any) error {
	return v.valuesInto(r.URL.Query(), dest, "URL parameters")
}

// QueryInto fills dest from the query string of the URL being
// dispatched.
func (v *Validate) QueryInto(req *dispatch.Request, dest any) error {
	raw := ""
	if i := strings.IndexByte(req.URL, '?'); i >= 0 {
		raw = req.URL[i+1:]
	}
	values, err := url.ParseQuery(raw)
	if err != nil {
		return decodeFailure("URL parameters", err)
	}
	return v.valuesInto(values, dest, "URL parameters")
}

// ParamsInto fills dest from the route params of req.
func (v *Validate) ParamsInto(req *dispatch.Request, dest any) error {
	values := make(map[string][]string, len(req.Params))
	for k, val := range req.Params {
		values[k] = []string{val}
	}
	return v.valuesInto(values, dest, "route params")
}

func (v *Validate) valuesInto(values map[string][]string, dest any, what string) error {
	if err := decodeValues(values, dest); err != nil {
		return decodeFailure(what, err)
	}
	return v.check(dest)
}

// Param returns a param handler that checks the captured value against
// a validator tag, e.g. "uuid4" or "numeric,min=1".
func (v *Validate) Param(tag string) dispatch.ParamFunc {
	return func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next, value, name string) error {
		if err := v.Instance.Var(value, tag); err != nil {
			return &ValidationError{Err: fmt.Errorf("param %s: %w", name, err)}
		}
		next(dispatch.Continue)
		return nil
	}
}

// Body returns middleware that decodes and validates the JSON body into
// a fresh T, stored under key in the request locals.
func Body[T any](v *Validate, key string) dispatch.HandlerFunc {
	return func(req *dispatch.Request, w http.ResponseWriter, next dispatch.Next) error {
		if req.HTTP == nil {
			return decodeFailure("JSON", errors.New("no HTTP request"))
		}
		dest := new(T)
		if err := v.JSONBodyInto(req.HTTP, dest); err != nil {
			return err
		}
		req.Set(key, dest)
		next(dispatch.Continue)
		return nil
	}
}

// BodyFrom returns the value stored by Body.
func BodyFrom[T any](req *dispatch.Request, key string) (*T, bool) {
	val, ok := req.Get(key)
	if !ok {
		return nil, false
	}
	dest, ok := val.(*T)
	return dest, ok
}
