package pathmatch

import (
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"
)

// DecodeError reports a captured value with a malformed percent escape.
// It classifies as a 400 through errutil.StatusOf.
type DecodeError struct {
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	return "Failed to decode param '" + e.Value + "'"
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Status() int { return http.StatusBadRequest }

// Decode percent-decodes a captured value. "+" is left alone and the
// result must be valid UTF-8.
func Decode(val string) (string, error) {
	if val == "" || !strings.Contains(val, "%") {
		return val, nil
	}
	out, err := url.PathUnescape(val)
	if err != nil {
		return "", &DecodeError{Value: val, Err: err}
	}
	if utf8.ValidString(val) && !utf8.ValidString(out) {
		return "", &DecodeError{Value: val, Err: errInvalidUTF8}
	}
	return out, nil
}

type decodeErr string

func (e decodeErr) Error() string { return string(e) }

const errInvalidUTF8 = decodeErr("decoded value is not valid UTF-8")
