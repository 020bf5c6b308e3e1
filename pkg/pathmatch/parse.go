package pathmatch

import (
	"fmt"
	"strings"
)

type tokenKind uint8

const (
	tokenLiteral tokenKind = iota
	tokenParam
	tokenGroup
	tokenWildcard
	tokenRaw
)

const defaultParamPattern = `[^/]+?`

type token struct {
	kind     tokenKind
	value    string // literal text, or the param name
	pattern  string // regex body for params and groups
	modifier byte   // 0, '?', '*' or '+'
	prefixed bool   // owns the "/" written right before it
}

// parse splits a path pattern into literal, param, group and wildcard
// tokens. A "/" directly in front of a param or group is moved into
// that token so optional and repeated captures can drop it together
// with the value.
func parse(pattern string) ([]token, error) {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, value: lit.String()})
			lit.Reset()
		}
	}

	takeSlash := func() bool {
		s := lit.String()
		if !strings.HasSuffix(s, "/") {
			return false
		}
		lit.Reset()
		lit.WriteString(s[:len(s)-1])
		return true
	}

	for i := 0; i < len(pattern); {
		c := pattern[i]

		switch {
		case c == '\\' && i+1 < len(pattern):
			lit.WriteByte(pattern[i+1])
			i += 2

		case c == ':' && i+1 < len(pattern) && isNameChar(pattern[i+1]):
			j := i + 1
			for j < len(pattern) && isNameChar(pattern[j]) {
				j++
			}
			tok := token{kind: tokenParam, value: pattern[i+1 : j], pattern: defaultParamPattern}
			if j < len(pattern) && pattern[j] == '(' {
				body, end, err := readGroup(pattern, j)
				if err != nil {
					return nil, err
				}
				tok.pattern = body
				j = end
			}
			j = readModifier(pattern, j, &tok)
			tok.prefixed = takeSlash()
			flush()
			tokens = append(tokens, tok)
			i = j

		case c == '(':
			body, end, err := readGroup(pattern, i)
			if err != nil {
				return nil, err
			}
			if body[0] == '?' {
				// (?:...) and friends are inlined without a capture
				flush()
				tokens = append(tokens, token{kind: tokenRaw, pattern: "(" + body + ")"})
				i = end
				continue
			}
			tok := token{kind: tokenGroup, pattern: body}
			end = readModifier(pattern, end, &tok)
			tok.prefixed = takeSlash()
			flush()
			tokens = append(tokens, tok)
			i = end

		case c == '*':
			flush()
			tokens = append(tokens, token{kind: tokenWildcard})
			i++

		default:
			lit.WriteByte(c)
			i++
		}
	}

	flush()
	return tokens, nil
}

// readGroup returns the body of the parenthesized group opening at
// pattern[start] and the index just past its closing paren.
func readGroup(pattern string, start int) (string, int, error) {
	depth := 0
	for i := start; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			i++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				body := pattern[start+1 : i]
				if body == "" {
					return "", 0, fmt.Errorf("empty group at offset %d", start)
				}
				return body, i + 1, nil
			}
		}
	}
	return "", 0, fmt.Errorf("unbalanced group at offset %d", start)
}

func readModifier(pattern string, i int, tok *token) int {
	if i < len(pattern) {
		switch pattern[i] {
		case '?', '*', '+':
			tok.modifier = pattern[i]
			return i + 1
		}
	}
	return i
}

func isNameChar(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}
