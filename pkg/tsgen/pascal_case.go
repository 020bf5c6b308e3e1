package tsgen

import (
	"regexp"
	"strings"
	"unicode"
)

var multipleUnderscoresRegex = regexp.MustCompile(`_+`)

// convertToPascalCase turns a route path into an identifier, e.g.
// "/api/user-profile/:id" into "ApiUserProfileId". Inputs starting with
// a digit get a leading underscore.
func convertToPascalCase(input string) string {
	startsWithDigit := len(input) > 0 && unicode.IsDigit(rune(input[0]))

	var builder strings.Builder
	capitalize := true
	var lastChar rune

	for _, r := range input {
		if isIllegalCharacter(r) {
			if lastChar != '_' {
				builder.WriteRune('_')
			}
			capitalize = true
		} else {
			if capitalize {
				builder.WriteRune(unicode.ToUpper(r))
				capitalize = false
			} else {
				builder.WriteRune(r)
			}
		}
		lastChar = r
	}

	result := builder.String()

	result = strings.TrimLeft(result, "_")

	result = multipleUnderscoresRegex.ReplaceAllString(result, "_")

	parts := strings.Split(result, "_")
	for i, part := range parts {
		if part != "" {
			parts[i] = string(unicode.ToUpper(rune(part[0]))) + part[1:]
		}
	}
	result = strings.Join(parts, "")

	if startsWithDigit {
		result = "_" + result
	}

	return result
}

func isIllegalCharacter(r rune) bool {
	return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
}
