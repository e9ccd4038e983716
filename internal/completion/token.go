package completion

import (
	"strings"
)

// tokenBreakers are the filter-language characters that terminate a
// completable token when scanning left from the cursor. Brackets and quotes
// are intentionally absent: they can appear inside a quoted path segment such
// as `.["some key"]`.
const tokenBreakers = "|(),;: \t\n"

// Token is the portion of the input eligible for completion, together with
// its start offset in the input.
type Token struct {
	Value string
	Start int
}

// tokenAt extracts the token ending at the cursor position. It returns
// ok=false when the cursor is not positioned within a completable token:
// outside the input bounds, inside a free-standing string literal, or right
// after a token breaker with nothing typed yet.
func tokenAt(input string, cursor int) (Token, bool) {
	if cursor < 0 || cursor > len(input) {
		return Token{}, false
	}

	start := cursor
	for start > 0 && !strings.ContainsRune(tokenBreakers, rune(input[start-1])) {
		start--
	}

	value := input[start:cursor]
	if value == "" {
		return Token{}, false
	}

	// A token that opens a quote without a leading dot is a string literal
	// under construction ("abc), not a path; offer nothing there. Quoted
	// bracket segments (.["abc) keep their leading dot and stay completable.
	if !strings.HasPrefix(value, ".") && strings.Count(value, `"`)%2 == 1 {
		return Token{}, false
	}

	return Token{Value: value, Start: start}, true
}

// isPathToken reports whether a token is a document access path prefix
// (starts with '.') as opposed to a bare function name.
func isPathToken(t Token) bool {
	return strings.HasPrefix(t.Value, ".")
}

// isFunctionToken reports whether a token could be the start of a builtin
// function name: a bare identifier with no path or literal syntax in it.
func isFunctionToken(t Token) bool {
	for _, ch := range t.Value {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch == '_':
		case ch >= '0' && ch <= '9':
		default:
			return false
		}
	}
	return t.Value != ""
}
