package match

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw column header for comparison: lower-case,
// non-breaking spaces become ordinary spaces, every run of non-alphanumeric
// characters collapses to a single space, surrounding whitespace is trimmed.
// Two headers that normalize to the same string are treated as identical.
func Normalize(raw string) string {
	lowered := strings.ToLower(strings.ReplaceAll(raw, "\u00a0", " "))

	var builder strings.Builder
	builder.Grow(len(lowered))
	inSeparator := false
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if inSeparator && builder.Len() > 0 {
				builder.WriteByte(' ')
			}
			inSeparator = false
			builder.WriteRune(r)
			continue
		}
		inSeparator = true
	}

	return builder.String()
}

func tokens(normalized string) []string {
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
