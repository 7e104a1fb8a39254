package match

import (
	"strings"

	"crmimport/schema"
)

// AutoMap proposes a best-effort mapping from field key to raw header. Fields
// are processed in the supplied order, so callers should put required fields
// first to give them priority when scores tie. Each header is consumed by at
// most one field and each field takes at most one header, so the result is a
// bijection over the assigned subset.
//
// Per field, three passes against the headers not yet consumed:
//  1. direct: normalized header equals the normalized label or key
//  2. substring: containment either direction between the normalized forms
//  3. fuzzy: highest FieldScore, accepted only at MinConfidence or above
//
// Ties resolve to the first header in column order. Headers whose normalized
// form is empty are never assigned.
func (m *Matcher) AutoMap(headers []string, fields []schema.Field) map[string]string {
	used := make(map[string]bool, len(headers))
	mapped := make(map[string]string, len(fields))

	for _, field := range fields {
		header, found := m.matchField(field, headers, used)
		if !found {
			continue
		}
		mapped[field.Key] = header
		used[header] = true
	}

	return mapped
}

func (m *Matcher) matchField(field schema.Field, headers []string, used map[string]bool) (string, bool) {
	label := Normalize(field.Label)
	key := Normalize(field.Key)

	for _, header := range headers {
		if used[header] {
			continue
		}
		normalized := Normalize(header)
		if normalized == "" {
			continue
		}
		if normalized == label || normalized == key {
			return header, true
		}
	}

	for _, header := range headers {
		if used[header] {
			continue
		}
		normalized := Normalize(header)
		if normalized == "" {
			continue
		}
		if containsEither(normalized, label) || containsEither(normalized, key) {
			return header, true
		}
	}

	best := ""
	bestScore := 0.0
	for _, header := range headers {
		if used[header] {
			continue
		}
		if Normalize(header) == "" {
			continue
		}
		if score := m.FieldScore(field, header); score > bestScore {
			best = header
			bestScore = score
		}
	}
	if bestScore >= MinConfidence {
		return best, true
	}

	return "", false
}

func containsEither(left, right string) bool {
	if left == "" || right == "" {
		return false
	}
	return strings.Contains(left, right) || strings.Contains(right, left)
}
