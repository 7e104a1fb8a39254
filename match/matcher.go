package match

import (
	"strings"

	"crmimport/schema"
)

// MinConfidence is the lowest fuzzy score the auto-mapper accepts. Below it a
// field stays unmapped and must be assigned by hand.
const MinConfidence = 0.6

// substringScore rewards containment either direction ("Contact Name" vs
// "Name") above any blended fuzzy score short of an exact match.
const substringScore = 0.92

const (
	jaccardWeight = 0.55
	editWeight    = 0.45
)

// Matcher scores raw headers against expected fields. Scores are cached per
// (expected, candidate) pair for the lifetime of the matcher, which lives as
// long as one mapping session.
type Matcher struct {
	scores map[scoreKey]float64
}

type scoreKey struct {
	expected  string
	candidate string
}

func NewMatcher() *Matcher {
	return &Matcher{scores: make(map[scoreKey]float64, 64)}
}

// Score computes the [0,1] confidence that candidate denotes expected.
// Deterministic and pure with respect to its two inputs.
func (m *Matcher) Score(expected, candidate string) float64 {
	key := scoreKey{expected: expected, candidate: candidate}
	if cached, ok := m.scores[key]; ok {
		return cached
	}

	score := computeScore(expected, candidate)
	m.scores[key] = score
	return score
}

// FieldScore is the confidence that header denotes field, taking the better
// of the label and key comparisons.
func (m *Matcher) FieldScore(field schema.Field, header string) float64 {
	labelScore := m.Score(field.Label, header)
	keyScore := m.Score(field.Key, header)
	if keyScore > labelScore {
		return keyScore
	}
	return labelScore
}

func computeScore(expected, candidate string) float64 {
	left := Normalize(expected)
	right := Normalize(candidate)
	if left == "" || right == "" {
		return 0
	}
	if left == right {
		return 1
	}
	if strings.Contains(left, right) || strings.Contains(right, left) {
		return substringScore
	}

	return jaccardWeight*tokenJaccard(left, right) + editWeight*editSimilarity(left, right)
}

// tokenJaccard rewards header reordering and extra qualifying words
// ("Email Address" vs "Address, Email").
func tokenJaccard(left, right string) float64 {
	leftTokens := tokens(left)
	rightTokens := tokens(right)

	seen := make(map[string]struct{}, len(leftTokens))
	for _, token := range leftTokens {
		seen[token] = struct{}{}
	}

	union := make(map[string]struct{}, len(leftTokens)+len(rightTokens))
	for _, token := range leftTokens {
		union[token] = struct{}{}
	}
	intersection := 0
	for _, token := range rightTokens {
		if _, ok := union[token]; !ok {
			union[token] = struct{}{}
			continue
		}
		if _, ok := seen[token]; ok {
			intersection++
			delete(seen, token)
		}
	}

	unionSize := len(union)
	if unionSize < 1 {
		unionSize = 1
	}
	return float64(intersection) / float64(unionSize)
}

// editSimilarity rewards typos and abbreviation ("Desc" vs "Description")
// that share no common tokens.
func editSimilarity(left, right string) float64 {
	longest := len([]rune(left))
	if rightLen := len([]rune(right)); rightLen > longest {
		longest = rightLen
	}
	if longest < 1 {
		longest = 1
	}
	return 1 - float64(Levenshtein(left, right))/float64(longest)
}
