package match

// Levenshtein computes the edit distance between two strings over runes,
// using a single-row dynamic-programming recurrence: O(n*m) time,
// O(min(n,m)) space.
func Levenshtein(a, b string) int {
	left := []rune(a)
	right := []rune(b)
	if len(right) > len(left) {
		left, right = right, left
	}
	if len(right) == 0 {
		return len(left)
	}

	row := make([]int, len(right)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(left); i++ {
		previous := row[0]
		row[0] = i
		for j := 1; j <= len(right); j++ {
			insertion := row[j-1] + 1
			deletion := row[j] + 1
			substitution := previous
			if left[i-1] != right[j-1] {
				substitution++
			}

			previous = row[j]
			row[j] = minOf(insertion, deletion, substitution)
		}
	}

	return row[len(right)]
}

func minOf(values ...int) int {
	smallest := values[0]
	for _, value := range values[1:] {
		if value < smallest {
			smallest = value
		}
	}
	return smallest
}
