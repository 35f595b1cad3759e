package search

// levenshteinThreshold computes the edit distance between a and b with an
// early exit: it returns threshold+1 as soon as the distance cannot be
// within threshold. Single-row algorithm, O(min(n,m)) space.
func levenshteinThreshold(a, b string, threshold int) int {
	lenDiff := len(a) - len(b)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return threshold + 1
	}

	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	// Keep a as the shorter string for space efficiency.
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr := make([]int, len(a)+1)
		curr[0] = i
		minInRow := curr[0]

		for j := 1; j <= len(a); j++ {
			cost := 1
			if b[i-1] == a[j-1] {
				cost = 0
			}

			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)

			if curr[j] < minInRow {
				minInRow = curr[j]
			}
		}

		if minInRow > threshold {
			return threshold + 1
		}
		prev = curr
	}

	if prev[len(a)] > threshold {
		return threshold + 1
	}
	return prev[len(a)]
}
