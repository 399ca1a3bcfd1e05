// Package editdistance computes Levenshtein distances between strings.
package editdistance

// Distance returns the minimum number of single-rune insertions, deletions
// and substitutions needed to turn a into b. Comparison is case-sensitive.
func Distance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	// Two rows of the DP matrix are enough.
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Within reports whether a and b are at most max edits apart.
func Within(a, b string, max int) bool {
	if max < 0 {
		return false
	}
	return Distance(a, b) <= max
}
