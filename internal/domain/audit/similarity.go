package audit

// similarityRatio measures how alike two strings are as
// 2*LCS(a,b) / (len(a)+len(b)) over runes, in [0, 1]. Two empty strings are
// not considered similar; absent text carries no signal.
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	// Two-row dynamic program keeps memory linear in the shorter string.
	if len(rb) < len(ra) {
		ra, rb = rb, ra
	}
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for j := 1; j <= len(rb); j++ {
		for i := 1; i <= len(ra); i++ {
			if ra[i-1] == rb[j-1] {
				curr[i] = prev[i-1] + 1
			} else if prev[i] >= curr[i-1] {
				curr[i] = prev[i]
			} else {
				curr[i] = curr[i-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(ra)]
	return 2 * float64(lcs) / float64(len(ra)+len(rb))
}
