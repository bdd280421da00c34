package match

import "strings"

// Score computes a bounded similarity between two strings: twice the total
// length of matched non-overlapping character runs over the combined length,
// in [0,1]. Inputs are trimmed and case-folded first. Long shared substrings
// weigh more than scattered single-character overlaps, which is what makes
// "Chocolate Cake" and "Chocolate Cake Recipe" score high while staying well
// away from unrelated titles.
func Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))

	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1.0
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	matched := matchedRunLength(ra, rb)
	return 2 * float64(matched) / float64(len(ra)+len(rb))
}

// matchedRunLength sums the longest common run and, recursively, the best
// runs in the unmatched pieces on either side of it.
func matchedRunLength(a, b []rune) int {
	ai, bi, size := longestCommonRun(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchedRunLength(a[:ai], b[:bi]) +
		matchedRunLength(a[ai+size:], b[bi+size:])
}

// longestCommonRun finds the longest contiguous run shared by a and b,
// returning its start in each and its length.
func longestCommonRun(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)

	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				cur[j+1] = 0
				continue
			}
			cur[j+1] = prev[j] + 1
			if cur[j+1] > size {
				size = cur[j+1]
				ai = i - size + 1
				bi = j - size + 1
			}
		}
		prev, cur = cur, prev
	}

	return ai, bi, size
}
