package typegraph

// Minimum similarity accepted by FindSimilar, as the fraction 3/5.
const (
	similarityNum = 3
	similarityDen = 5
)

// levenshtein computes the edit distance between a and b over runes,
// keeping only two rows of the table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Similarity returns 1 - distance/max(len(a), len(b)); 1 for two empty strings.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// similarEnough checks the threshold in integers: 1 - d/L >= 3/5.
func similarEnough(distance, longest int) bool {
	return longest > 0 && similarityDen*(longest-distance) >= similarityNum*longest
}

// Nearest returns the candidate closest to name that passes the similarity
// threshold. Equal distances go to the lexicographically smallest candidate.
func Nearest(name string, candidates []string) (string, bool) {
	target := []rune(name)
	best, bestDist := "", 0
	for _, c := range candidates {
		rc := []rune(c)
		d := levenshtein(target, rc)
		if !similarEnough(d, max(len(target), len(rc))) {
			continue
		}
		if best == "" || d < bestDist || d == bestDist && c < best {
			best, bestDist = c, d
		}
	}
	return best, best != ""
}
