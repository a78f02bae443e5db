package textmatch

import "strings"

// DefaultThreshold is the minimum similarity FuzzyMatch accepts when the
// caller has no category-specific threshold.
const DefaultThreshold = 0.6

// Category thresholds. Status names are long, so a few edits matter less.
const (
	MeetingThreshold = 0.7
	RoleThreshold    = 0.7
	StatusThreshold  = 0.65
)

// Match is the best candidate found by FuzzyMatch.
type Match struct {
	Term  string
	Score float64
}

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

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

// Similarity scores a and b in [0,1] as 1 - distance/maxLen, ignoring case.
// Two empty strings score 1.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	maxLen := max(len([]rune(a)), len([]rune(b)))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

// FuzzyMatch returns the candidate most similar to input, provided it
// scores at least threshold. A later candidate must score strictly higher
// to replace an earlier one, so candidate order breaks ties.
func FuzzyMatch(input string, candidates []string, threshold float64) (Match, bool) {
	var best Match
	found := false
	for _, c := range candidates {
		score := Similarity(input, c)
		if score < threshold || (found && score <= best.Score) {
			continue
		}
		best = Match{Term: c, Score: score}
		found = true
	}
	return best, found
}
