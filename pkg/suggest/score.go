package suggest

import "math"

// matchScore is the confidence for how much of a name the query covers: a
// full-name match is 1.0, a prefix of length L against a name of length N is
// L/N. Clamped to [0,1]. Ranking never feeds into this value.
func matchScore(matchedLen, formLen int) float64 {
	if formLen <= 0 {
		return 0
	}
	s := float64(matchedLen) / float64(formLen)
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// roundScore fixes scores to two decimals for display stability.
func roundScore(s float64) float64 {
	return math.Round(s*100) / 100
}
