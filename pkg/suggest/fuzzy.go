package suggest

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/log"
	"github.com/placeserve/placeserve/pkg/gazetteer"
)

// maxCorrectionDistance caps the edit distance for typo correction; anything
// further is a different query, not a typo.
const maxCorrectionDistance = 2

// minCorrectionRunes keeps very short queries out of correction, where edit
// distance 2 would reach almost everything.
const minCorrectionRunes = 3

// SuggestCorrected runs the normal pipeline first and, only when it comes up
// empty, retries with the closest indexed name prefix within edit distance 2.
// It returns the suggestions, the corrected query, and whether a correction
// was applied. The scoring contract is untouched: corrected results are
// scored against the corrected prefix.
func (s *Suggester) SuggestCorrected(query string, point *Point, maxResults int) ([]Suggestion, string, bool) {
	if out := s.Suggest(query, point, maxResults); len(out) > 0 {
		return out, "", false
	}
	if maxResults <= 0 {
		return nil, "", false
	}

	norm := gazetteer.Normalize(query)
	if utf8.RuneCountInString(norm) < minCorrectionRunes {
		return nil, "", false
	}

	corrected := s.correct(norm)
	if corrected == "" || corrected == norm {
		return nil, "", false
	}
	log.Debugf("Query %q corrected to %q", norm, corrected)

	out := s.Suggest(corrected, point, maxResults)
	if len(out) == 0 {
		return nil, "", false
	}
	return out, corrected, true
}

// correct scans the indexed name forms for the prefix closest to the query.
// Preference order: smaller edit distance, then higher population, then
// lexical, which keeps the scan deterministic.
func (s *Suggester) correct(normQuery string) string {
	queryRunes := []rune(normQuery)

	best := ""
	bestDist := maxCorrectionDistance + 1
	bestPop := int64(-1)

	s.gz.VisitForms(func(form string, population int64) {
		formRunes := []rune(form)
		cut := len(queryRunes)
		if cut > len(formRunes) {
			cut = len(formRunes)
		}
		prefix := string(formRunes[:cut])

		dist := levenshtein.ComputeDistance(normQuery, prefix)
		if dist > maxCorrectionDistance {
			return
		}
		if dist < bestDist ||
			(dist == bestDist && population > bestPop) ||
			(dist == bestDist && population == bestPop && prefix < best) {
			best, bestDist, bestPop = prefix, dist, population
		}
	})
	return best
}
