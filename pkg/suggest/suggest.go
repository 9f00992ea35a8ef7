// Package suggest is the core pipeline: it matches a free-text query against
// the gazetteer, ranks the candidates, and emits the scored top-K suggestions.
package suggest

import (
	"math"
	"sort"
	"unicode/utf8"

	"github.com/placeserve/placeserve/pkg/gazetteer"
)

// Point is a geographic position supplied alongside a query to bias ranking.
type Point struct {
	Latitude  float64
	Longitude float64
}

// Suggestion is the externally visible result shape. Score is in [0,1],
// rounded to two decimals, and coordinates come straight from the catalog.
type Suggestion struct {
	Name      string
	Latitude  float64
	Longitude float64
	Score     float64
}

// Candidate pairs a place with match metadata for one query. It only lives
// for the duration of a single Suggest call.
type Candidate struct {
	ID         int
	Place      gazetteer.Place
	MatchedLen int
	FormLen    int

	distKm float64 // filled in by distance-mode ranking
}

// Suggester runs queries against one immutable Gazetteer. Safe for
// concurrent use; it holds no mutable state.
type Suggester struct {
	gz *gazetteer.Gazetteer
}

// New returns a Suggester over the given gazetteer.
func New(gz *gazetteer.Gazetteer) *Suggester {
	return &Suggester{gz: gz}
}

// Suggest is the single pipeline operation: normalize the query, collect
// candidates, rank them (distance mode when a usable point is given,
// population mode otherwise), truncate to maxResults and score what is left.
//
// An empty or unmatched query yields an empty result, never an error; the
// host maps that to its not-found outcome. maxResults of zero is legal and
// always yields an empty result.
func (s *Suggester) Suggest(query string, point *Point, maxResults int) []Suggestion {
	if maxResults <= 0 {
		return nil
	}
	norm := gazetteer.Normalize(query)
	if norm == "" {
		return nil
	}

	cands := s.match(norm)
	if len(cands) == 0 {
		return nil
	}

	mode := ByPopulation()
	if point != nil && isFinite(point.Latitude) && isFinite(point.Longitude) {
		mode = ByDistance(point.Latitude, point.Longitude)
	}
	rank(cands, mode)

	if len(cands) > maxResults {
		cands = cands[:maxResults]
	}

	suggestions := make([]Suggestion, len(cands))
	for i, c := range cands {
		suggestions[i] = Suggestion{
			Name:      c.Place.Name,
			Latitude:  c.Place.Latitude,
			Longitude: c.Place.Longitude,
			Score:     roundScore(matchScore(c.MatchedLen, c.FormLen)),
		}
	}
	return suggestions
}

// match collects one candidate per record reachable from the normalized
// query. A record hit through its primary name always scores against the
// primary name's length; only when the query reached it exclusively through
// aliases does the shortest matched alias decide. Output is in catalog order
// so that later stable sorts are deterministic.
func (s *Suggester) match(normQuery string) []Candidate {
	matches := s.gz.Lookup(normQuery)
	if len(matches) == 0 {
		return nil
	}

	best := make(map[int]gazetteer.Match, len(matches))
	for _, m := range matches {
		cur, ok := best[m.ID]
		if !ok || (m.Primary && !cur.Primary) ||
			(m.Primary == cur.Primary && m.FormLen < cur.FormLen) {
			best[m.ID] = m
		}
	}

	queryLen := utf8.RuneCountInString(normQuery)
	cands := make([]Candidate, 0, len(best))
	for id, m := range best {
		cands = append(cands, Candidate{
			ID:         id,
			Place:      s.gz.Place(id),
			MatchedLen: queryLen,
			FormLen:    m.FormLen,
		})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].ID < cands[j].ID })
	return cands
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
