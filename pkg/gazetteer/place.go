/*
Package gazetteer holds the immutable place catalog and its name index.

A Gazetteer is built exactly once at startup from a tab-delimited source file
and is read-only afterwards, so any number of query goroutines can share it
without locking. The index is a patricia trie keyed by the normalized primary
name, every normalized alias, and every word-start suffix of those forms, so
that "york" reaches "New York" as well as "York".
*/
package gazetteer

import (
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Place is a single catalog record. Fields are never mutated after load.
type Place struct {
	Name        string
	Aliases     []string
	Latitude    float64
	Longitude   float64
	Population  int64
	CountryCode string
	AdminRegion string
}

// Match pairs a place id with the rune length of the name form the lookup
// reached it through. The length is what the scorer divides by. Primary marks
// forms derived from the record's primary name rather than an alias, which
// the scorer prefers when both were reached.
type Match struct {
	ID      int
	FormLen int
	Primary bool
}

// Gazetteer is the loaded catalog plus its derived lookup index.
type Gazetteer struct {
	places  []Place
	index   *patricia.Trie
	forms   map[string]int64 // normalized name form -> highest population carrying it
	skipped int
}

// Len returns the number of loaded places.
func (g *Gazetteer) Len() int {
	return len(g.places)
}

// Skipped returns how many malformed source rows were dropped during load.
func (g *Gazetteer) Skipped() int {
	return g.skipped
}

// Place returns the record for a given id. The id must come from a Match.
func (g *Gazetteer) Place(id int) Place {
	return g.places[id]
}

// Lookup returns every index entry whose key starts with the given normalized
// prefix. An empty prefix matches nothing. Duplicate ids are possible when a
// record is reachable through several forms; callers collapse them.
func (g *Gazetteer) Lookup(prefix string) []Match {
	if prefix == "" || g.index == nil {
		return nil
	}

	var matches []Match
	err := g.index.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		matches = append(matches, item.([]Match)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting name index subtree: %v", err)
		return nil
	}
	return matches
}

// VisitForms calls fn for every distinct normalized name form in the index
// with the highest population among the records carrying it. Used by the
// fuzzy correction scan.
func (g *Gazetteer) VisitForms(fn func(form string, population int64)) {
	for form, pop := range g.forms {
		fn(form, pop)
	}
}

// buildIndex derives the trie and form table from the loaded places.
func (g *Gazetteer) buildIndex() {
	g.index = patricia.NewTrie()
	g.forms = make(map[string]int64, len(g.places))

	for id := range g.places {
		p := &g.places[id]
		seen := make(map[string]bool, 1+len(p.Aliases))

		indexOne := func(raw string, primary bool) {
			form := Normalize(raw)
			if form == "" || seen[form] {
				return
			}
			seen[form] = true
			if cur, ok := g.forms[form]; !ok || p.Population > cur {
				g.forms[form] = p.Population
			}
			g.indexForm(form, id, primary)
		}

		indexOne(p.Name, true)
		for _, alias := range p.Aliases {
			indexOne(alias, false)
		}
	}
}

// indexForm inserts a normalized form and its word-start suffixes. Suffix
// keys keep the full form's length and primary flag.
func (g *Gazetteer) indexForm(form string, id int, primary bool) {
	m := Match{ID: id, FormLen: runeLen(form), Primary: primary}
	g.insertKey(form, m)

	for i, r := range form {
		if (r == ' ' || r == '-') && i+1 < len(form) {
			g.insertKey(form[i+1:], m)
		}
	}
}

func (g *Gazetteer) insertKey(key string, m Match) {
	prefix := patricia.Prefix(key)
	if item := g.index.Get(prefix); item != nil {
		g.index.Set(prefix, append(item.([]Match), m))
		return
	}
	g.index.Set(prefix, []Match{m})
}
