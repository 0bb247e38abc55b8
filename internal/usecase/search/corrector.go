package search

import (
	_ "embed"
	"strings"
	"sync"

	sajari "github.com/sajari/fuzzy"

	"github.com/gridmart/martpilot/internal/domain"
)

// generalWords is a compact general-language word list. Tokens found here
// are never spell-corrected, no matter what the product vocabulary says.
//
//go:embed words.txt
var generalWords string

var (
	generalSetOnce sync.Once
	generalSet     map[string]struct{}
)

func loadGeneralSet() map[string]struct{} {
	generalSetOnce.Do(func() {
		words := strings.Fields(generalWords)
		generalSet = make(map[string]struct{}, len(words))
		for _, w := range words {
			generalSet[strings.ToLower(w)] = struct{}{}
		}
	})
	return generalSet
}

// corrector fixes misspelled query tokens against the union of the general
// word list and the catalog vocabulary. A token is corrected only when it
// is unknown to BOTH sets, so brand names and category jargon that a
// standard dictionary lacks are left untouched.
type corrector struct {
	model   *sajari.Model
	general map[string]struct{}
	vocab   map[string]struct{}
}

// newCorrector builds a corrector for one catalog snapshot.
func newCorrector(products []domain.Product) *corrector {
	c := &corrector{
		model:   sajari.NewModel(),
		general: loadGeneralSet(),
		vocab:   make(map[string]struct{}),
	}
	c.model.SetThreshold(1)
	c.model.SetDepth(2)

	for w := range c.general {
		c.model.TrainWord(w)
	}
	for _, p := range products {
		for _, w := range p.VocabularyWords() {
			// Keyword tags may be multi-word phrases; index each word.
			for _, part := range strings.Fields(w) {
				c.vocab[part] = struct{}{}
				c.model.TrainWord(part)
			}
		}
	}
	return c
}

// Correct returns the query with unknown tokens replaced by their nearest
// dictionary word. Known tokens pass through unchanged.
func (c *corrector) Correct(query string) string {
	words := strings.Fields(strings.ToLower(query))
	corrected := make([]string, len(words))
	for i, w := range words {
		if c.known(w) {
			corrected[i] = w
			continue
		}
		if fix := c.model.SpellCheck(w); fix != "" {
			corrected[i] = fix
		} else {
			corrected[i] = w
		}
	}
	return strings.Join(corrected, " ")
}

func (c *corrector) known(w string) bool {
	if _, ok := c.general[w]; ok {
		return true
	}
	_, ok := c.vocab[w]
	return ok
}
