// Package classify maps a free-text description to the catalog service it most likely asks for.
package classify

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/docsynth/internal/catalog"
	"github.com/jonathan/docsynth/internal/textnorm"
	"github.com/jonathan/docsynth/internal/types"
)

// Score is the keyword hit count of one category
type Score struct {
	Category types.ServiceCategory `json:"category"`
	Hits     int                   `json:"hits"`
}

type keywordSet struct {
	category types.ServiceCategory
	phrases  [][]string
}

// Classifier scores text against the keyword sets of a catalog
type Classifier struct {
	sets     []keywordSet
	fallback types.ServiceCategory
}

// New builds a Classifier from the catalog's services, preserving declaration order
func New(cat *catalog.Catalog) *Classifier {
	c := &Classifier{fallback: cat.DefaultCategory()}
	for _, svc := range cat.Services() {
		set := keywordSet{category: svc.Category}
		for _, kw := range svc.Keywords {
			if phrase := textnorm.Tokens(kw); len(phrase) > 0 {
				set.phrases = append(set.phrases, phrase)
			}
		}
		c.sets = append(c.sets, set)
	}
	return c
}

// Scores returns the hit count for every category in catalog order
func (c *Classifier) Scores(text string) []Score {
	tokens := textnorm.Tokens(text)
	scores := make([]Score, 0, len(c.sets))
	for _, set := range c.sets {
		hits := 0
		for _, phrase := range set.phrases {
			hits += textnorm.CountPhrase(tokens, phrase)
		}
		scores = append(scores, Score{Category: set.category, Hits: hits})
	}
	return scores
}

// Classify returns the highest-scoring category. Ties go to the category declared first;
// when nothing matches the catalog default is returned.
func (c *Classifier) Classify(text string) types.ServiceCategory {
	best := Score{Category: c.fallback}
	for _, s := range c.Scores(text) {
		if s.Hits > best.Hits {
			best = s
		}
	}
	if best.Hits == 0 {
		log.Printf("[classify] classification default: no keywords matched %q, using %s", preview(text), c.fallback)
	}
	return best.Category
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) > 60 {
		return string([]rune(text)[:57]) + "..."
	}
	return text
}
