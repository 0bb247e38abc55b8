package assistant

import (
	"fmt"
	"math/rand/v2"

	"github.com/gridmart/martpilot/internal/domain"
)

// Canned phrasings for the deterministic tier. One is picked at random
// so repeated misses don't read like a broken record.
var (
	noMatchReplies = []string{
		"I couldn't find that in our store. Try a different search term or category (e.g., 'snacks', 'dairy', 'personal care').",
		"No exact match. Try broader terms like the product category or brand name.",
		"Sorry, that doesn't seem to be in stock. Can you describe it differently?",
	}
	greetingReplies = []string{
		"Hi! Type what you're looking for, like 'milk', 'shampoo', or 'something for a cold', and I'll find it.",
		"I'm here to help you find products. What do you need today?",
		"Welcome! Just tell me what you're looking for.",
	}
)

func pickRandom(n int) int { return rand.IntN(n) }

// fallbackReply is the deterministic tier: a location line for the top
// hit plus walking directions when available.
func (s *Service) fallbackReply(results []domain.SearchResult, directions *domain.DirectionResult) string {
	if len(results) == 0 {
		return noMatchReplies[s.pick(len(noMatchReplies))]
	}

	top := results[0].Product
	var text string
	if top.Located() {
		text = fmt.Sprintf("Found %s at Aisle %s, Shelf %d.", top.Name, top.AisleName, top.Shelf)
	} else {
		text = fmt.Sprintf("We have %s in stock, but it hasn't been placed on the store map yet.", top.Name)
	}

	if directions != nil && directions.Found {
		text += "\n\n" + directions.Directions
	}
	return text
}

func (s *Service) greeting() string {
	return greetingReplies[s.pick(len(greetingReplies))]
}
