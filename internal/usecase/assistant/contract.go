package assistant

import (
	"context"

	"github.com/gridmart/martpilot/internal/domain"
)

// Searcher ranks catalog products for a query. topN <= 0 means the
// searcher's configured default.
type Searcher interface {
	Rank(ctx context.Context, query string, topN int) ([]domain.SearchResult, error)
}

// Navigator produces walking directions to a named aisle.
type Navigator interface {
	Directions(ctx context.Context, aisleName string) (domain.DirectionResult, error)
}

// Settings exposes the store layout; the store name personalizes replies.
type Settings interface {
	Layout(ctx context.Context) (domain.StoreLayout, error)
}
