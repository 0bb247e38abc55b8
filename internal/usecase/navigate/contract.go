package navigate

import (
	"context"

	"github.com/gridmart/martpilot/internal/domain"
)

// Aisles supplies the placed aisles the grid is built from.
type Aisles interface {
	ListAisles(ctx context.Context) ([]domain.Aisle, error)
}

// Settings exposes the store layout (grid size and entrance).
type Settings interface {
	Layout(ctx context.Context) (domain.StoreLayout, error)
}
