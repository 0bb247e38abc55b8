package search

import (
	"context"

	"github.com/gridmart/martpilot/internal/domain"
)

// Catalog supplies the product snapshot ranked by this service.
type Catalog interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
