package catalog

import (
	"context"

	"github.com/gridmart/martpilot/internal/domain"
)

// Repository is the storage surface for products and aisles.
type Repository interface {
	SaveProduct(ctx context.Context, p domain.Product) error
	SaveProducts(ctx context.Context, products []domain.Product) error
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ProductExists(ctx context.Context, id string) (bool, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	FilterProducts(ctx context.Context, query string) ([]domain.Product, error)
	CountProducts(ctx context.Context) (int, error)
	Categories(ctx context.Context) ([]string, error)

	SaveAisle(ctx context.Context, a domain.Aisle) error
	GetAisle(ctx context.Context, id string) (domain.Aisle, error)
	DeleteAisle(ctx context.Context, id string) error
	ListAisles(ctx context.Context) ([]domain.Aisle, error)
	CountAisles(ctx context.Context) (int, error)
}

// Settings exposes the store layout used to bounds-check aisle placement.
type Settings interface {
	Layout(ctx context.Context) (domain.StoreLayout, error)
	All(ctx context.Context) (map[string]string, error)
}
