package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gridmart/martpilot/internal/domain"
)

// Service handles product and aisle CRUD on top of the catalog repository.
// Validation lives here; the repository is plain storage.
type Service struct {
	repo     Repository
	settings Settings
}

// New creates a catalog service.
func New(repo Repository, settings Settings) *Service {
	return &Service{repo: repo, settings: settings}
}

// CreateProduct validates and stores a new product. A zero shelf defaults
// to 1; an aisle reference must point at an existing aisle.
func (s *Service) CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	p.ID = uuid.NewString()
	if p.Shelf == 0 {
		p.Shelf = 1
	}
	if err := s.validateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}
	return s.GetProduct(ctx, p.ID)
}

// UpdateProduct replaces an existing product's fields.
func (s *Service) UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error) {
	exists, err := s.repo.ProductExists(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	if !exists {
		return domain.Product{}, domain.ErrProductNotFound
	}

	p.ID = id
	if p.Shelf == 0 {
		p.Shelf = 1
	}
	if err := s.validateProduct(ctx, p); err != nil {
		return domain.Product{}, err
	}
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return domain.Product{}, fmt.Errorf("update product: %w", err)
	}
	return s.GetProduct(ctx, id)
}

// GetProduct returns a product joined with its aisle.
func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// ListProducts returns the full catalog, optionally filtered by a plain
// substring query across name, brand, category, and keywords.
func (s *Service) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.repo.FilterProducts(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Categories returns the distinct product categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// CreateAisle validates and stores a new aisle. Names are unique
// case-insensitively and two aisles may not share a grid cell.
func (s *Service) CreateAisle(ctx context.Context, a domain.Aisle) (domain.Aisle, error) {
	a.ID = uuid.NewString()
	if err := s.validateAisle(ctx, a); err != nil {
		return domain.Aisle{}, err
	}
	if err := s.repo.SaveAisle(ctx, a); err != nil {
		return domain.Aisle{}, fmt.Errorf("create aisle: %w", err)
	}
	return a, nil
}

// UpdateAisle replaces an existing aisle's fields.
func (s *Service) UpdateAisle(ctx context.Context, id string, a domain.Aisle) (domain.Aisle, error) {
	if _, err := s.repo.GetAisle(ctx, id); err != nil {
		return domain.Aisle{}, fmt.Errorf("update aisle: %w", err)
	}

	a.ID = id
	if err := s.validateAisle(ctx, a); err != nil {
		return domain.Aisle{}, err
	}
	if err := s.repo.SaveAisle(ctx, a); err != nil {
		return domain.Aisle{}, fmt.Errorf("update aisle: %w", err)
	}
	return a, nil
}

// GetAisle returns an aisle by ID.
func (s *Service) GetAisle(ctx context.Context, id string) (domain.Aisle, error) {
	a, err := s.repo.GetAisle(ctx, id)
	if err != nil {
		return domain.Aisle{}, fmt.Errorf("get aisle: %w", err)
	}
	return a, nil
}

// DeleteAisle removes an aisle. Products referencing it become unlocated.
func (s *Service) DeleteAisle(ctx context.Context, id string) error {
	if err := s.repo.DeleteAisle(ctx, id); err != nil {
		return fmt.Errorf("delete aisle: %w", err)
	}
	return nil
}

// ListAisles returns every aisle ordered by name.
func (s *Service) ListAisles(ctx context.Context) ([]domain.Aisle, error) {
	aisles, err := s.repo.ListAisles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list aisles: %w", err)
	}
	return aisles, nil
}

// Snapshot is a full export of the store: configuration, aisles, and the
// joined product catalog.
type Snapshot struct {
	Config   map[string]string `json:"config"`
	Aisles   []domain.Aisle    `json:"aisles"`
	Products []domain.Product  `json:"products"`
}

// Export assembles a snapshot of everything an admin can restore from.
func (s *Service) Export(ctx context.Context) (Snapshot, error) {
	cfg, err := s.settings.All(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export config: %w", err)
	}
	aisles, err := s.repo.ListAisles(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export aisles: %w", err)
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("export products: %w", err)
	}
	return Snapshot{Config: cfg, Aisles: aisles, Products: products}, nil
}

// Stats summarizes the catalog for the admin dashboard.
type Stats struct {
	Products   int      `json:"products"`
	Aisles     int      `json:"aisles"`
	Categories []string `json:"categories"`
}

// Stats returns product and aisle counts plus the category list.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count products: %w", err)
	}
	aisles, err := s.repo.CountAisles(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count aisles: %w", err)
	}
	cats, err := s.repo.Categories(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list categories: %w", err)
	}
	return Stats{Products: products, Aisles: aisles, Categories: cats}, nil
}

func (s *Service) validateProduct(ctx context.Context, p domain.Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.AisleID != "" {
		if _, err := s.repo.GetAisle(ctx, p.AisleID); err != nil {
			return fmt.Errorf("product aisle: %w", err)
		}
	}
	return nil
}

func (s *Service) validateAisle(ctx context.Context, a domain.Aisle) error {
	layout, err := s.settings.Layout(ctx)
	if err != nil {
		return fmt.Errorf("store layout: %w", err)
	}
	if err := a.Validate(layout.Rows, layout.Cols); err != nil {
		return err
	}

	existing, err := s.repo.ListAisles(ctx)
	if err != nil {
		return fmt.Errorf("list aisles: %w", err)
	}
	for _, other := range existing {
		if other.ID == a.ID {
			continue
		}
		if strings.EqualFold(other.Name, a.Name) {
			return domain.ErrAisleExists
		}
		if other.Row == a.Row && other.Col == a.Col {
			return domain.ErrCellOccupied
		}
	}
	return nil
}
