package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gridmart/martpilot/internal/domain"
)

//go:embed sample_data.json
var sampleData []byte

type seedFile struct {
	Aisles []struct {
		Name    string `json:"name"`
		Section string `json:"section"`
		Row     int    `json:"row"`
		Col     int    `json:"col"`
	} `json:"aisles"`
	Products []struct {
		Name     string   `json:"name"`
		Brand    string   `json:"brand"`
		Category string   `json:"category"`
		Variants []string `json:"variants"`
		Price    float64  `json:"price"`
		Quantity string   `json:"quantity"`
		Aisle    string   `json:"aisle"`
		Shelf    int      `json:"shelf"`
		Keywords string   `json:"keywords"`
	} `json:"products"`
}

// SeedReport summarizes what Seed wrote.
type SeedReport struct {
	Aisles   int  `json:"aisles"`
	Products int  `json:"products"`
	Skipped  bool `json:"skipped"`
}

// Seed loads the bundled sample catalog. A store that already has products
// is left untouched; aisles present under the same name are reused.
func (s *Service) Seed(ctx context.Context) (SeedReport, error) {
	count, err := s.repo.CountProducts(ctx)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed: %w", err)
	}
	if count > 0 {
		return SeedReport{Skipped: true}, nil
	}

	var data seedFile
	if err := json.Unmarshal(sampleData, &data); err != nil {
		return SeedReport{}, fmt.Errorf("seed: parse sample data: %w", err)
	}

	existing, err := s.repo.ListAisles(ctx)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed: %w", err)
	}
	aisleIDs := make(map[string]string, len(existing))
	for _, a := range existing {
		aisleIDs[a.Name] = a.ID
	}

	var report SeedReport
	for _, a := range data.Aisles {
		if _, ok := aisleIDs[a.Name]; ok {
			continue
		}
		created, err := s.CreateAisle(ctx, domain.Aisle{
			Name: a.Name, Section: a.Section, Row: a.Row, Col: a.Col,
		})
		if err != nil {
			return report, fmt.Errorf("seed aisle %s: %w", a.Name, err)
		}
		aisleIDs[a.Name] = created.ID
		report.Aisles++
	}

	// Products are validated up front, then written in one pipelined
	// batch. The aisle references all come from aisleIDs, so the
	// per-product existence check of CreateProduct is unnecessary.
	products := make([]domain.Product, 0, len(data.Products))
	for _, p := range data.Products {
		prod := domain.Product{
			ID:       uuid.NewString(),
			Name:     p.Name,
			Brand:    p.Brand,
			Category: p.Category,
			Variants: p.Variants,
			Price:    p.Price,
			Quantity: p.Quantity,
			AisleID:  aisleIDs[p.Aisle],
			Shelf:    p.Shelf,
			Keywords: p.Keywords,
		}
		if prod.Shelf == 0 {
			prod.Shelf = 1
		}
		if err := prod.Validate(); err != nil {
			return report, fmt.Errorf("seed product %s: %w", p.Name, err)
		}
		products = append(products, prod)
	}
	if err := s.repo.SaveProducts(ctx, products); err != nil {
		return report, fmt.Errorf("seed products: %w", err)
	}
	report.Products = len(products)
	return report, nil
}
