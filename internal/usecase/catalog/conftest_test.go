package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/gridmart/martpilot/internal/domain"
)

// memRepo is an in-memory Repository for service tests.
type memRepo struct {
	products map[string]domain.Product
	aisles   map[string]domain.Aisle
}

func newMemRepo() *memRepo {
	return &memRepo{
		products: make(map[string]domain.Product),
		aisles:   make(map[string]domain.Aisle),
	}
}

func (m *memRepo) SaveProduct(_ context.Context, p domain.Product) error {
	m.products[p.ID] = p
	return nil
}

func (m *memRepo) SaveProducts(_ context.Context, products []domain.Product) error {
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

func (m *memRepo) GetProduct(_ context.Context, id string) (domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	if a, ok := m.aisles[p.AisleID]; ok {
		p.AisleName = a.Name
		p.Section = a.Section
		p.AisleRow = a.Row
		p.AisleCol = a.Col
	}
	return p, nil
}

func (m *memRepo) DeleteProduct(_ context.Context, id string) error {
	if _, ok := m.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memRepo) ProductExists(_ context.Context, id string) (bool, error) {
	_, ok := m.products[id]
	return ok, nil
}

func (m *memRepo) ListProducts(ctx context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, 0, len(m.products))
	for id := range m.products {
		p, _ := m.GetProduct(ctx, id)
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) FilterProducts(ctx context.Context, query string) ([]domain.Product, error) {
	all, _ := m.ListProducts(ctx)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}
	var out []domain.Product
	for _, p := range all {
		hay := strings.ToLower(p.Name + " " + p.Brand + " " + p.Category + " " + p.Keywords)
		if strings.Contains(hay, q) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) CountProducts(_ context.Context) (int, error) {
	return len(m.products), nil
}

func (m *memRepo) Categories(ctx context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var cats []string
	for _, p := range m.products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			cats = append(cats, p.Category)
		}
	}
	sort.Strings(cats)
	return cats, nil
}

func (m *memRepo) SaveAisle(_ context.Context, a domain.Aisle) error {
	m.aisles[a.ID] = a
	return nil
}

func (m *memRepo) GetAisle(_ context.Context, id string) (domain.Aisle, error) {
	a, ok := m.aisles[id]
	if !ok {
		return domain.Aisle{}, domain.ErrAisleNotFound
	}
	return a, nil
}

func (m *memRepo) DeleteAisle(_ context.Context, id string) error {
	if _, ok := m.aisles[id]; !ok {
		return domain.ErrAisleNotFound
	}
	delete(m.aisles, id)
	return nil
}

func (m *memRepo) ListAisles(_ context.Context) ([]domain.Aisle, error) {
	out := make([]domain.Aisle, 0, len(m.aisles))
	for _, a := range m.aisles {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memRepo) CountAisles(_ context.Context) (int, error) {
	return len(m.aisles), nil
}

// memSettings serves a fixed layout and config map.
type memSettings struct {
	layout domain.StoreLayout
	config map[string]string
}

func newMemSettings() *memSettings {
	return &memSettings{
		layout: domain.StoreLayout{Name: "Test Mart", Rows: 6, Cols: 5},
		config: map[string]string{"store_name": "Test Mart"},
	}
}

func (m *memSettings) Layout(_ context.Context) (domain.StoreLayout, error) {
	return m.layout, nil
}

func (m *memSettings) All(_ context.Context) (map[string]string, error) {
	return m.config, nil
}
