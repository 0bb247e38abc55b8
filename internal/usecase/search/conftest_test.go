package search

import (
	"context"
	"errors"

	"github.com/gridmart/martpilot/internal/domain"
)

// mockCatalog returns a fixed product snapshot.
type mockCatalog struct {
	products []domain.Product
	err      error
}

func (m *mockCatalog) ListProducts(_ context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

// mockMatcher plays the semantic tier with canned indices or a canned error.
type mockMatcher struct {
	indices []int
	err     error
	calls   int
}

func (m *mockMatcher) Match(_ context.Context, _, _ string) ([]int, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.indices, nil
}

var errMatcherDown = errors.New("matcher down")

func sampleCatalog() []domain.Product {
	return []domain.Product{
		{
			ID: "p1", Name: "Amul Milk", Brand: "Amul", Category: "Dairy",
			Keywords: "milk, doodh, dairy", AisleName: "A1", Section: "Dairy",
		},
		{
			ID: "p2", Name: "Madhur Sugar", Brand: "Madhur", Category: "Grocery",
			Keywords: "cheeni, sweet, sakkar",
		},
		{
			ID: "p3", Name: "Classmate Diary", Brand: "Classmate", Category: "Stationery",
			Keywords: "notebook, writing",
		},
		{
			ID: "p4", Name: "Crocin Advance", Brand: "Crocin", Category: "Pharmacy",
			Keywords: "paracetamol, fever, bukhar, headache",
		},
		{
			ID: "p5", Name: "Britannia Bread", Brand: "Britannia", Category: "Bakery",
			Keywords: "bread, toast, breakfast",
		},
	}
}
