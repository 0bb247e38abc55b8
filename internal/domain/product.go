package domain

import "strings"

// Product is a catalog item. The aisle fields are denormalized from the
// product's aisle reference when listing; they are empty for unlocated
// products (a dangling aisle reference is treated the same way).
type Product struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Category string   `json:"category"`
	Variants []string `json:"variants,omitempty"`
	Price    float64  `json:"price"`
	Quantity string   `json:"quantity"`
	AisleID  string   `json:"aisle_id,omitempty"`
	Shelf    int      `json:"shelf"`
	Keywords string   `json:"keywords"`

	// Joined from the referenced aisle, read-only.
	AisleName string `json:"aisle_name,omitempty"`
	Section   string `json:"section,omitempty"`
	AisleRow  int    `json:"aisle_row,omitempty"`
	AisleCol  int    `json:"aisle_col,omitempty"`
}

// Located reports whether the product resolves to a known aisle.
func (p Product) Located() bool { return p.AisleName != "" }

// VocabularyWords returns every lowercase word from the product's name,
// brand, category, and keyword tags. Used to seed the spell-check
// dictionary so legitimate product terms are never "corrected".
func (p Product) VocabularyWords() []string {
	var words []string
	for _, field := range []string{p.Name, p.Brand, p.Category} {
		for _, w := range strings.Fields(strings.ToLower(field)) {
			words = append(words, w)
		}
	}
	for _, w := range strings.Split(strings.ToLower(p.Keywords), ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}

// Validate checks the fields settable through the CRUD surface.
func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	if p.Price < 0 {
		return ErrInvalidProduct
	}
	if p.Shelf < 1 {
		return ErrInvalidProduct
	}
	return nil
}
