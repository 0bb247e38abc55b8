package catalog

import (
	"encoding/json"
	"strconv"

	"github.com/gridmart/martpilot/internal/domain"
)

// buildProductFields converts a Product into a flat map[string]string for HSET.
// Variants are stored as a JSON array in a single field.
func buildProductFields(p domain.Product) map[string]string {
	variants := "[]"
	if len(p.Variants) > 0 {
		if data, err := json.Marshal(p.Variants); err == nil {
			variants = string(data)
		}
	}
	return map[string]string{
		"name":     p.Name,
		"brand":    p.Brand,
		"category": p.Category,
		"variants": variants,
		"price":    strconv.FormatFloat(p.Price, 'f', -1, 64),
		"quantity": p.Quantity,
		"aisle_id": p.AisleID,
		"shelf":    strconv.Itoa(p.Shelf),
		"keywords": p.Keywords,
	}
}

// parseProductFields converts a flat hash map back into a Product.
// Unparsable numeric fields fall back to zero values.
func parseProductFields(id string, m map[string]string) domain.Product {
	p := domain.Product{
		ID:       id,
		Name:     m["name"],
		Brand:    m["brand"],
		Category: m["category"],
		Quantity: m["quantity"],
		AisleID:  m["aisle_id"],
		Keywords: m["keywords"],
	}
	if v := m["price"]; v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			p.Price = f
		}
	}
	if v := m["shelf"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			p.Shelf = n
		}
	}
	if v := m["variants"]; v != "" {
		var variants []string
		if json.Unmarshal([]byte(v), &variants) == nil {
			p.Variants = variants
		}
	}
	return p
}

func buildAisleFields(a domain.Aisle) map[string]string {
	return map[string]string{
		"name":    a.Name,
		"section": a.Section,
		"row":     strconv.Itoa(a.Row),
		"col":     strconv.Itoa(a.Col),
	}
}

func parseAisleFields(id string, m map[string]string) domain.Aisle {
	a := domain.Aisle{
		ID:      id,
		Name:    m["name"],
		Section: m["section"],
	}
	if n, err := strconv.Atoi(m["row"]); err == nil {
		a.Row = n
	}
	if n, err := strconv.Atoi(m["col"]); err == nil {
		a.Col = n
	}
	return a
}
