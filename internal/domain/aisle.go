package domain

import "strings"

// Aisle is a named storage unit placed at a grid cell.
type Aisle struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Section string `json:"section"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

// Position returns the aisle's grid cell.
func (a Aisle) Position() Point { return Point{Row: a.Row, Col: a.Col} }

// Validate checks the aisle against the store grid bounds.
func (a Aisle) Validate(rows, cols int) error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrInvalidAisle
	}
	if a.Row < 0 || a.Row >= rows || a.Col < 0 || a.Col >= cols {
		return ErrOutOfBounds
	}
	return nil
}
