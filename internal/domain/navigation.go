package domain

// Point is a cell on the store grid.
type Point struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the point lies within a rows×cols grid.
func (p Point) InBounds(rows, cols int) bool {
	return p.Row >= 0 && p.Row < rows && p.Col >= 0 && p.Col < cols
}

// DirectionResult is the outcome of a navigation request. A failed lookup
// (Found=false) still carries a user-facing apology in Directions; it is
// never surfaced as an error.
type DirectionResult struct {
	Found      bool    `json:"found"`
	Directions string  `json:"directions"`
	Path       []Point `json:"path"`
	Steps      int     `json:"steps"`
	Entrance   Point   `json:"entrance"`
	Target     Point   `json:"target"`
}
