package martpilot

// Product is a catalog item. The aisle fields are filled in when the
// product has been placed on the store map.
type Product struct {
	ID       string
	Name     string
	Brand    string
	Category string
	Variants []string
	Price    float64
	Quantity string
	AisleID  string
	Shelf    int
	Keywords string

	AisleName string
	Section   string
	AisleRow  int
	AisleCol  int
}

// Located reports whether the product resolves to a known aisle.
func (p Product) Located() bool { return p.AisleName != "" }

// SearchResult is a ranked search hit with a relevance score in [0,100].
type SearchResult struct {
	Product
	Score float64
	Rank  int
}

// Turn is one message in a conversation history.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

// Directions is the outcome of a navigation request. A failed lookup
// (Found=false) still carries a user-facing apology in Text.
type Directions struct {
	AisleName string
	Found     bool
	Text      string
	Steps     int
}

// Reply is the assistant's composed answer for one query.
type Reply struct {
	Text       string
	Products   []SearchResult
	Directions *Directions
	Transcript string
}

// SeedReport summarizes a sample-data load.
type SeedReport struct {
	Aisles   int
	Products int
	Skipped  bool
}
