package domain

// SearchResult is a product decorated with a relevance score in [0,100].
// Ephemeral, produced per query, never persisted.
type SearchResult struct {
	Product
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}
