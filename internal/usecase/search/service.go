package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"go.uber.org/zap"

	"github.com/gridmart/martpilot/internal/domain"
	"github.com/gridmart/martpilot/internal/logger"
	"github.com/gridmart/martpilot/internal/metrics"
)

// Field weights for the combined fuzzy score.
const (
	weightName     = 0.50
	weightKeywords = 0.25
	weightCategory = 0.15
	weightBrand    = 0.10
)

// Score floors applied after weighting, highest precedence first.
const (
	floorNameContains = 95
	floorNameEdge     = 92
	floorKeywordHit   = 75
)

// semanticStep is the score decrement per rank position in the semantic tier.
const semanticStep = 5

// Service ranks catalog products against free-text queries.
// Tier 1 delegates to an optional semantic matcher; tier 2 is a
// deterministic weighted fuzzy match that always produces a result.
type Service struct {
	catalog   Catalog
	matcher   domain.SemanticMatcher
	topN      int
	threshold float64
	timeout   time.Duration
}

// New creates a ranking service with the fuzzy tier only.
func New(catalog Catalog, topN int, threshold float64) *Service {
	if topN <= 0 {
		topN = 3
	}
	if threshold <= 0 {
		threshold = 50
	}
	return &Service{catalog: catalog, topN: topN, threshold: threshold, timeout: 4 * time.Second}
}

// WithMatcher enables the semantic tier. timeout bounds each match call.
func (s *Service) WithMatcher(m domain.SemanticMatcher, timeout time.Duration) *Service {
	s.matcher = m
	if timeout > 0 {
		s.timeout = timeout
	}
	return s
}

// Rank scores every catalog product against the query and returns at most
// topN results sorted by descending score (catalog order breaks ties).
// topN <= 0 uses the configured default. An empty query or an empty
// catalog yields an empty result, never an error; only catalog
// unavailability is fatal.
func (s *Service) Rank(ctx context.Context, query string, topN int) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if topN <= 0 {
		topN = s.topN
	}

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if len(products) == 0 {
		return nil, nil
	}

	if results := s.rankSemantic(ctx, query, products, topN); len(results) > 0 {
		metrics.SearchTierTotal.WithLabelValues("semantic").Inc()
		return results, nil
	}

	metrics.SearchTierTotal.WithLabelValues("fuzzy").Inc()
	return s.rankFuzzy(query, products, topN), nil
}

// rankSemantic asks the external matcher for ordered catalog indices.
// Any failure, empty reply, or out-of-range index set returns nil and the
// caller falls through to the fuzzy tier; the failure is logged, never
// surfaced.
func (s *Service) rankSemantic(
	ctx context.Context, query string, products []domain.Product, topN int,
) []domain.SearchResult {
	if s.matcher == nil {
		return nil
	}

	mctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	indices, err := s.matcher.Match(mctx, query, buildListing(products))
	if err != nil {
		logger.FromContext(ctx).Warn("semantic matcher unavailable, using fuzzy tier",
			zap.Error(err))
		return nil
	}

	results := make([]domain.SearchResult, 0, topN)
	for _, idx := range indices {
		if idx < 1 || idx > len(products) {
			continue
		}
		score := float64(100 - semanticStep*len(results))
		results = append(results, domain.SearchResult{
			Product: products[idx-1],
			Score:   score,
			Rank:    len(results) + 1,
		})
		if len(results) == topN {
			break
		}
	}
	return results
}

// rankFuzzy is the deterministic tier: spell-correct, expand intents, and
// score every product with the weighted multi-field fuzzy formula.
func (s *Service) rankFuzzy(query string, products []domain.Product, topN int) []domain.SearchResult {
	corrected := newCorrector(products).Correct(query)
	terms := expandQuery(corrected)

	var results []domain.SearchResult
	for _, p := range products {
		score := scoreProduct(p, terms)
		if score >= s.threshold {
			results = append(results, domain.SearchResult{Product: p, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topN {
		results = results[:topN]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// scoreProduct returns the best combined score across all expanded terms.
func scoreProduct(p domain.Product, terms []string) float64 {
	name := strings.ToLower(p.Name)
	brand := strings.ToLower(p.Brand)
	category := strings.ToLower(p.Category)
	keywords := strings.ToLower(p.Keywords)

	var best float64
	for _, term := range terms {
		nameScore := float64(fuzzy.WRatio(term, name))
		if pr := float64(fuzzy.PartialRatio(term, name)); pr > nameScore {
			nameScore = pr
		}
		brandScore := float64(fuzzy.WRatio(term, brand))
		categoryScore := float64(fuzzy.WRatio(term, category))
		keywordScore := float64(fuzzy.TokenSetRatio(term, keywords))

		weighted := nameScore*weightName +
			keywordScore*weightKeywords +
			categoryScore*weightCategory +
			brandScore*weightBrand

		switch {
		case strings.Contains(name, term):
			weighted = max(weighted, floorNameContains)
		case strings.HasPrefix(name, term) || strings.HasSuffix(name, term):
			weighted = max(weighted, floorNameEdge)
		case strings.Contains(keywords, term):
			weighted = max(weighted, floorKeywordHit)
		}

		if weighted > best {
			best = weighted
		}
	}
	if best > 100 {
		best = 100
	}
	return best
}

// buildListing renders the catalog as a numbered, compact text block for
// the semantic matcher, one product per line with category, brand, and
// keywords when present.
func buildListing(products []domain.Product) string {
	var b strings.Builder
	for i, p := range products {
		fmt.Fprintf(&b, "%d. %s", i+1, p.Name)
		if p.Category != "" {
			fmt.Fprintf(&b, " [%s]", p.Category)
		}
		if p.Brand != "" {
			fmt.Fprintf(&b, " (%s)", p.Brand)
		}
		if p.Keywords != "" {
			fmt.Fprintf(&b, " — %s", p.Keywords)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}
