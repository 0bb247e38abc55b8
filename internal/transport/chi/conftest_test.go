package chi

import (
	"context"

	"go.uber.org/zap"

	"github.com/gridmart/martpilot/internal/domain"
	cataloguc "github.com/gridmart/martpilot/internal/usecase/catalog"
	healthuc "github.com/gridmart/martpilot/internal/usecase/health"
)

type stubAssistant struct {
	reply domain.Reply
	err   error
}

func (s *stubAssistant) Respond(_ context.Context, _ string, _ []domain.Turn) (domain.Reply, error) {
	return s.reply, s.err
}

func (s *stubAssistant) Voice(_ context.Context, _ []byte, _ []domain.Turn) (domain.Reply, error) {
	return s.reply, s.err
}

type stubSearcher struct {
	results []domain.SearchResult
	err     error
	gotTopN int
}

func (s *stubSearcher) Rank(_ context.Context, _ string, topN int) ([]domain.SearchResult, error) {
	s.gotTopN = topN
	return s.results, s.err
}

// stubCatalog answers every method with canned data or a single error.
type stubCatalog struct {
	product    domain.Product
	products   []domain.Product
	categories []string
	aisle      domain.Aisle
	aisles     []domain.Aisle
	stats      cataloguc.Stats
	seed       cataloguc.SeedReport
	snapshot   cataloguc.Snapshot
	err        error
}

func (s *stubCatalog) CreateProduct(_ context.Context, p domain.Product) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	p.ID = "generated-id"
	return p, nil
}

func (s *stubCatalog) UpdateProduct(_ context.Context, id string, p domain.Product) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	p.ID = id
	return p, nil
}

func (s *stubCatalog) GetProduct(_ context.Context, _ string) (domain.Product, error) {
	return s.product, s.err
}

func (s *stubCatalog) DeleteProduct(_ context.Context, _ string) error { return s.err }

func (s *stubCatalog) ListProducts(_ context.Context, _ string) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubCatalog) Categories(_ context.Context) ([]string, error) {
	return s.categories, s.err
}

func (s *stubCatalog) CreateAisle(_ context.Context, a domain.Aisle) (domain.Aisle, error) {
	if s.err != nil {
		return domain.Aisle{}, s.err
	}
	a.ID = "generated-id"
	return a, nil
}

func (s *stubCatalog) UpdateAisle(_ context.Context, id string, a domain.Aisle) (domain.Aisle, error) {
	if s.err != nil {
		return domain.Aisle{}, s.err
	}
	a.ID = id
	return a, nil
}

func (s *stubCatalog) GetAisle(_ context.Context, _ string) (domain.Aisle, error) {
	return s.aisle, s.err
}

func (s *stubCatalog) DeleteAisle(_ context.Context, _ string) error { return s.err }

func (s *stubCatalog) ListAisles(_ context.Context) ([]domain.Aisle, error) {
	return s.aisles, s.err
}

func (s *stubCatalog) Stats(_ context.Context) (cataloguc.Stats, error) { return s.stats, s.err }

func (s *stubCatalog) Seed(_ context.Context) (cataloguc.SeedReport, error) { return s.seed, s.err }

func (s *stubCatalog) Export(_ context.Context) (cataloguc.Snapshot, error) {
	return s.snapshot, s.err
}

type stubSettings struct {
	config map[string]string
	err    error
}

func (s *stubSettings) All(_ context.Context) (map[string]string, error) {
	return s.config, s.err
}

func (s *stubSettings) Set(_ context.Context, key, value string) error {
	if s.err != nil {
		return s.err
	}
	s.config[key] = value
	return nil
}

type stubHealth struct {
	report healthuc.Report
}

func (s *stubHealth) Check(_ context.Context) healthuc.Report { return s.report }

func newTestServer(
	assistant Assistant, search Searcher, catalog Catalog, settings Settings, health Health,
) *Server {
	if assistant == nil {
		assistant = &stubAssistant{}
	}
	if search == nil {
		search = &stubSearcher{}
	}
	if catalog == nil {
		catalog = &stubCatalog{}
	}
	if settings == nil {
		settings = &stubSettings{config: map[string]string{}}
	}
	if health == nil {
		health = &stubHealth{report: healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}}
	}
	return NewServer(assistant, search, catalog, settings, health, zap.NewNop())
}
