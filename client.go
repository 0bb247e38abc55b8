package martpilot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gridmart/martpilot/internal/db"
	dbRedis "github.com/gridmart/martpilot/internal/db/redis"
	"github.com/gridmart/martpilot/internal/domain"
	"github.com/gridmart/martpilot/internal/metrics"
	catalogrepo "github.com/gridmart/martpilot/internal/repository/catalog"
	configrepo "github.com/gridmart/martpilot/internal/repository/storeconfig"
	"github.com/gridmart/martpilot/internal/transport/groq"
	"github.com/gridmart/martpilot/internal/usecase/assistant"
	cataloguc "github.com/gridmart/martpilot/internal/usecase/catalog"
	"github.com/gridmart/martpilot/internal/usecase/navigate"
	searchuc "github.com/gridmart/martpilot/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Client is the martpilot embedded entry point. It wires the store,
// repositories, and services in-process, for applications that embed
// the assistant directly instead of talking to the HTTP API.
type Client struct {
	store        db.Store
	assistantSvc *assistant.Service
	searchSvc    *searchuc.Service
	catalogSvc   *cataloguc.Service
	navigateSvc  *navigate.Service
}

// New creates a martpilot Client and connects to the database.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		keyPrefix:       "martpilot:",
		topN:            3,
		scoreThreshold:  50,
		groqBaseURL:     "https://api.groq.com/openai/v1",
		chatModel:       "llama-3.1-8b-instant",
		transcribeModel: "whisper-large-v3-turbo",
		backendTimeout:  4 * time.Second,
		historyWindow:   6,
	}
	for _, o := range opts {
		o(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("martpilot: database address required (use WithRedis)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("martpilot: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("martpilot: database not ready: %w", err)
	}

	return wireClient(ctx, store, cfg)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig) (*Client, error) {
	if cfg.registerMetrics {
		metrics.RegisterAssistantMetrics()
	}

	catalogRepo := catalogrepo.New(store, cfg.keyPrefix)
	settingsRepo := configrepo.New(store, cfg.keyPrefix)

	if err := settingsRepo.EnsureDefaults(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("martpilot: seed config defaults: %w", err)
	}

	var backend *groq.Client
	if cfg.groqAPIKey != "" {
		logger := cfg.logger
		if logger == nil {
			logger = zap.NewNop()
		}
		backend = groq.NewClient(&groq.Config{
			APIKey:          cfg.groqAPIKey,
			BaseURL:         cfg.groqBaseURL,
			ChatModel:       cfg.chatModel,
			TranscribeModel: cfg.transcribeModel,
			Logger:          logger,
		})
	}

	searchSvc := searchuc.New(catalogRepo, cfg.topN, cfg.scoreThreshold)
	if backend != nil {
		searchSvc = searchSvc.WithMatcher(backend, cfg.backendTimeout)
	}

	catalogSvc := cataloguc.New(catalogRepo, settingsRepo)
	navigateSvc := navigate.New(catalogRepo, settingsRepo)

	assistantSvc := assistant.New(searchSvc, navigateSvc, settingsRepo)
	if backend != nil {
		assistantSvc = assistantSvc.
			WithGenerator(backend, cfg.backendTimeout, cfg.historyWindow).
			WithTranscriber(backend)
	}

	return &Client{
		store:        store,
		assistantSvc: assistantSvc,
		searchSvc:    searchSvc,
		catalogSvc:   catalogSvc,
		navigateSvc:  navigateSvc,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Respond answers one customer query, composing search results,
// directions, and a reply text.
func (c *Client) Respond(ctx context.Context, query string, history []Turn) (Reply, error) {
	reply, err := c.assistantSvc.Respond(ctx, query, toTurns(history))
	if err != nil {
		return Reply{}, fmt.Errorf("respond: %w", err)
	}
	return fromReply(reply), nil
}

// Voice answers one spoken customer query from raw WAV audio.
func (c *Client) Voice(ctx context.Context, audio []byte, history []Turn) (Reply, error) {
	reply, err := c.assistantSvc.Voice(ctx, audio, toTurns(history))
	if err != nil {
		return Reply{}, fmt.Errorf("voice: %w", err)
	}
	return fromReply(reply), nil
}

// Search ranks catalog products against a free-text query. A topN of 0
// uses the client default.
func (c *Client) Search(ctx context.Context, query string, topN int) ([]SearchResult, error) {
	results, err := c.searchSvc.Rank(ctx, query, topN)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromResults(results), nil
}

// Directions returns walking directions from the store entrance to the
// named aisle. Lookup failures are reported in the result, not as errors.
func (c *Client) Directions(ctx context.Context, aisleName string) (Directions, error) {
	res, err := c.navigateSvc.Directions(ctx, aisleName)
	if err != nil {
		return Directions{}, fmt.Errorf("directions: %w", err)
	}
	return fromDirections(aisleName, res), nil
}

// Seed loads the bundled sample catalog. It is skipped when the store
// already holds products.
func (c *Client) Seed(ctx context.Context) (SeedReport, error) {
	report, err := c.catalogSvc.Seed(ctx)
	if err != nil {
		return SeedReport{}, fmt.Errorf("seed: %w", err)
	}
	return SeedReport{
		Aisles:   report.Aisles,
		Products: report.Products,
		Skipped:  report.Skipped,
	}, nil
}

func toTurns(history []Turn) []domain.Turn {
	if len(history) == 0 {
		return nil
	}
	out := make([]domain.Turn, len(history))
	for i, t := range history {
		out[i] = domain.Turn{Role: t.Role, Content: t.Content}
	}
	return out
}

func fromReply(r domain.Reply) Reply {
	reply := Reply{
		Text:       r.Text,
		Products:   fromResults(r.Products),
		Transcript: r.Transcript,
	}
	if r.Directions != nil {
		d := fromDirections("", *r.Directions)
		if len(reply.Products) > 0 {
			d.AisleName = reply.Products[0].AisleName
		}
		reply.Directions = &d
	}
	return reply
}

func fromResults(results []domain.SearchResult) []SearchResult {
	if len(results) == 0 {
		return nil
	}
	out := make([]SearchResult, len(results))
	for i := range results {
		out[i] = SearchResult{
			Product: fromProduct(results[i].Product),
			Score:   results[i].Score,
			Rank:    results[i].Rank,
		}
	}
	return out
}

func fromProduct(p domain.Product) Product {
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		Brand:     p.Brand,
		Category:  p.Category,
		Variants:  p.Variants,
		Price:     p.Price,
		Quantity:  p.Quantity,
		AisleID:   p.AisleID,
		Shelf:     p.Shelf,
		Keywords:  p.Keywords,
		AisleName: p.AisleName,
		Section:   p.Section,
		AisleRow:  p.AisleRow,
		AisleCol:  p.AisleCol,
	}
}

func fromDirections(aisleName string, r domain.DirectionResult) Directions {
	return Directions{
		AisleName: aisleName,
		Found:     r.Found,
		Text:      r.Directions,
		Steps:     r.Steps,
	}
}
