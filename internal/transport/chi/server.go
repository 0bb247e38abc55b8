package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gridmart/martpilot/internal/domain"
	cataloguc "github.com/gridmart/martpilot/internal/usecase/catalog"
	healthuc "github.com/gridmart/martpilot/internal/usecase/health"
)

// maxAudioBytes caps the /voice upload size.
const maxAudioBytes = 10 << 20

// Assistant is the conversational surface consumed by /chat and /voice.
type Assistant interface {
	Respond(ctx context.Context, query string, history []domain.Turn) (domain.Reply, error)
	Voice(ctx context.Context, audio []byte, history []domain.Turn) (domain.Reply, error)
}

// Searcher is the plain ranking surface behind GET /search.
type Searcher interface {
	Rank(ctx context.Context, query string, topN int) ([]domain.SearchResult, error)
}

// Catalog is the admin CRUD surface.
type Catalog interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	UpdateProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context, query string) ([]domain.Product, error)
	Categories(ctx context.Context) ([]string, error)

	CreateAisle(ctx context.Context, a domain.Aisle) (domain.Aisle, error)
	UpdateAisle(ctx context.Context, id string, a domain.Aisle) (domain.Aisle, error)
	GetAisle(ctx context.Context, id string) (domain.Aisle, error)
	DeleteAisle(ctx context.Context, id string) error
	ListAisles(ctx context.Context) ([]domain.Aisle, error)

	Stats(ctx context.Context) (cataloguc.Stats, error)
	Seed(ctx context.Context) (cataloguc.SeedReport, error)
	Export(ctx context.Context) (cataloguc.Snapshot, error)
}

// Settings is the store configuration surface.
type Settings interface {
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}

// Health runs the component health checks.
type Health interface {
	Check(ctx context.Context) healthuc.Report
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API.
type Server struct {
	assistant     Assistant
	search        Searcher
	catalog       Catalog
	settings      Settings
	health        Health
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	assistant Assistant,
	search Searcher,
	catalog Catalog,
	settings Settings,
	health Health,
	logger *zap.Logger,
) *Server {
	s := &Server{
		assistant: assistant,
		search:    search,
		catalog:   catalog,
		settings:  settings,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrProductNotFound, http.StatusNotFound, "product_not_found"),
		sentinelHandler(domain.ErrAisleNotFound, http.StatusNotFound, "aisle_not_found"),
		sentinelHandler(domain.ErrAisleExists, http.StatusConflict, "aisle_already_exists"),
		sentinelHandler(domain.ErrCellOccupied, http.StatusConflict, "grid_cell_occupied"),
		sentinelHandler(domain.ErrInvalidProduct, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrInvalidAisle, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrOutOfBounds, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrInvalidLayout, http.StatusBadRequest, "validation_failed"),
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, "empty_query"),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusBadGateway, "backend_unavailable"),
	}
	return s
}

// Routes mounts every endpoint on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Post("/chat", s.Chat)
	r.Post("/voice", s.VoiceChat)
	r.Get("/search", s.Search)
	r.Get("/stats", s.Stats)
	r.Get("/categories", s.Categories)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", s.ListProducts)
		r.Post("/", s.CreateProduct)
		r.Get("/{id}", s.GetProduct)
		r.Put("/{id}", s.UpdateProduct)
		r.Delete("/{id}", s.DeleteProduct)
	})
	r.Route("/aisles", func(r chi.Router) {
		r.Get("/", s.ListAisles)
		r.Post("/", s.CreateAisle)
		r.Get("/{id}", s.GetAisle)
		r.Put("/{id}", s.UpdateAisle)
		r.Delete("/{id}", s.DeleteAisle)
	})

	r.Get("/config", s.GetConfig)
	r.Post("/config", s.UpdateConfig)
	r.Post("/seed", s.Seed)
	r.Get("/export", s.Export)
}

type chatRequest struct {
	Query   string        `json:"query"`
	History []domain.Turn `json:"history"`
}

// Chat handles POST /chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "empty_query", "No query provided")
		return
	}

	reply, err := s.assistant.Respond(r.Context(), req.Query, req.History)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// VoiceChat handles POST /voice. Expects multipart form data with an
// "audio" file (WAV) and an optional "history" field holding JSON turns.
func (s *Server) VoiceChat(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid multipart form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "No audio file provided")
		return
	}
	defer func() { _ = file.Close() }()

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Failed to read audio: "+err.Error())
		return
	}

	var history []domain.Turn
	if raw := r.FormValue("history"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &history); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "Invalid history: "+err.Error())
			return
		}
	}

	reply, err := s.assistant.Voice(r.Context(), audio, history)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type searchResponse struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
}

// Search handles GET /search: quick product ranking without a reply.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "empty_query", "No query provided")
		return
	}

	topN := 5
	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", "n must be a positive integer")
			return
		}
		topN = n
	}

	results, err := s.search.Rank(r.Context(), query, topN)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Results: results})
}

type productListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// ListProducts handles GET /products. An optional ?q= filters by substring.
func (s *Server) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.catalog.ListProducts(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, productListResponse{Products: products, Count: len(products)})
}

// CreateProduct handles POST /products.
func (s *Server) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	created, err := s.catalog.CreateProduct(r.Context(), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetProduct handles GET /products/{id}.
func (s *Server) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateProduct handles PUT /products/{id}.
func (s *Server) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	updated, err := s.catalog.UpdateProduct(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /products/{id}.
func (s *Server) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type aisleListResponse struct {
	Aisles []domain.Aisle `json:"aisles"`
	Count  int            `json:"count"`
}

// ListAisles handles GET /aisles.
func (s *Server) ListAisles(w http.ResponseWriter, r *http.Request) {
	aisles, err := s.catalog.ListAisles(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if aisles == nil {
		aisles = []domain.Aisle{}
	}
	writeJSON(w, http.StatusOK, aisleListResponse{Aisles: aisles, Count: len(aisles)})
}

// CreateAisle handles POST /aisles.
func (s *Server) CreateAisle(w http.ResponseWriter, r *http.Request) {
	var a domain.Aisle
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	created, err := s.catalog.CreateAisle(r.Context(), a)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetAisle handles GET /aisles/{id}.
func (s *Server) GetAisle(w http.ResponseWriter, r *http.Request) {
	a, err := s.catalog.GetAisle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// UpdateAisle handles PUT /aisles/{id}.
func (s *Server) UpdateAisle(w http.ResponseWriter, r *http.Request) {
	var a domain.Aisle
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	updated, err := s.catalog.UpdateAisle(r.Context(), chi.URLParam(r, "id"), a)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteAisle handles DELETE /aisles/{id}.
func (s *Server) DeleteAisle(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteAisle(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConfig handles GET /config.
func (s *Server) GetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.settings.All(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// UpdateConfig handles POST /config: a partial key/value update.
func (s *Server) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}

	for key, value := range req {
		if err := s.settings.Set(r.Context(), key, value); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	cfg, err := s.settings.All(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

// Categories handles GET /categories.
func (s *Server) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": cats})
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.catalog.Stats(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Seed handles POST /seed.
func (s *Server) Seed(w http.ResponseWriter, r *http.Request) {
	report, err := s.catalog.Seed(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Export handles GET /export.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	snap, err := s.catalog.Export(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrProductNotFound,
		domain.ErrAisleNotFound,
		domain.ErrAisleExists,
		domain.ErrCellOccupied,
		domain.ErrInvalidProduct,
		domain.ErrInvalidAisle,
		domain.ErrOutOfBounds,
		domain.ErrInvalidLayout,
		domain.ErrEmptyQuery,
		domain.ErrBackendUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
