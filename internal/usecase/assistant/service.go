package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gridmart/martpilot/internal/domain"
	"github.com/gridmart/martpilot/internal/logger"
	"github.com/gridmart/martpilot/internal/metrics"
)

const systemPromptFormat = `You are a friendly and helpful supermarket shopping assistant. You help customers find products in the store.

RULES:
1. You ONLY answer questions about products and their locations in THIS store.
2. When product information is provided in the context, use it to give specific aisle and shelf locations.
3. If no matching products are found, politely say you couldn't find that product and suggest alternatives.
4. Keep responses short, conversational, and helpful (2-3 sentences max).
5. If the customer asks a follow-up, remember the conversation context.
6. Always mention the aisle name and shelf number when giving directions.
7. Be warm and use phrases like "Sure!", "Great choice!", "Let me help you find that!"
8. If asked about things unrelated to the store, politely redirect to shopping assistance.

STORE NAME: %s`

// defaultWindow bounds how much conversation history reaches a generator.
const defaultWindow = 6

// Service orchestrates one assistant turn: rank products, compute
// directions to the top hit, then compose a reply. Tier 1 asks the
// optional generator; tier 2 is a deterministic template that always
// answers.
type Service struct {
	search      Searcher
	nav         Navigator
	settings    Settings
	generator   domain.Generator
	transcriber domain.Transcriber
	window      int
	timeout     time.Duration
	pick        func(n int) int
}

// New creates an assistant with the deterministic tier only.
func New(search Searcher, nav Navigator, settings Settings) *Service {
	return &Service{
		search:   search,
		nav:      nav,
		settings: settings,
		window:   defaultWindow,
		timeout:  4 * time.Second,
		pick:     pickRandom,
	}
}

// WithGenerator enables the conversational tier. timeout bounds each
// generation call; window caps the history turns forwarded to it.
func (s *Service) WithGenerator(g domain.Generator, timeout time.Duration, window int) *Service {
	s.generator = g
	if timeout > 0 {
		s.timeout = timeout
	}
	if window > 0 {
		s.window = window
	}
	return s
}

// WithTranscriber enables the voice pipeline.
func (s *Service) WithTranscriber(t domain.Transcriber) *Service {
	s.transcriber = t
	return s
}

// Respond answers one customer query given the caller-owned conversation
// history. The reply text is always non-empty; only storage failures are
// returned as errors.
func (s *Service) Respond(ctx context.Context, query string, history []domain.Turn) (domain.Reply, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		metrics.ReplyTierTotal.WithLabelValues("fallback").Inc()
		return domain.Reply{Text: s.greeting()}, nil
	}

	results, err := s.search.Rank(ctx, query, 0)
	if err != nil {
		return domain.Reply{}, fmt.Errorf("rank products: %w", err)
	}

	var directions *domain.DirectionResult
	if len(results) > 0 && results[0].Located() {
		dr, err := s.nav.Directions(ctx, results[0].AisleName)
		if err != nil {
			return domain.Reply{}, fmt.Errorf("directions: %w", err)
		}
		directions = &dr
	}

	text := s.compose(ctx, query, history, results, directions)
	return domain.Reply{Text: text, Products: results, Directions: directions}, nil
}

// Voice transcribes the audio and answers the transcript. A missing or
// failing transcriber degrades to an apology, never an error.
func (s *Service) Voice(ctx context.Context, audio []byte, history []domain.Turn) (domain.Reply, error) {
	if s.transcriber == nil {
		return domain.Reply{Text: "Voice input isn't available right now. Please type your question instead."}, nil
	}

	tctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	transcript, err := s.transcriber.Transcribe(tctx, audio)
	if err != nil {
		logger.FromContext(ctx).Warn("transcription failed", zap.Error(err))
		return domain.Reply{Text: "Sorry, I couldn't make out the audio. Please try again or type your question."}, nil
	}
	transcript = strings.TrimSpace(transcript)

	reply, err := s.Respond(ctx, transcript, history)
	if err != nil {
		return domain.Reply{}, err
	}
	reply.Transcript = transcript
	return reply, nil
}

// compose picks the reply text: the generator when configured and
// healthy, the deterministic template otherwise.
func (s *Service) compose(
	ctx context.Context,
	query string,
	history []domain.Turn,
	results []domain.SearchResult,
	directions *domain.DirectionResult,
) string {
	if s.generator != nil {
		if text, ok := s.generate(ctx, query, history, results, directions); ok {
			metrics.ReplyTierTotal.WithLabelValues("generated").Inc()
			return text
		}
	}
	metrics.ReplyTierTotal.WithLabelValues("fallback").Inc()
	return s.fallbackReply(results, directions)
}

func (s *Service) generate(
	ctx context.Context,
	query string,
	history []domain.Turn,
	results []domain.SearchResult,
	directions *domain.DirectionResult,
) (string, bool) {
	gctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	system := fmt.Sprintf(systemPromptFormat, s.storeName(ctx))
	window := history
	if len(window) > s.window {
		window = window[len(window)-s.window:]
	}

	text, err := s.generator.Generate(gctx, system, window, buildPrompt(query, results, directions))
	if err != nil {
		logger.FromContext(ctx).Warn("generator unavailable, using template reply", zap.Error(err))
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", false
	}
	return text, true
}

func (s *Service) storeName(ctx context.Context) string {
	layout, err := s.settings.Layout(ctx)
	if err != nil || layout.Name == "" {
		return domain.DefaultStoreName
	}
	return layout.Name
}

// buildPrompt assembles the augmented user message: the question, the
// inventory context, and the response instruction.
func buildPrompt(query string, results []domain.SearchResult, directions *domain.DirectionResult) string {
	return fmt.Sprintf(`Customer's question: %q

Store inventory search results:
%s

Please respond to the customer's question using the information above. Be conversational and helpful.`,
		query, buildContext(results, directions))
}

// buildContext renders the search results and directions as the context
// block injected into the generator prompt.
func buildContext(results []domain.SearchResult, directions *domain.DirectionResult) string {
	if len(results) == 0 {
		return "No matching products found in the store inventory."
	}

	var b strings.Builder
	b.WriteString("Here are the matching products from the store inventory:\n")
	for _, r := range results {
		b.WriteByte('\n')
		writeProduct(&b, r.Product)
	}
	if directions != nil && directions.Found {
		b.WriteString("\n\nDirections: " + directions.Directions)
	}
	return b.String()
}

func writeProduct(b *strings.Builder, p domain.Product) {
	fmt.Fprintf(b, "- %s", p.Name)
	if p.Brand != "" {
		fmt.Fprintf(b, " (Brand: %s)", p.Brand)
	}
	if p.Price > 0 {
		fmt.Fprintf(b, "\n  Price: ₹%.0f", p.Price)
		if p.Quantity != "" {
			fmt.Fprintf(b, " / %s", p.Quantity)
		}
	}
	if p.Category != "" {
		fmt.Fprintf(b, "\n  Category: %s", p.Category)
	}
	if p.Located() {
		fmt.Fprintf(b, "\n  Location: Aisle %s, Shelf %d", p.AisleName, p.Shelf)
		if p.Section != "" {
			fmt.Fprintf(b, "\n  Section: %s", p.Section)
		}
	}
	if len(p.Variants) > 0 {
		fmt.Fprintf(b, "\n  Available in: %s", strings.Join(p.Variants, ", "))
	}
	b.WriteByte('\n')
}
