package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/gridmart/martpilot/internal/domain"
	"github.com/gridmart/martpilot/internal/metrics"
)

const matcherSystemPrompt = `You are a supermarket product search engine. Given a numbered product list and a customer's search query, return ONLY a JSON array of the product numbers that genuinely match. Be smart about matching:
- 'diary' is NOT 'dairy' — diary is a notebook, dairy is milk products
- 'tomato' should match tomato products, NOT potato
- Match by intent: 'breakfast' → bread, milk, butter, etc.
- Include relevant variants but exclude unrelated products
- Return at most 5 best matches, ordered by relevance
- Return ONLY the JSON array, nothing else. Example: [3, 7, 1]`

// Client talks to a Groq (OpenAI-compatible) API and backs all three
// optional assistant capabilities: semantic matching, reply generation,
// and audio transcription.
type Client struct {
	client          *openai.Client
	chatModel       string
	transcribeModel string
	logger          *zap.Logger
}

// Config holds the backend settings.
type Config struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	TranscribeModel string
	Logger          *zap.Logger
}

// NewClient creates a Groq-backed client.
func NewClient(cfg *Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL

	return &Client{
		client:          openai.NewClientWithConfig(clientCfg),
		chatModel:       cfg.ChatModel,
		transcribeModel: cfg.TranscribeModel,
		logger:          cfg.Logger,
	}
}

// Match implements domain.SemanticMatcher. The model is asked for a JSON
// array of 1-based product numbers; anything unparseable is an error so
// the caller can fall back to the fuzzy tier.
func (c *Client) Match(ctx context.Context, query, listing string) ([]int, error) {
	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: matcherSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"Products:\n%s\n\nCustomer query: %q\n\nMatching product numbers (JSON array):", listing, query)},
		},
		Temperature: 0,
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.record("match", start, err)
		return nil, parseAPIError("match", err)
	}
	if len(resp.Choices) == 0 {
		c.record("match", start, domain.ErrBackendUnavailable)
		return nil, fmt.Errorf("match: empty completion: %w", domain.ErrBackendUnavailable)
	}

	indices, err := parseIndices(resp.Choices[0].Message.Content)
	if err != nil {
		c.record("match", start, err)
		return nil, err
	}
	c.record("match", start, nil)
	return indices, nil
}

// Generate implements domain.Generator.
func (c *Client) Generate(ctx context.Context, system string, window []domain.Turn, contextBlock string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(window)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleSystem, Content: system,
	})
	for _, turn := range window {
		role := openai.ChatMessageRoleUser
		if turn.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: contextBlock,
	})

	req := openai.ChatCompletionRequest{Model: c.chatModel, Messages: messages}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.record("generate", start, err)
		return "", parseAPIError("generate", err)
	}
	if len(resp.Choices) == 0 {
		c.record("generate", start, domain.ErrBackendUnavailable)
		return "", fmt.Errorf("generate: empty completion: %w", domain.ErrBackendUnavailable)
	}
	c.record("generate", start, nil)
	return resp.Choices[0].Message.Content, nil
}

// Transcribe implements domain.Transcriber for WAV audio.
func (c *Client) Transcribe(ctx context.Context, audio []byte) (string, error) {
	req := openai.AudioRequest{
		Model:    c.transcribeModel,
		FilePath: "query.wav",
		Reader:   bytes.NewReader(audio),
		Language: "en",
		Format:   openai.AudioResponseFormatText,
	}

	start := time.Now()
	resp, err := c.client.CreateTranscription(ctx, req)
	if err != nil {
		c.record("transcribe", start, err)
		return "", parseAPIError("transcribe", err)
	}
	c.record("transcribe", start, nil)
	return strings.TrimSpace(resp.Text), nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

func (c *Client) record(capability string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		if c.logger != nil {
			c.logger.Warn("backend request failed",
				zap.String("capability", capability),
				zap.Error(err))
		}
	}
	metrics.BackendRequestsTotal.WithLabelValues(capability, status).Inc()
	if err == nil {
		metrics.BackendRequestDuration.WithLabelValues(capability).Observe(time.Since(start).Seconds())
	}
}

// indexPattern grabs the first JSON array of numbers in a reply. Models
// regularly wrap the array in prose or code fences.
var indexPattern = regexp.MustCompile(`\[[\d\s,]*\]`)

// parseIndices extracts the ordered 1-based product numbers from a model
// reply. An explicit empty array is a valid "no matches" answer.
func parseIndices(reply string) ([]int, error) {
	raw := indexPattern.FindString(reply)
	if raw == "" {
		return nil, fmt.Errorf("match: no index array in reply %q: %w", reply, domain.ErrBackendUnavailable)
	}
	var indices []int
	if err := json.Unmarshal([]byte(raw), &indices); err != nil {
		return nil, fmt.Errorf("match: parse %q: %w", raw, domain.ErrBackendUnavailable)
	}
	return indices, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrBackendUnavailable so callers can
// degrade uniformly.
func parseAPIError(capability string, err error) error {
	wrap := domain.ErrBackendUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractMessage(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("%s: API error %d: %s: %w",
				capability, reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("%s: API error %d: %s: %w",
			capability, reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%s: API error %d: %s: %w",
			capability, apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("%s: request failed: %v: %w", capability, err, wrap)
}

// extractMessage extracts the error message from a Groq JSON error body.
func extractMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return ""
}
