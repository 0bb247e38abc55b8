package martpilot

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	password string

	keyPrefix      string
	topN           int
	scoreThreshold float64

	groqAPIKey      string
	groqBaseURL     string
	chatModel       string
	transcribeModel string
	backendTimeout  time.Duration
	historyWindow   int

	logger          *zap.Logger
	registerMetrics bool
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithKeyPrefix sets the key prefix for all stored data.
// Default: "martpilot:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithTopN sets the default number of search results. Default: 3.
func WithTopN(n int) Option {
	return func(c *clientConfig) {
		c.topN = n
	}
}

// WithScoreThreshold sets the minimum relevance score, 0-100. Default: 50.
func WithScoreThreshold(threshold float64) Option {
	return func(c *clientConfig) {
		c.scoreThreshold = threshold
	}
}

// WithGroq enables the LLM-backed tiers (semantic matching, reply
// generation, voice transcription). Without it the deterministic tiers
// serve every request and Voice reports that audio input is unavailable.
func WithGroq(apiKey string) Option {
	return func(c *clientConfig) {
		c.groqAPIKey = apiKey
	}
}

// WithGroqBaseURL overrides the OpenAI-compatible API base URL.
// Default: "https://api.groq.com/openai/v1".
func WithGroqBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.groqBaseURL = baseURL
	}
}

// WithModels overrides the chat and transcription model names.
// Defaults: "llama-3.1-8b-instant" and "whisper-large-v3-turbo".
func WithModels(chat, transcribe string) Option {
	return func(c *clientConfig) {
		c.chatModel = chat
		c.transcribeModel = transcribe
	}
}

// WithBackendTimeout bounds every LLM backend call. Default: 4s.
func WithBackendTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.backendTimeout = d
	}
}

// WithHistoryWindow sets how many conversation turns reach the
// generator. Default: 6.
func WithHistoryWindow(n int) Option {
	return func(c *clientConfig) {
		c.historyWindow = n
	}
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}

// WithMetrics registers the client's Prometheus metrics on the default
// registry. Disabled by default so embedding applications control
// exposition.
func WithMetrics() Option {
	return func(c *clientConfig) {
		c.registerMetrics = true
	}
}
