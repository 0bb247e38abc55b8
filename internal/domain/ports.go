package domain

import "context"

// The optional LLM-backed capabilities, each behind a single-method port.
// A nil port means the capability is not configured; callers fall through
// to their deterministic tier. Implementations return
// ErrBackendUnavailable (wrapped) on any transport or parse failure.

// SemanticMatcher ranks catalog products against a free-text query.
// listing is a numbered, compact textual rendering of the catalog;
// the reply is an ordered list of 1-based indices into it.
type SemanticMatcher interface {
	Match(ctx context.Context, query, listing string) ([]int, error)
}

// Generator produces a conversational reply from a system instruction,
// a bounded window of conversation turns, and a context block.
type Generator interface {
	Generate(ctx context.Context, system string, window []Turn, contextBlock string) (string, error)
}

// Transcriber converts raw audio (WAV) into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}
