package domain

// Conversation roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation. The caller owns the history;
// it is truncated to a bounded window before reaching any generator.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is the orchestrator's composed answer for one query.
// Text is always non-empty; Products may be empty and Directions nil.
type Reply struct {
	Text       string           `json:"response"`
	Products   []SearchResult   `json:"products"`
	Directions *DirectionResult `json:"directions,omitempty"`
	Transcript string           `json:"transcription,omitempty"`
}
