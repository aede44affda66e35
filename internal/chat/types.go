package chat

// Roles used by the backend conversation history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SourceDocument is a retrieval citation attached to an assistant reply.
// Read-only from the client's point of view.
type SourceDocument struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Message is one conversation turn. The server-held sequence is the source
// of truth; the client keeps an in-memory copy that a history fetch may
// replace wholesale.
type Message struct {
	Role    string           `json:"role"`
	Content string           `json:"content"`
	Sources []SourceDocument `json:"sources,omitempty"`
}
