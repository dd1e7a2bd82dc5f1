// Package answer turns an assembled context and a user question into a
// structured answer using an LLM provider. Generation never fails a request:
// provider or parse errors produce a fallback Result with zero confidence.
package answer

import "context"

// Turn is one message of prior conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation roles accepted in history.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Result is the structured answer produced for one generation call.
type Result struct {
	Answer          string   `json:"answer"`
	Suggestions     []string `json:"suggestions"`
	WasContextValid bool     `json:"was_context_valid"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// Generator produces structured answers. Implementations return a usable
// Result even on failure; a non-nil error then reports what went wrong so
// callers can log it, not to be treated as fatal.
type Generator interface {
	// Generate answers a single-turn question against the context.
	Generate(ctx context.Context, question, contextText string) (*Result, error)
	// GenerateChat answers a question given prior conversation history.
	GenerateChat(ctx context.Context, history []Turn, question, contextText string) (*Result, error)
}

// errorFallback is returned when the provider call itself fails.
func errorFallback(err error) *Result {
	return &Result{
		Answer:          "Error processing your request: " + err.Error(),
		Suggestions:     []string{"Please try again later", "Contact support if issue persists"},
		WasContextValid: false,
		ConfidenceScore: 0,
	}
}

// parseFallback is returned when the provider answered but not in the
// expected JSON shape.
func parseFallback() *Result {
	return &Result{
		Answer:          "Failed to parse AI response - please try rephrasing your question",
		Suggestions:     []string{"Try asking about specific topics", "Rephrase with more specific keywords"},
		WasContextValid: false,
		ConfidenceScore: 0,
	}
}
