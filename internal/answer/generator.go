package answer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ziadkadry99/doc-search/internal/config"
	"github.com/ziadkadry99/doc-search/internal/llm"
)

// LLMGenerator generates answers through an llm.Provider using the model
// parameters from configuration.
type LLMGenerator struct {
	provider    llm.Provider
	model       string
	temperature float64
	maxTokens   int
	topP        float64
	topK        int
}

// NewLLMGenerator creates a generator bound to the given provider and the
// generation settings in cfg.
func NewLLMGenerator(provider llm.Provider, cfg *config.Config) *LLMGenerator {
	return &LLMGenerator{
		provider:    provider,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		topP:        cfg.TopP,
		topK:        cfg.TopK,
	}
}

// Generate answers a single-turn question against the context. On provider
// or parse failure the returned Result is a fallback and the error says why.
func (g *LLMGenerator) Generate(ctx context.Context, question, contextText string) (*Result, error) {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: searchPrompt(contextText, question)},
		{Role: llm.RoleUser, Content: question},
	}
	return g.complete(ctx, messages)
}

// GenerateChat answers a question given prior conversation history. History
// turns with unknown roles are skipped.
func (g *LLMGenerator) GenerateChat(ctx context.Context, history []Turn, question, contextText string) (*Result, error) {
	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: chatPrompt(contextText, question)})
	for _, turn := range history {
		switch turn.Role {
		case RoleUser:
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: turn.Content})
		case RoleModel:
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: turn.Content})
		}
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: question})
	return g.complete(ctx, messages)
}

func (g *LLMGenerator) complete(ctx context.Context, messages []llm.Message) (*Result, error) {
	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    messages,
		MaxTokens:   g.maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
		TopK:        g.topK,
		JSONMode:    true,
	})
	if err != nil {
		return errorFallback(err), fmt.Errorf("completion failed: %w", err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		err := fmt.Errorf("empty response from %s", g.provider.Name())
		return errorFallback(err), err
	}
	return parseResult(resp.Content)
}

// parseResult decodes the model's JSON payload into a Result, clamping the
// confidence score to [0, 1]. A payload that is not valid JSON yields the
// parse fallback.
func parseResult(raw string) (*Result, error) {
	var payload struct {
		Answer          string   `json:"answer"`
		Suggestions     []string `json:"suggestions"`
		WasContextValid bool     `json:"was_context_valid"`
		ConfidenceScore float64  `json:"confidence_score"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return parseFallback(), fmt.Errorf("parsing model response: %w", err)
	}

	if payload.Answer == "" {
		payload.Answer = "No answer provided"
	}
	if payload.Suggestions == nil {
		payload.Suggestions = []string{}
	}
	confidence := payload.ConfidenceScore
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &Result{
		Answer:          payload.Answer,
		Suggestions:     payload.Suggestions,
		WasContextValid: payload.WasContextValid,
		ConfidenceScore: confidence,
	}, nil
}

// stripFences removes a surrounding Markdown code fence, which some models
// emit even when asked for bare JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
