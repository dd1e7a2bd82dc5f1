package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/ziadkadry99/doc-search/internal/answer"
	"github.com/ziadkadry99/doc-search/internal/search"
)

type mockExtractor struct {
	extractions []*search.Extraction
	err         error
	calls       int
}

func (m *mockExtractor) ExtractContext(ctx context.Context, query string, topK int, responseMode string) (*search.Extraction, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	ext := m.extractions[0]
	if len(m.extractions) > 1 {
		m.extractions = m.extractions[1:]
	}
	return ext, nil
}

type mockGenerator struct {
	results []*answer.Result
	calls   int
	history [][]answer.Turn
}

func (m *mockGenerator) next() *answer.Result {
	m.calls++
	res := m.results[0]
	if len(m.results) > 1 {
		m.results = m.results[1:]
	}
	return res
}

func (m *mockGenerator) Generate(ctx context.Context, question, contextText string) (*answer.Result, error) {
	m.history = append(m.history, nil)
	return m.next(), nil
}

func (m *mockGenerator) GenerateChat(ctx context.Context, history []answer.Turn, question, contextText string) (*answer.Result, error) {
	m.history = append(m.history, history)
	return m.next(), nil
}

func freshExtraction(contextText, method string) *search.Extraction {
	return &search.Extraction{
		Context:         contextText,
		Sources:         []search.SourceNode{{NodeID: "n1", Text: contextText}},
		SynthesisMethod: method,
	}
}

func validResult() *answer.Result {
	return &answer.Result{Answer: "answer", WasContextValid: true, ConfidenceScore: 0.9}
}

func invalidResult() *answer.Result {
	return &answer.Result{Answer: "unsure", WasContextValid: false, ConfidenceScore: 0.2}
}

func TestChatFirstTurnRetrieves(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Chat(context.Background(), Request{Question: "q"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if ext.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1", gen.calls)
	}
	if out.SynthesisMethod != "compact" {
		t.Errorf("SynthesisMethod = %q, want compact", out.SynthesisMethod)
	}
	if out.Context != "fresh" {
		t.Errorf("Context = %q", out.Context)
	}
	if !out.ValidBeforeRetry || out.ValidAfterRetry {
		t.Errorf("validity flags = (%v, %v), want (true, false)", out.ValidBeforeRetry, out.ValidAfterRetry)
	}
}

func TestChatReusesCarriedContext(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Chat(context.Background(), Request{
		Question:        "follow up",
		PreviousContext: "carried",
		History:         []answer.Turn{{Role: answer.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if ext.calls != 0 {
		t.Errorf("extractor calls = %d, want 0", ext.calls)
	}
	if out.Context != "carried" {
		t.Errorf("Context = %q, want carried", out.Context)
	}
	if out.SynthesisMethod != "reuse_context" {
		t.Errorf("SynthesisMethod = %q, want reuse_context", out.SynthesisMethod)
	}
	if len(out.Sources) != 0 {
		t.Errorf("reused context carried %d sources, want 0", len(out.Sources))
	}
}

func TestChatMissingPreviousContextRetrieves(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	_, err := o.Chat(context.Background(), Request{
		Question: "q",
		History:  []answer.Turn{{Role: answer.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if ext.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls)
	}
}

func TestChatInvalidContextRetriesOnce(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("second", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{invalidResult(), validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Chat(context.Background(), Request{
		Question:        "q",
		PreviousContext: "carried",
		History:         []answer.Turn{{Role: answer.RoleUser, Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2", gen.calls)
	}
	if ext.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls)
	}
	if out.Context != "second" {
		t.Errorf("Context = %q, want refreshed context", out.Context)
	}
	if out.SynthesisMethod != "compact" {
		t.Errorf("SynthesisMethod = %q, want compact after refresh", out.SynthesisMethod)
	}
	if out.ValidBeforeRetry {
		t.Error("ValidBeforeRetry = true, want false")
	}
	if !out.ValidAfterRetry || !out.WasContextValid {
		t.Error("retry verdict not recorded")
	}
}

func TestChatAtMostTwoGenerationCalls(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{invalidResult(), invalidResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Chat(context.Background(), Request{Question: "q"})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("generator calls = %d, want 2", gen.calls)
	}
	if out.WasContextValid || out.ValidAfterRetry {
		t.Error("second invalid verdict should stand")
	}
}

func TestChatStalePolicyForcesRefresh(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, StaleAfterTurns(2))

	history := []answer.Turn{
		{Role: answer.RoleUser, Content: "1"},
		{Role: answer.RoleModel, Content: "2"},
		{Role: answer.RoleUser, Content: "3"},
	}
	out, err := o.Chat(context.Background(), Request{
		Question:        "q",
		PreviousContext: "carried",
		History:         history,
	})
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if ext.calls != 1 {
		t.Errorf("extractor calls = %d, want 1 (stale context refreshed)", ext.calls)
	}
	if out.Context != "fresh" {
		t.Errorf("Context = %q, want fresh", out.Context)
	}
}

func TestChatPassesHistoryToGenerator(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	history := []answer.Turn{{Role: answer.RoleUser, Content: "hi"}}
	if _, err := o.Chat(context.Background(), Request{Question: "q", History: history, PreviousContext: "c"}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(gen.history) != 1 || len(gen.history[0]) != 1 || gen.history[0][0].Content != "hi" {
		t.Errorf("history not forwarded: %+v", gen.history)
	}
}

func TestChatRetrievalFailureIsFatal(t *testing.T) {
	ext := &mockExtractor{err: errors.New("index down")}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	if _, err := o.Chat(context.Background(), Request{Question: "q"}); err == nil {
		t.Fatal("Chat() error = nil, want retrieval failure")
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times after retrieval failure, want 0", gen.calls)
	}
}

func TestSearchRetrieves(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Search(context.Background(), Request{Question: "q"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out.SynthesisMethod != "compact" {
		t.Errorf("SynthesisMethod = %q", out.SynthesisMethod)
	}
	if len(out.Sources) != 1 {
		t.Errorf("len(Sources) = %d, want 1", len(out.Sources))
	}
}

func TestSearchFollowUpReusesContext(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Search(context.Background(), Request{
		Question:        "q",
		IsFollowUp:      true,
		PreviousContext: "carried",
	})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if ext.calls != 0 {
		t.Errorf("extractor calls = %d, want 0", ext.calls)
	}
	if out.SynthesisMethod != "follow_up" {
		t.Errorf("SynthesisMethod = %q, want follow_up", out.SynthesisMethod)
	}
	if out.Context != "carried" {
		t.Errorf("Context = %q, want carried", out.Context)
	}
}

func TestSearchFollowUpWithoutContextRetrieves(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{validResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Search(context.Background(), Request{Question: "q", IsFollowUp: true})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if ext.calls != 1 {
		t.Errorf("extractor calls = %d, want 1", ext.calls)
	}
	if out.SynthesisMethod != "compact" {
		t.Errorf("SynthesisMethod = %q", out.SynthesisMethod)
	}
}

func TestSearchDoesNotRetryOnInvalidContext(t *testing.T) {
	ext := &mockExtractor{extractions: []*search.Extraction{freshExtraction("fresh", "compact")}}
	gen := &mockGenerator{results: []*answer.Result{invalidResult()}}
	o := NewOrchestrator(ext, gen, nil)

	out, err := o.Search(context.Background(), Request{Question: "q"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (no retry for single-turn)", gen.calls)
	}
	if out.WasContextValid {
		t.Error("WasContextValid = true, want false")
	}
}
