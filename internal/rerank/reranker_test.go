package rerank

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type mockScorer struct {
	scores []float64
	err    error
	calls  int
}

func (m *mockScorer) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.scores != nil {
		return m.scores, nil
	}
	out := make([]float64, len(texts))
	return out, nil
}

func (m *mockScorer) Name() string { return "mock-cross-encoder" }

func candidates(ids ...string) []Candidate {
	out := make([]Candidate, len(ids))
	for i, id := range ids {
		out[i] = Candidate{ID: id, Content: "text " + id, Score: float64(len(ids) - i)}
	}
	return out
}

func TestRerankOrdersByScore(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.1, 0.9, 0.5}}
	r := New(scorer)

	ranked, err := r.Rerank(context.Background(), "query", candidates("a", "b", "c"), 3)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}

	wantOrder := []string{"b", "c", "a"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("ranked[%d].ID = %q, want %q", i, ranked[i].ID, want)
		}
	}
	if ranked[0].Score != 0.9 {
		t.Errorf("ranked[0].Score = %v, want cross-encoder score 0.9", ranked[0].Score)
	}
}

func TestRerankTruncatesToTopK(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.2, 0.8, 0.6, 0.4, 0.9, 0.1}}
	r := New(scorer)

	ranked, err := r.Rerank(context.Background(), "query", candidates("a", "b", "c", "d", "e", "f"), 3)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}
	wantOrder := []string{"e", "b", "c"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("ranked[%d].ID = %q, want %q", i, ranked[i].ID, want)
		}
	}
}

func TestRerankTieKeepsRetrievalOrder(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.5, 0.5, 0.5}}
	r := New(scorer)

	ranked, err := r.Rerank(context.Background(), "query", candidates("a", "b", "c"), 3)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	wantOrder := []string{"a", "b", "c"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Errorf("ranked[%d].ID = %q, want %q", i, ranked[i].ID, want)
		}
	}
}

func TestRerankDegradesOnScorerError(t *testing.T) {
	scorer := &mockScorer{err: errors.New("model unavailable")}
	r := New(scorer)

	cands := candidates("a", "b", "c", "d")
	ranked, err := r.Rerank(context.Background(), "query", cands, 2)
	if err == nil {
		t.Fatal("Rerank() error = nil, want degradation error")
	}
	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2", len(ranked))
	}
	// Fallback keeps retrieval order and original scores.
	if ranked[0].ID != "a" || ranked[1].ID != "b" {
		t.Errorf("fallback order = [%s %s], want [a b]", ranked[0].ID, ranked[1].ID)
	}
	if ranked[0].Score != cands[0].Score {
		t.Errorf("fallback kept score %v, want original %v", ranked[0].Score, cands[0].Score)
	}
}

func TestRerankDegradesOnScoreCountMismatch(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.5}}
	r := New(scorer)

	ranked, err := r.Rerank(context.Background(), "query", candidates("a", "b"), 2)
	if err == nil {
		t.Fatal("Rerank() error = nil, want mismatch error")
	}
	if len(ranked) != 2 || ranked[0].ID != "a" {
		t.Errorf("fallback not in retrieval order: %+v", ranked)
	}
}

func TestRerankEmptyCandidates(t *testing.T) {
	scorer := &mockScorer{}
	r := New(scorer)

	ranked, err := r.Rerank(context.Background(), "query", nil, 3)
	if err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("len(ranked) = %d, want 0", len(ranked))
	}
	if scorer.calls != 0 {
		t.Errorf("scorer called %d times for empty input, want 0", scorer.calls)
	}
}

func TestRerankDoesNotMutateInput(t *testing.T) {
	scorer := &mockScorer{scores: []float64{0.1, 0.9}}
	r := New(scorer)

	cands := candidates("a", "b")
	origScore := cands[0].Score
	if _, err := r.Rerank(context.Background(), "query", cands, 2); err != nil {
		t.Fatalf("Rerank() error = %v", err)
	}
	if cands[0].Score != origScore || cands[0].ID != "a" {
		t.Errorf("input slice mutated: %+v", cands)
	}
}

func TestHTTPScorer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rerankRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Query != "what is chromem" {
			t.Errorf("query = %q", req.Query)
		}
		// Return results out of order to exercise index mapping.
		results := []rerankResult{
			{Index: 1, Score: 0.8},
			{Index: 0, Score: 0.3},
		}
		json.NewEncoder(w).Encode(results)
	}))
	defer srv.Close()

	s := NewHTTPScorer(srv.URL, "test-model")
	scores, err := s.Score(context.Background(), "what is chromem", []string{"first", "second"})
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if scores[0] != 0.3 || scores[1] != 0.8 {
		t.Errorf("scores = %v, want [0.3 0.8]", scores)
	}
}

func TestHTTPScorerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model loading", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := NewHTTPScorer(srv.URL, "test-model")
	if _, err := s.Score(context.Background(), "q", []string{"a"}); err == nil {
		t.Fatal("Score() error = nil, want server error")
	}
}

func TestHTTPScorerMissingIndex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]rerankResult{{Index: 0, Score: 0.5}})
	}))
	defer srv.Close()

	s := NewHTTPScorer(srv.URL, "test-model")
	if _, err := s.Score(context.Background(), "q", []string{"a", "b"}); err == nil {
		t.Fatal("Score() error = nil, want missing-score error")
	}
}
