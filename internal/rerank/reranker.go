// Package rerank provides second-pass relevance scoring of retrieved
// candidates using a cross-encoder model. Scoring (query, text) pairs
// together is slower than the index's native similarity but considerably
// more precise, so retrieval over-fetches and reranking narrows the pool.
package rerank

import (
	"context"
	"fmt"
	"sort"
)

// Candidate is one retrieved chunk under consideration for reranking.
type Candidate struct {
	// ID identifies the chunk so callers can map results back.
	ID string
	// Content is the text scored against the query.
	Content string
	// Score is the retrieval score on input and the cross-encoder score on
	// output. Once reranking succeeds the retrieval score is discarded.
	Score float64
}

// Scorer scores candidate texts against a query. Implementations must be
// stateless: the score is a pure function of the (query, text) pair.
type Scorer interface {
	// Score returns one relevance score per text, in input order.
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
	// Name returns the model identifier for logging.
	Name() string
}

// Reranker re-scores candidates with a cross-encoder and keeps the best topK.
type Reranker struct {
	scorer Scorer
}

// New creates a Reranker over the given scorer.
func New(scorer Scorer) *Reranker {
	return &Reranker{scorer: scorer}
}

// Model returns the underlying scorer's model name.
func (r *Reranker) Model() string {
	return r.scorer.Name()
}

// Rerank scores each candidate against the query, sorts descending by score
// (ties keep original retrieval order), truncates to topK, and overwrites
// each kept candidate's Score with its cross-encoder score.
//
// If the scorer fails, Rerank degrades gracefully: it returns the first topK
// candidates in their original retrieval order together with the error, so
// callers can log the degradation and still serve the turn.
func (r *Reranker) Rerank(ctx context.Context, query string, candidates []Candidate, topK int) ([]Candidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	if topK <= 0 {
		return nil, nil
	}

	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Content
	}

	scores, err := r.scorer.Score(ctx, query, texts)
	if err != nil {
		return truncate(candidates, topK), fmt.Errorf("cross-encoder scoring failed, keeping retrieval order: %w", err)
	}
	if len(scores) != len(candidates) {
		return truncate(candidates, topK), fmt.Errorf("cross-encoder returned %d scores for %d candidates, keeping retrieval order", len(scores), len(candidates))
	}

	ranked := make([]Candidate, len(candidates))
	copy(ranked, candidates)
	for i := range ranked {
		ranked[i].Score = scores[i]
	}

	// Stable sort preserves original retrieval order for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return truncate(ranked, topK), nil
}

func truncate(candidates []Candidate, topK int) []Candidate {
	if len(candidates) <= topK {
		out := make([]Candidate, len(candidates))
		copy(out, candidates)
		return out
	}
	out := make([]Candidate, topK)
	copy(out, candidates[:topK])
	return out
}
