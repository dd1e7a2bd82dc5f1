package search

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

// ErrRetrievalUnavailable marks failures of the similarity index itself.
// Unlike rerank or generation failures there is nothing to degrade to, so
// callers treat it as fatal for the request.
var ErrRetrievalUnavailable = errors.New("search index not available")

// Retriever fetches candidate chunks from the vector store. It over-fetches
// by a configured multiplier so the reranker has a wider pool to choose from.
type Retriever struct {
	store      vectordb.VectorStore
	multiplier int
}

// NewRetriever creates a Retriever over the given store. A multiplier below 1
// is treated as 1.
func NewRetriever(store vectordb.VectorStore, multiplier int) *Retriever {
	if multiplier < 1 {
		multiplier = 1
	}
	return &Retriever{store: store, multiplier: multiplier}
}

// Retrieve returns up to topK*multiplier candidates for the query, sorted by
// similarity score descending.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]SourceNode, error) {
	if topK <= 0 {
		return nil, nil
	}

	results, err := r.store.Search(ctx, query, topK*r.multiplier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrievalUnavailable, err)
	}

	nodes := make([]SourceNode, 0, len(results))
	for _, res := range results {
		nodes = append(nodes, SourceNode{
			NodeID:   res.Document.ID,
			Text:     res.Document.Content,
			Score:    float64(res.Similarity),
			Metadata: res.Document.Metadata,
		})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Score > nodes[j].Score
	})

	return nodes, nil
}
