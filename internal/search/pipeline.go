package search

import (
	"context"
	"fmt"
	"log"

	"github.com/ziadkadry99/doc-search/internal/config"
	"github.com/ziadkadry99/doc-search/internal/query"
	"github.com/ziadkadry99/doc-search/internal/rerank"
)

// Pipeline runs the full extraction for one query: normalize, over-fetch,
// rerank, assemble. It is safe for concurrent use.
type Pipeline struct {
	retriever *Retriever
	reranker  *rerank.Reranker
	assembler *Assembler

	defaultTopK int
	defaultMode config.ResponseMode
}

// NewPipeline wires the pipeline from its stages using the search settings
// in cfg for defaults.
func NewPipeline(retriever *Retriever, reranker *rerank.Reranker, assembler *Assembler, cfg config.SearchConfig) *Pipeline {
	return &Pipeline{
		retriever:   retriever,
		reranker:    reranker,
		assembler:   assembler,
		defaultTopK: cfg.DefaultTopK,
		defaultMode: cfg.DefaultResponseMode,
	}
}

// ExtractContext retrieves, reranks, and assembles context for the query.
//
// topK <= 0 falls back to the configured default, as does an unrecognized
// response mode. A nil reranker keeps retrieval order. Rerank failures degrade
// to retrieval order and are reported via Extraction.Degraded rather than an
// error; only retrieval failure makes the call itself fail.
func (p *Pipeline) ExtractContext(ctx context.Context, rawQuery string, topK int, responseMode string) (*Extraction, error) {
	if topK <= 0 {
		topK = p.defaultTopK
	}
	mode := config.ResponseMode(responseMode)
	if !config.IsValidResponseMode(mode) {
		mode = p.defaultMode
	}

	normalized := query.Normalize(rawQuery)

	candidates, err := p.retriever.Retrieve(ctx, normalized, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieving candidates: %w", err)
	}

	degraded := false
	if p.reranker == nil {
		if len(candidates) > topK {
			candidates = candidates[:topK]
		}
	} else if len(candidates) > 0 {
		ranked, err := p.rerankNodes(ctx, normalized, candidates, topK)
		if err != nil {
			log.Printf("reranking degraded, keeping retrieval order: %v", err)
			degraded = true
		}
		candidates = ranked
	}

	return &Extraction{
		Context:         p.assembler.Assemble(candidates),
		Sources:         candidates,
		SynthesisMethod: string(mode),
		Degraded:        degraded,
	}, nil
}

// rerankNodes maps nodes through the reranker and writes the cross-encoder
// scores back onto the survivors. On failure it returns the reranker's
// retrieval-order fallback together with the error.
func (p *Pipeline) rerankNodes(ctx context.Context, normalizedQuery string, nodes []SourceNode, topK int) ([]SourceNode, error) {
	byID := make(map[string]SourceNode, len(nodes))
	cands := make([]rerank.Candidate, len(nodes))
	for i, n := range nodes {
		byID[n.NodeID] = n
		cands[i] = rerank.Candidate{ID: n.NodeID, Content: n.Text, Score: n.Score}
	}

	ranked, rerr := p.reranker.Rerank(ctx, normalizedQuery, cands, topK)

	out := make([]SourceNode, 0, len(ranked))
	for _, c := range ranked {
		node := byID[c.ID]
		node.Score = c.Score
		out = append(out, node)
	}
	return out, rerr
}
