// Package search implements the retrieval pipeline: over-fetch candidates
// from the vector store, rerank them with a cross-encoder, and assemble the
// survivors into a single context string with inline metadata blocks.
package search

import "github.com/ziadkadry99/doc-search/internal/vectordb"

// SourceNode is one retrieved chunk carried through the pipeline and
// returned to callers alongside the assembled context.
type SourceNode struct {
	NodeID   string
	Text     string
	Score    float64
	Metadata vectordb.ChunkMetadata
}

// Extraction is the result of running the full pipeline for one query.
type Extraction struct {
	// Context is the assembled context string handed to the answer
	// generator. Never empty: when nothing was retrieved it holds the
	// no-context sentinel.
	Context string
	// Sources are the chunks that made it into Context, best first.
	Sources []SourceNode
	// SynthesisMethod is the response mode the extraction ran under.
	SynthesisMethod string
	// Degraded is true when reranking failed and retrieval order was kept.
	Degraded bool
}
