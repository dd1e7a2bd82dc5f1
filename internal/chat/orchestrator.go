// Package chat orchestrates conversational search turns. The service is
// stateless: clients carry their own message history and previously served
// context, and each turn decides whether to reuse that context or retrieve
// fresh chunks before generating an answer.
package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/ziadkadry99/doc-search/internal/answer"
	"github.com/ziadkadry99/doc-search/internal/search"
)

// ContextExtractor is the retrieval pipeline the orchestrator pulls fresh
// context from.
type ContextExtractor interface {
	ExtractContext(ctx context.Context, query string, topK int, responseMode string) (*search.Extraction, error)
}

// Request is one search or chat turn as submitted by the client.
type Request struct {
	Question        string
	TopK            int
	ResponseMode    string
	PreviousContext string

	// IsFollowUp marks a single-turn request that wants to reuse
	// PreviousContext instead of retrieving.
	IsFollowUp bool

	// History is the prior conversation, chat turns only.
	History []answer.Turn
}

// Outcome is the orchestrated result of one turn.
type Outcome struct {
	Answer          string
	Context         string
	Suggestions     []string
	WasContextValid bool
	ConfidenceScore float64
	Sources         []search.SourceNode
	SynthesisMethod string

	// ValidBeforeRetry and ValidAfterRetry record the generator's context
	// verdict before and after the in-turn refresh. ValidAfterRetry stays
	// false when no retry happened.
	ValidBeforeRetry bool
	ValidAfterRetry  bool
}

// StalePolicy reports whether carried-over context should be considered
// stale and refreshed even though the client supplied it. The default policy
// never expires context; history length is a natural input for stricter ones.
type StalePolicy func(history []answer.Turn, previousContext string) bool

// NeverStale keeps client-supplied context indefinitely.
func NeverStale([]answer.Turn, string) bool { return false }

// StaleAfterTurns expires carried context once the history grows past
// maxTurns. Available but not wired in by default.
func StaleAfterTurns(maxTurns int) StalePolicy {
	return func(history []answer.Turn, _ string) bool {
		return len(history) > maxTurns
	}
}

// Orchestrator runs search and chat turns over a retrieval pipeline and an
// answer generator. Safe for concurrent use.
type Orchestrator struct {
	extractor ContextExtractor
	generator answer.Generator
	stale     StalePolicy
}

// NewOrchestrator wires an orchestrator. A nil stale policy means NeverStale.
func NewOrchestrator(extractor ContextExtractor, generator answer.Generator, stale StalePolicy) *Orchestrator {
	if stale == nil {
		stale = NeverStale
	}
	return &Orchestrator{extractor: extractor, generator: generator, stale: stale}
}

// Search runs a single-turn question. Follow-up requests carrying previous
// context skip retrieval; everything else retrieves fresh context. There is
// no in-turn retry: an invalid-context verdict is reported to the client,
// who may resubmit as a follow-up or fresh question.
func (o *Orchestrator) Search(ctx context.Context, req Request) (*Outcome, error) {
	var (
		contextText string
		sources     []search.SourceNode
		method      string
	)

	if req.IsFollowUp && req.PreviousContext != "" {
		contextText = req.PreviousContext
		method = "follow_up"
	} else {
		ext, err := o.extractor.ExtractContext(ctx, req.Question, req.TopK, req.ResponseMode)
		if err != nil {
			return nil, fmt.Errorf("extracting context: %w", err)
		}
		contextText = ext.Context
		sources = ext.Sources
		method = ext.SynthesisMethod
	}

	res, err := o.generator.Generate(ctx, req.Question, contextText)
	if err != nil {
		log.Printf("answer generation degraded: %v", err)
	}

	return &Outcome{
		Answer:          res.Answer,
		Context:         contextText,
		Suggestions:     res.Suggestions,
		WasContextValid: res.WasContextValid,
		ConfidenceScore: res.ConfidenceScore,
		Sources:         sources,
		SynthesisMethod: method,
	}, nil
}

// Chat runs a conversational turn. Context is refreshed when the history is
// empty, when the client carried no previous context, or when the stale
// policy says so; otherwise the carried context is reused. If the generator
// judges the context invalid the turn refreshes once and generates again, so
// a turn makes at most two generation calls.
func (o *Orchestrator) Chat(ctx context.Context, req Request) (*Outcome, error) {
	var (
		contextText string
		sources     []search.SourceNode
		method      string
	)

	if o.needsNewContext(req) {
		ext, err := o.extractor.ExtractContext(ctx, req.Question, req.TopK, req.ResponseMode)
		if err != nil {
			return nil, fmt.Errorf("extracting context: %w", err)
		}
		contextText = ext.Context
		sources = ext.Sources
		method = ext.SynthesisMethod
	} else {
		contextText = req.PreviousContext
		method = "reuse_context"
	}

	res, err := o.generator.GenerateChat(ctx, req.History, req.Question, contextText)
	if err != nil {
		log.Printf("answer generation degraded: %v", err)
	}

	validBefore := res.WasContextValid
	validAfter := false

	if !res.WasContextValid {
		log.Printf("context judged invalid, retrieving fresh context")
		ext, err := o.extractor.ExtractContext(ctx, req.Question, req.TopK, req.ResponseMode)
		if err != nil {
			return nil, fmt.Errorf("extracting retry context: %w", err)
		}
		contextText = ext.Context
		sources = ext.Sources
		method = ext.SynthesisMethod

		res, err = o.generator.GenerateChat(ctx, req.History, req.Question, contextText)
		if err != nil {
			log.Printf("answer generation degraded on retry: %v", err)
		}
		validAfter = res.WasContextValid
	}

	return &Outcome{
		Answer:           res.Answer,
		Context:          contextText,
		Suggestions:      res.Suggestions,
		WasContextValid:  res.WasContextValid,
		ConfidenceScore:  res.ConfidenceScore,
		Sources:          sources,
		SynthesisMethod:  method,
		ValidBeforeRetry: validBefore,
		ValidAfterRetry:  validAfter,
	}, nil
}

func (o *Orchestrator) needsNewContext(req Request) bool {
	if len(req.History) == 0 {
		return true
	}
	if req.PreviousContext == "" {
		return true
	}
	return o.stale(req.History, req.PreviousContext)
}
