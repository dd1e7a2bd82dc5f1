package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/doc-search/internal/chat"
	"github.com/ziadkadry99/doc-search/internal/query"
	"github.com/ziadkadry99/doc-search/internal/requestlog"
)

const chunkPreviewLength = 200

// handleSearch serves single-turn document search. Pipeline failures are
// reported in the response envelope with success=false, still HTTP 200, so
// clients always get a renderable answer.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	start := time.Now()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := s.orchestrator.Search(r.Context(), chat.Request{
		Question:        req.Question,
		TopK:            req.TopK,
		ResponseMode:    req.ResponseMode,
		PreviousContext: req.PreviousContext,
		IsFollowUp:      req.IsFollowUp,
	})

	var resp searchResponse
	if err != nil {
		log.Printf("search request %s failed: %v", requestID, err)
		resp = searchResponse{
			Answer:          "Search failed: " + err.Error(),
			Context:         "",
			Suggestions:     []string{"Try rephrasing your question", "Check system status"},
			Success:         false,
			AIUsed:          "none",
			ProcessingTime:  time.Since(start).Seconds(),
			SourceNodes:     []sourceNode{},
			SynthesisMethod: "none",
		}
	} else {
		resp = searchResponse{
			Answer:          outcome.Answer,
			Context:         outcome.Context,
			Suggestions:     outcome.Suggestions,
			WasContextValid: outcome.WasContextValid,
			ConfidenceScore: outcome.ConfidenceScore,
			Success:         true,
			AIUsed:          s.providerName,
			ProcessingTime:  time.Since(start).Seconds(),
			SourceNodes:     toSourceNodes(outcome.Sources),
			SynthesisMethod: outcome.SynthesisMethod,
			TotalSources:    len(outcome.Sources),
		}
	}

	s.logRequest(r.Context(), requestID, "/ai/api/search", req, outcome, resp, err)
	writeJSON(w, resp)
}

// handleSearchChat serves conversational search with client-carried history.
func (s *Server) handleSearchChat(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	start := time.Now()

	var req chatSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := s.orchestrator.Chat(r.Context(), chat.Request{
		Question:        req.Question,
		TopK:            req.TopK,
		ResponseMode:    req.ResponseMode,
		PreviousContext: req.PreviousContext,
		History:         toHistory(req.MessageHistory),
	})

	var resp chatSearchResponse
	if err != nil {
		log.Printf("chat request %s failed: %v", requestID, err)
		resp = chatSearchResponse{
			searchResponse: searchResponse{
				Answer:          "I apologize, but I encountered an error: " + err.Error(),
				Context:         "",
				Suggestions:     []string{"Try rephrasing your question", "Check your connection", "Contact support if issue persists"},
				Success:         false,
				AIUsed:          "none",
				ProcessingTime:  time.Since(start).Seconds(),
				SourceNodes:     []sourceNode{},
				SynthesisMethod: "none",
			},
		}
	} else {
		resp = chatSearchResponse{
			searchResponse: searchResponse{
				Answer:          outcome.Answer,
				Context:         outcome.Context,
				Suggestions:     outcome.Suggestions,
				WasContextValid: outcome.WasContextValid,
				ConfidenceScore: outcome.ConfidenceScore,
				Success:         true,
				AIUsed:          s.providerName,
				ProcessingTime:  time.Since(start).Seconds(),
				SourceNodes:     toSourceNodes(outcome.Sources),
				SynthesisMethod: outcome.SynthesisMethod,
				TotalSources:    len(outcome.Sources),
			},
			WasContextValidNewKey: outcome.ValidAfterRetry,
			WasContextValidOldKey: outcome.ValidBeforeRetry,
		}
	}

	s.logRequest(r.Context(), requestID, "/ai/api/search-chat", req.searchRequest, outcome, resp.searchResponse, err)
	writeJSON(w, resp)
}

// handleHealth reports service status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "healthy",
		"services": map[string]bool{
			"vector_store": s.store != nil,
			"llm":          s.providerName != "",
		},
		"timestamp": float64(time.Now().UnixNano()) / float64(time.Second),
	})
}

func (s *Server) logRequest(ctx context.Context, requestID, endpoint string, req searchRequest, outcome *chat.Outcome, resp searchResponse, reqErr error) {
	if s.logs == nil {
		return
	}

	rec := &requestlog.Record{
		RequestID:       requestID,
		Timestamp:       time.Now(),
		Endpoint:        endpoint,
		Query:           req.Question,
		CleanedQuery:    query.Normalize(req.Question),
		TopK:            req.TopK,
		ResponseMode:    req.ResponseMode,
		SynthesisMethod: resp.SynthesisMethod,
		ContextLength:   len(resp.Context),
		TotalSources:    resp.TotalSources,
		WasContextValid: resp.WasContextValid,
		ConfidenceScore: resp.ConfidenceScore,
		ProcessingTime:  time.Duration(resp.ProcessingTime * float64(time.Second)),
		Success:         resp.Success,
	}
	if reqErr != nil {
		rec.Error = reqErr.Error()
	}
	if outcome != nil {
		for i, src := range outcome.Sources {
			preview := src.Text
			if runes := []rune(preview); len(runes) > chunkPreviewLength {
				preview = string(runes[:chunkPreviewLength]) + "..."
			}
			rec.Chunks = append(rec.Chunks, requestlog.ChunkInfo{
				ChunkID:     i + 1,
				Link:        src.Metadata.PresentationLink,
				Score:       src.Score,
				TextLength:  len(src.Text),
				TextPreview: preview,
			})
		}
	}

	// Logging must not fail the request.
	if err := s.logs.Save(ctx, rec); err != nil {
		log.Printf("saving request log %s: %v", requestID, err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encoding response: %v", err)
	}
}
