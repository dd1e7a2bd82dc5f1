package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/doc-search/internal/chat"
	"github.com/ziadkadry99/doc-search/internal/search"
)

// handleSearchDocuments performs semantic search over the document corpus.
func (s *Server) handleSearchDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}
	topK := request.GetInt("top_k", 0)

	ext, err := s.extractor.ExtractContext(ctx, query, topK, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(ext.Sources) == 0 {
		return mcp.NewToolResultText("No results found. The corpus may not be indexed yet. Run `docsearch index` to index it."), nil
	}

	return mcp.NewToolResultText(formatSources(ext.Sources)), nil
}

// handleAskDocuments answers a question grounded on the corpus.
func (s *Server) handleAskDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: question"), nil
	}
	topK := request.GetInt("top_k", 0)

	outcome, err := s.orchestrator.Search(ctx, chat.Request{
		Question: question,
		TopK:     topK,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(outcome.Answer)
	if len(outcome.Suggestions) > 0 {
		sb.WriteString("\n\nFollow-up suggestions:\n")
		for _, sug := range outcome.Suggestions {
			sb.WriteString("- " + sug + "\n")
		}
	}
	if !outcome.WasContextValid {
		sb.WriteString("\nNote: the retrieved context may not fully answer this question.\n")
	}

	return mcp.NewToolResultText(sb.String()), nil
}

// formatSources converts ranked chunks into a rich text format optimized for
// AI agent consumption.
func formatSources(sources []search.SourceNode) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(sources)))

	for i, src := range sources {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))

		m := src.Metadata
		if m.Title != "" {
			sb.WriteString(fmt.Sprintf("Title: %s\n", m.Title))
		}
		if m.Module != "" {
			sb.WriteString(fmt.Sprintf("Module: %s\n", m.Module))
		}
		if m.PresentationLink != "" {
			sb.WriteString(fmt.Sprintf("Link: %s\n", m.PresentationLink))
		}
		if m.PresentationDate != "" {
			sb.WriteString(fmt.Sprintf("Date: %s\n", m.PresentationDate))
		}
		if m.Tags != "" {
			sb.WriteString(fmt.Sprintf("Tags: %s\n", m.Tags))
		}
		sb.WriteString(fmt.Sprintf("Score: %.3f\n", src.Score))

		sb.WriteString("\n")
		sb.WriteString(src.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}
