// Package mcp exposes document search over the Model Context Protocol so AI
// agents can query the corpus directly.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/doc-search/internal/chat"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes document search tools.
type Server struct {
	extractor    chat.ContextExtractor
	orchestrator *chat.Orchestrator
	mcp          *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(extractor chat.ContextExtractor, orchestrator *chat.Orchestrator) *Server {
	s := &Server{
		extractor:    extractor,
		orchestrator: orchestrator,
	}

	s.mcp = server.NewMCPServer(
		"docsearch",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(searchDocumentsTool, s.handleSearchDocuments)
	s.mcp.AddTool(askDocumentsTool, s.handleAskDocuments)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
