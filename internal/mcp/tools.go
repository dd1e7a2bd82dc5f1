package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchDocumentsTool defines the search_documents MCP tool.
var searchDocumentsTool = mcp.NewTool("search_documents",
	mcp.WithDescription("Search the document corpus semantically. Returns the most relevant chunks with their metadata (title, link, relevance score)."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Maximum number of chunks to return (default 3)"),
	),
)

// askDocumentsTool defines the ask_documents MCP tool.
var askDocumentsTool = mcp.NewTool("ask_documents",
	mcp.WithDescription("Ask a question about the document corpus and get a grounded answer with source links and follow-up suggestions."),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
	mcp.WithNumber("top_k",
		mcp.Description("Number of context chunks the answer is grounded on (default 3)"),
	),
)
