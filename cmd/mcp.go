package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-search/internal/answer"
	"github.com/ziadkadry99/doc-search/internal/chat"
	mcpserver "github.com/ziadkadry99/doc-search/internal/mcp"
	"github.com/ziadkadry99/doc-search/internal/rerank"
	"github.com/ziadkadry99/doc-search/internal/search"
	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing document search and question-answering tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// Create embedder for query embedding during search.
		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		// Create and load vector store.
		store, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return fmt.Errorf("creating vector store: %w", err)
		}
		vectorDir := filepath.Join(cfg.DataDir, "vectordb")
		if err := store.Load(context.Background(), vectorDir); err != nil {
			// Log warning but continue — store may be empty if index hasn't run yet.
			fmt.Fprintf(os.Stderr, "Warning: could not load vector store from %s: %v\n", vectorDir, err)
			fmt.Fprintf(os.Stderr, "Search results will be empty. Run `docsearch index` first.\n")
		}

		llmProvider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		var reranker *rerank.Reranker
		if cfg.Rerank.URL != "" {
			reranker = rerank.New(rerank.NewHTTPScorer(cfg.Rerank.URL, cfg.Rerank.Model))
		}
		pipeline := search.NewPipeline(
			search.NewRetriever(store, cfg.Search.OverfetchMultiplier),
			reranker,
			search.NewAssembler(cfg.Search.MaxContextLength),
			cfg.Search,
		)
		orchestrator := chat.NewOrchestrator(pipeline, answer.NewLLMGenerator(llmProvider, cfg), nil)

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "docsearch MCP server started on stdio (documents=%d)\n", store.Count())

		srv := mcpserver.NewServer(pipeline, orchestrator)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
