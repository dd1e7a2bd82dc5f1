package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-search/internal/answer"
	"github.com/ziadkadry99/doc-search/internal/chat"
	"github.com/ziadkadry99/doc-search/internal/db"
	"github.com/ziadkadry99/doc-search/internal/requestlog"
	"github.com/ziadkadry99/doc-search/internal/rerank"
	"github.com/ziadkadry99/doc-search/internal/search"
	"github.com/ziadkadry99/doc-search/internal/server"
	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP search API server",
	Long:  `Starts the docsearch HTTP server exposing search and conversational search endpoints over the indexed document corpus.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort > 0 {
			cfg.Server.Port = servePort
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

		// Create LLM provider.
		llmProvider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		// Open the request log database.
		dbPath := filepath.Join(cfg.DataDir, "docsearch.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		// Assemble the retrieval pipeline.
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
		generator := answer.NewLLMGenerator(llmProvider, cfg)
		orchestrator := chat.NewOrchestrator(pipeline, generator, nil)

		srv := server.New(cfg.Server, orchestrator, requestlog.NewStore(database), store, llmProvider.Name())

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "docsearch server v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Documents indexed: %d\n", store.Count())
		if reranker == nil {
			fmt.Fprintln(os.Stderr, "  Reranking disabled (no rerank.url configured)")
		}

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
