package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/doc-search/internal/indexer"
	"github.com/ziadkadry99/doc-search/internal/progress"
	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the document corpus into the vector database",
	Long: `Scans the configured documents directory, chunks each document, embeds
the chunks, and persists them in the semantic vector database. Unchanged
files are skipped on subsequent runs.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().Bool("full", false, "reindex all files, ignoring the change-tracking state")
	indexCmd.Flags().Int("concurrency", 0, "max parallel embedding calls (overrides config)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency > 0 {
		cfg.Index.MaxConcurrency = concurrency
	}
	full, _ := cmd.Flags().GetBool("full")

	rootDir, err := filepath.Abs(cfg.Index.DocsDir)
	if err != nil {
		return fmt.Errorf("resolving docs directory: %w", err)
	}
	if _, err := os.Stat(rootDir); err != nil {
		return fmt.Errorf("docs directory %s: %w", rootDir, err)
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectordb.NewChromemStore(embedder)
	if err != nil {
		return fmt.Errorf("creating vector store: %w", err)
	}

	vectorDir := filepath.Join(cfg.DataDir, "vectordb")
	if !full {
		if err := store.Load(ctx, vectorDir); err != nil && verbose {
			fmt.Fprintf(os.Stderr, "Warning: could not load existing vector store: %v\n", err)
		}
	}

	pipeline := indexer.NewPipeline(store, cfg.Index, rootDir, cfg.DataDir)

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning documents in %s...\n", rootDir)
	}
	files, err := pipeline.Walk()
	if err != nil {
		return fmt.Errorf("walking documents: %w", err)
	}
	if len(files) == 0 {
		fmt.Println("No documents found to index.")
		return nil
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d documents\n", len(files))
	}

	if full {
		if err := indexer.ClearState(cfg.DataDir); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not clear index state: %v\n", err)
		}
	}

	reporter := progress.NewReporter()
	reporter.Start(len(files))
	pipeline.SetProgressFunc(func(processed int, total int, currentFile string) {
		reporter.Update(processed, currentFile)
	})

	result, err := pipeline.Run(ctx, files)
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Printf("Indexed %d documents (%d chunks) in %s\n",
		result.FilesProcessed, result.ChunksIndexed, time.Since(start).Round(time.Millisecond))
	if result.FilesSkipped > 0 {
		fmt.Printf("Skipped %d unchanged documents\n", result.FilesSkipped)
	}
	if result.FilesFailed > 0 {
		fmt.Printf("Failed to index %d documents:\n", result.FilesFailed)
		for _, e := range result.Errors {
			fmt.Printf("  %v\n", e)
		}
	}
	return nil
}
