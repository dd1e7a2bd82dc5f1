package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docsearch",
	Short: "AI-powered question answering over a private document corpus",
	Long: `Doc Search indexes a directory of documents into a semantic vector
database and answers natural-language questions about them. It exposes
an HTTP API with conversational search, reranked retrieval, and
source-backed answers, and integrates with AI agents via MCP.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".docsearch.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
