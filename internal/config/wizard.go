package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .docsearch.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to docsearch! Let's configure your document search service.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Generation provider selection.
	providerPrompt := promptui.Select{
		Label: "Select generation provider",
		Items: []string{"google", "openai", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	cfg.Provider = ProviderType(providerStr)
	cfg.Model = GetPreset(cfg.Provider).Model

	// 2. Embedding provider selection.
	embeddingPrompt := promptui.Select{
		Label: "Select embedding provider",
		Items: []string{"openai", "google", "ollama"},
	}
	_, embeddingStr, err := embeddingPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("embedding provider selection: %w", err)
	}
	cfg.EmbeddingProvider = ProviderType(embeddingStr)
	cfg.EmbeddingModel = GetPreset(cfg.EmbeddingProvider).EmbeddingModel

	// 3. Corpus directory.
	docsPrompt := promptui.Prompt{
		Label:   "Document corpus directory",
		Default: cfg.Index.DocsDir,
	}
	docsDir, err := docsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("docs directory: %w", err)
	}
	cfg.Index.DocsDir = docsDir

	// 4. Cross-encoder reranker endpoint (optional).
	rerankPrompt := promptui.Prompt{
		Label:   "Reranker endpoint URL (empty to disable reranking)",
		Default: "",
	}
	rerankURL, err := rerankPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("reranker endpoint: %w", err)
	}
	cfg.Rerank.URL = rerankURL

	// 5. HTTP port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP server port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 || n > 65535 {
				return fmt.Errorf("enter a port between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("server port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	if err := cfg.Save(".docsearch.yml"); err != nil {
		return nil, err
	}

	fmt.Println()
	fmt.Println("Configuration written to .docsearch.yml")
	if envVar := APIKeyEnvVar(cfg.Provider); envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("Remember to set %s before running `docsearch serve`.\n", envVar)
		}
	}

	return cfg, nil
}
