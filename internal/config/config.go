package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (DOCSEARCH_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: DOCSEARCH_PROVIDER -> provider,
	// DOCSEARCH_SEARCH_DEFAULT_TOP_K -> search.default_top_k, etc.
	if err := k.Load(env.Provider("DOCSEARCH_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "DOCSEARCH_"))
		for _, section := range []string{"search", "rerank", "index", "server"} {
			if strings.HasPrefix(key, section+"_") {
				return section + "." + strings.TrimPrefix(key, section+"_")
			}
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// validProviders is the set of recognized provider values.
var validProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderGoogle: true,
	ProviderOllama: true,
}

// validResponseModes is the set of recognized response mode values.
var validResponseModes = map[ResponseMode]bool{
	ModeCompact:         true,
	ModeTreeSummarize:   true,
	ModeAccumulate:      true,
	ModeSimpleSummarize: true,
}

// IsValidResponseMode reports whether mode is a recognized response mode.
func IsValidResponseMode(mode ResponseMode) bool {
	return validResponseModes[mode]
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !validProviders[c.Provider] {
		return fmt.Errorf("invalid provider %q: must be one of openai, google, ollama", c.Provider)
	}

	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.EmbeddingProvider != "" && !validProviders[c.EmbeddingProvider] {
		return fmt.Errorf("invalid embedding_provider %q", c.EmbeddingProvider)
	}

	if c.Search.DefaultTopK < 1 {
		return fmt.Errorf("search.default_top_k must be positive")
	}

	if c.Search.OverfetchMultiplier < 1 {
		return fmt.Errorf("search.overfetch_multiplier must be at least 1")
	}

	if c.Search.MaxContextLength < 1 {
		return fmt.Errorf("search.max_context_length must be positive")
	}

	if c.Search.DefaultResponseMode != "" && !validResponseModes[c.Search.DefaultResponseMode] {
		return fmt.Errorf("invalid search.default_response_mode %q", c.Search.DefaultResponseMode)
	}

	if c.Index.ChunkSize < 1 {
		return fmt.Errorf("index.chunk_size must be positive")
	}

	if c.Index.ChunkOverlap < 0 || c.Index.ChunkOverlap >= c.Index.ChunkSize {
		return fmt.Errorf("index.chunk_overlap must be non-negative and smaller than index.chunk_size")
	}

	if c.MaxRPM < 0 {
		return fmt.Errorf("max_rpm must be non-negative")
	}

	if c.Index.MaxConcurrency < 0 {
		return fmt.Errorf("index.max_concurrency must be non-negative")
	}

	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
