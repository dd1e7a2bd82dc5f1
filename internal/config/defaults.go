package config

// ModelPreset describes the default model choices for a provider.
type ModelPreset struct {
	Model          string
	EmbeddingModel string
}

// modelPresets maps each provider to its recommended models.
var modelPresets = map[ProviderType]ModelPreset{
	ProviderOpenAI: {Model: "gpt-4o-mini", EmbeddingModel: "text-embedding-3-small"},
	ProviderGoogle: {Model: "gemini-2.5-flash", EmbeddingModel: "gemini-embedding-001"},
	ProviderOllama: {Model: "llama3", EmbeddingModel: "nomic-embed-text"},
}

// DefaultExcludes are glob patterns excluded from indexing by default.
var DefaultExcludes = []string{
	".git/**",
	"*.lock",
	"*.meta.yml",
	"*.meta.yaml",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderGoogle,
		Model:             "gemini-2.5-flash",
		Temperature:       0.2,
		MaxOutputTokens:   1500,
		TopP:              0.8,
		TopK:              40,
		MaxRPM:            60,
		EmbeddingProvider: ProviderOpenAI,
		EmbeddingModel:    "text-embedding-3-small",
		Search: SearchConfig{
			DefaultTopK:         3,
			OverfetchMultiplier: 2,
			MaxContextLength:    3000,
			DefaultResponseMode: ModeCompact,
		},
		Rerank: RerankConfig{
			Model: "cross-encoder/ms-marco-MiniLM-L-6-v2",
		},
		Index: IndexConfig{
			DocsDir:        "docs",
			Include:        []string{"**/*.txt", "**/*.md"},
			Exclude:        DefaultExcludes,
			ChunkSize:      512,
			ChunkOverlap:   50,
			MaxConcurrency: 4,
		},
		Server: ServerConfig{
			Port:     8000,
			AllowAll: true,
		},
		DataDir: ".docsearch",
	}
}

// GetPreset returns the model preset for the given provider.
// Returns the Google preset if the provider is not recognised.
func GetPreset(provider ProviderType) ModelPreset {
	if preset, ok := modelPresets[provider]; ok {
		return preset
	}
	return modelPresets[ProviderGoogle]
}
