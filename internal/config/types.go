package config

// ProviderType identifies an LLM or embedding provider.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderGoogle ProviderType = "google"
	ProviderOllama ProviderType = "ollama"
)

// ResponseMode is the synthesis-method label attached to freshly retrieved
// context. The mode does not change retrieval behaviour; it is reported back
// to the caller as the synthesis_method of the response.
type ResponseMode string

const (
	ModeCompact         ResponseMode = "compact"
	ModeTreeSummarize   ResponseMode = "tree_summarize"
	ModeAccumulate      ResponseMode = "accumulate"
	ModeSimpleSummarize ResponseMode = "simple_summarize"
)

// Config is the top-level docsearch configuration, corresponding to .docsearch.yml.
type Config struct {
	Provider        ProviderType `yaml:"provider" koanf:"provider"`
	Model           string       `yaml:"model" koanf:"model"`
	Temperature     float64      `yaml:"temperature" koanf:"temperature"`
	MaxOutputTokens int          `yaml:"max_output_tokens" koanf:"max_output_tokens"`
	TopP            float64      `yaml:"top_p" koanf:"top_p"`
	TopK            int          `yaml:"top_k" koanf:"top_k"`

	// MaxRPM caps generation requests per minute. Zero disables the limiter.
	MaxRPM int `yaml:"max_rpm" koanf:"max_rpm"`

	EmbeddingProvider ProviderType `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string       `yaml:"embedding_model" koanf:"embedding_model"`

	Search SearchConfig `yaml:"search" koanf:"search"`
	Rerank RerankConfig `yaml:"rerank" koanf:"rerank"`
	Index  IndexConfig  `yaml:"index" koanf:"index"`
	Server ServerConfig `yaml:"server" koanf:"server"`

	// DataDir holds the persisted vector store and the request log database.
	DataDir string `yaml:"data_dir" koanf:"data_dir"`
}

// SearchConfig controls the retrieval and context-assembly stages.
type SearchConfig struct {
	DefaultTopK         int          `yaml:"default_top_k" koanf:"default_top_k"`
	OverfetchMultiplier int          `yaml:"overfetch_multiplier" koanf:"overfetch_multiplier"`
	MaxContextLength    int          `yaml:"max_context_length" koanf:"max_context_length"`
	DefaultResponseMode ResponseMode `yaml:"default_response_mode" koanf:"default_response_mode"`
}

// RerankConfig controls the cross-encoder reranking stage.
type RerankConfig struct {
	// URL of the cross-encoder scoring endpoint. When empty, reranking is
	// skipped and retrieval order is kept.
	URL   string `yaml:"url" koanf:"url"`
	Model string `yaml:"model" koanf:"model"`
}

// IndexConfig controls corpus ingestion.
type IndexConfig struct {
	DocsDir        string   `yaml:"docs_dir" koanf:"docs_dir"`
	Include        []string `yaml:"include" koanf:"include"`
	Exclude        []string `yaml:"exclude" koanf:"exclude"`
	ChunkSize      int      `yaml:"chunk_size" koanf:"chunk_size"`
	ChunkOverlap   int      `yaml:"chunk_overlap" koanf:"chunk_overlap"`
	MaxConcurrency int      `yaml:"max_concurrency" koanf:"max_concurrency"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}
