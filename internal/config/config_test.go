package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider %q, got %q", ProviderGoogle, cfg.Provider)
	}
	if cfg.Search.DefaultTopK != 3 {
		t.Errorf("expected default top_k 3, got %d", cfg.Search.DefaultTopK)
	}
	if cfg.Search.OverfetchMultiplier != 2 {
		t.Errorf("expected default overfetch multiplier 2, got %d", cfg.Search.OverfetchMultiplier)
	}
	if cfg.Search.MaxContextLength != 3000 {
		t.Errorf("expected default max context length 3000, got %d", cfg.Search.MaxContextLength)
	}
	if cfg.Search.DefaultResponseMode != ModeCompact {
		t.Errorf("expected default response mode %q, got %q", ModeCompact, cfg.Search.DefaultResponseMode)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.docsearch.yml")

	original := DefaultConfig()
	original.Provider = ProviderOpenAI
	original.Model = "gpt-4o"
	original.Search.DefaultTopK = 5
	original.Search.OverfetchMultiplier = 3
	original.Index.DocsDir = "corpus"
	original.Rerank.URL = "http://localhost:8080/rerank"

	// Save.
	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Load back.
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify round-trip.
	if loaded.Provider != original.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Provider, original.Provider)
	}
	if loaded.Model != original.Model {
		t.Errorf("model: got %q, want %q", loaded.Model, original.Model)
	}
	if loaded.Search.DefaultTopK != original.Search.DefaultTopK {
		t.Errorf("default_top_k: got %d, want %d", loaded.Search.DefaultTopK, original.Search.DefaultTopK)
	}
	if loaded.Search.OverfetchMultiplier != original.Search.OverfetchMultiplier {
		t.Errorf("overfetch_multiplier: got %d, want %d", loaded.Search.OverfetchMultiplier, original.Search.OverfetchMultiplier)
	}
	if loaded.Index.DocsDir != original.Index.DocsDir {
		t.Errorf("docs_dir: got %q, want %q", loaded.Index.DocsDir, original.Index.DocsDir)
	}
	if loaded.Rerank.URL != original.Rerank.URL {
		t.Errorf("rerank url: got %q, want %q", loaded.Rerank.URL, original.Rerank.URL)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	// Loading a missing file should return defaults, not an error.
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Provider != ProviderGoogle {
		t.Errorf("expected default provider, got %q", cfg.Provider)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Override provider via env var.
	os.Setenv("DOCSEARCH_PROVIDER", "openai")
	defer os.Unsetenv("DOCSEARCH_PROVIDER")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Provider != ProviderOpenAI {
		t.Errorf("env override failed: got %q, want %q", loaded.Provider, ProviderOpenAI)
	}
}

func TestLoadNestedEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	cfg := DefaultConfig()
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	os.Setenv("DOCSEARCH_SERVER_PORT", "9001")
	defer os.Unsetenv("DOCSEARCH_SERVER_PORT")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 9001 {
		t.Errorf("nested env override failed: got %d, want 9001", loaded.Server.Port)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalidProvider(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Provider = "invalid"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid provider")
	}
}

func TestValidateInvalidOverfetch(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Search.OverfetchMultiplier = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero overfetch multiplier")
	}
}

func TestValidateOverlapLargerThanChunk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Index.ChunkOverlap = cfg.Index.ChunkSize
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for overlap >= chunk size")
	}
}

func TestIsValidResponseMode(t *testing.T) {
	if !IsValidResponseMode(ModeCompact) {
		t.Error("compact should be a valid response mode")
	}
	if IsValidResponseMode("streaming") {
		t.Error("streaming should not be a valid response mode")
	}
}
