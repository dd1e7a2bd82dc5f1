package indexer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ziadkadry99/doc-search/internal/config"
	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

type recordingStore struct {
	docs    map[string]vectordb.Document
	deletes []string
}

func newRecordingStore() *recordingStore {
	return &recordingStore{docs: make(map[string]vectordb.Document)}
}

func (s *recordingStore) AddDocuments(ctx context.Context, docs []vectordb.Document) error {
	for _, d := range docs {
		s.docs[d.ID] = d
	}
	return nil
}

func (s *recordingStore) Search(ctx context.Context, query string, limit int) ([]vectordb.SearchResult, error) {
	return nil, nil
}

func (s *recordingStore) DeleteByDocRef(ctx context.Context, docRefID string) error {
	s.deletes = append(s.deletes, docRefID)
	for id, d := range s.docs {
		if d.Metadata.DocRefID == docRefID {
			delete(s.docs, id)
		}
	}
	return nil
}

func (s *recordingStore) Persist(ctx context.Context, dir string) error { return nil }
func (s *recordingStore) Load(ctx context.Context, dir string) error    { return nil }
func (s *recordingStore) Count() int                                    { return len(s.docs) }

func TestSplitDocumentBySentences(t *testing.T) {
	text := "First sentence here. Second sentence follows. Third one ends it."
	chunks := SplitDocument(text, 50, 0)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2", len(chunks))
	}
	for _, c := range chunks {
		if len(c) > 70 {
			t.Errorf("chunk too long (%d): %q", len(c), c)
		}
	}
	joined := strings.Join(chunks, " ")
	for _, want := range []string{"First sentence here.", "Second sentence follows.", "Third one ends it."} {
		if !strings.Contains(joined, want) {
			t.Errorf("chunks lost sentence %q", want)
		}
	}
}

func TestSplitDocumentOverlap(t *testing.T) {
	text := "Alpha sentence one. Beta sentence two. Gamma sentence three. Delta sentence four."
	chunks := SplitDocument(text, 45, 25)

	if len(chunks) < 2 {
		t.Fatalf("len(chunks) = %d, want >= 2", len(chunks))
	}
	// Each later chunk should start with a sentence carried from its
	// predecessor.
	for i := 1; i < len(chunks); i++ {
		first := strings.SplitAfter(chunks[i], ".")[0]
		if !strings.Contains(chunks[i-1], strings.TrimSpace(first)) {
			t.Errorf("chunk %d does not overlap previous: %q then %q", i, chunks[i-1], chunks[i])
		}
	}
}

func TestSplitDocumentOversizedSentence(t *testing.T) {
	long := strings.Repeat("word ", 40) + "end."
	chunks := SplitDocument("Short. "+long, 50, 0)

	found := false
	for _, c := range chunks {
		if strings.Contains(c, "end.") {
			found = true
		}
	}
	if !found {
		t.Errorf("oversized sentence dropped: %v", chunks)
	}
}

func TestSplitDocumentEmpty(t *testing.T) {
	if chunks := SplitDocument("  \n ", 100, 10); chunks != nil {
		t.Errorf("chunks = %v, want nil", chunks)
	}
}

func TestChunkMetadataDefaults(t *testing.T) {
	meta := &DocumentMeta{Description: "Covers the **new** policy."}
	cm, err := chunkMetadata(meta, "policies/leave.md")
	if err != nil {
		t.Fatalf("chunkMetadata() error = %v", err)
	}
	if cm.Title != "leave" {
		t.Errorf("Title = %q, want filename fallback", cm.Title)
	}
	if cm.DocRefID == "" {
		t.Error("DocRefID not minted")
	}
	if !strings.Contains(cm.DescriptionFormatted, "<strong>new</strong>") {
		t.Errorf("DescriptionFormatted = %q, want rendered HTML", cm.DescriptionFormatted)
	}
}

func TestLoadMetaMissingFileIsEmpty(t *testing.T) {
	meta, err := LoadMeta(filepath.Join(t.TempDir(), "nope.meta.yml"))
	if err != nil {
		t.Fatalf("LoadMeta() error = %v", err)
	}
	if *meta != (DocumentMeta{}) {
		t.Errorf("meta = %+v, want zero value", *meta)
	}
}

func writeCorpusFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestPipelineRunIndexesCorpus(t *testing.T) {
	corpus := t.TempDir()
	dataDir := t.TempDir()
	writeCorpusFile(t, corpus, "leave.md", "# Leave policy\n\nEmployees get 25 days. Carry-over is capped.")
	writeCorpusFile(t, corpus, "leave.md.meta.yml", "title: Leave Policy\ndoc_ref_id: ref-leave\nmodule: HR\n")

	store := newRecordingStore()
	p := NewPipeline(store, config.IndexConfig{ChunkSize: 512, ChunkOverlap: 50, MaxConcurrency: 2}, corpus, dataDir)

	files, err := p.Walk()
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	res, err := p.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.FilesProcessed != 1 || res.FilesFailed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if res.ChunksIndexed == 0 || store.Count() == 0 {
		t.Fatal("no chunks stored")
	}
	for _, d := range store.docs {
		if d.Metadata.DocRefID != "ref-leave" {
			t.Errorf("DocRefID = %q, want sidecar id", d.Metadata.DocRefID)
		}
		if d.Metadata.Title != "Leave Policy" || d.Metadata.Module != "HR" {
			t.Errorf("metadata = %+v", d.Metadata)
		}
	}
}

func TestPipelineSkipsUnchangedFiles(t *testing.T) {
	corpus := t.TempDir()
	dataDir := t.TempDir()
	writeCorpusFile(t, corpus, "doc.md", "Stable content here.")

	store := newRecordingStore()
	cfg := config.IndexConfig{ChunkSize: 512, ChunkOverlap: 50, MaxConcurrency: 1}

	p := NewPipeline(store, cfg, corpus, dataDir)
	files, err := p.Walk()
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if _, err := p.Run(context.Background(), files); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	res, err := p.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if res.FilesProcessed != 0 || res.FilesSkipped != 1 {
		t.Errorf("second run result = %+v, want everything skipped", res)
	}
}

func TestPipelineReplacesChangedDocument(t *testing.T) {
	corpus := t.TempDir()
	dataDir := t.TempDir()
	writeCorpusFile(t, corpus, "doc.md", "Version one.")

	store := newRecordingStore()
	cfg := config.IndexConfig{ChunkSize: 512, ChunkOverlap: 50, MaxConcurrency: 1}

	p := NewPipeline(store, cfg, corpus, dataDir)
	files, err := p.Walk()
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if _, err := p.Run(context.Background(), files); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	var firstRef string
	for _, d := range store.docs {
		firstRef = d.Metadata.DocRefID
	}
	if firstRef == "" {
		t.Fatal("no doc ref id minted")
	}

	writeCorpusFile(t, corpus, "doc.md", "Version two, now changed.")
	files, err = p.Walk()
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	res, err := p.Run(context.Background(), files)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if res.FilesProcessed != 1 {
		t.Fatalf("second run result = %+v", res)
	}

	// The minted ref id survives re-indexing so old chunks get replaced.
	for _, d := range store.docs {
		if d.Metadata.DocRefID != firstRef {
			t.Errorf("DocRefID changed across runs: %q then %q", firstRef, d.Metadata.DocRefID)
		}
	}
	found := false
	for _, ref := range store.deletes {
		if ref == firstRef {
			found = true
		}
	}
	if !found {
		t.Error("old chunks not deleted before re-add")
	}
}
