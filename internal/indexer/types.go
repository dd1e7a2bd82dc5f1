package indexer

import "time"

// DocumentMeta is the sidecar metadata attached to a corpus document. It
// lives next to the document as <file>.meta.yml.
type DocumentMeta struct {
	Title            string `yaml:"title"`
	Description      string `yaml:"description"`
	Tags             string `yaml:"tags"`
	PresentationDate string `yaml:"presentation_date"`
	Module           string `yaml:"module"`
	PresentationLink string `yaml:"presentation_link"`
	Presenter        string `yaml:"presenter"`
	DocRefID         string `yaml:"doc_ref_id"`
}

// Result summarizes the outcome of a full indexing run.
type Result struct {
	FilesProcessed int
	FilesSkipped   int
	FilesFailed    int
	ChunksIndexed  int
	Duration       time.Duration
	Errors         []error
}

// ProgressFunc is called during batch processing to report progress.
type ProgressFunc func(processed int, total int, currentFile string)
