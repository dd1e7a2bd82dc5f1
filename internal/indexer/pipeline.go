package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/doc-search/internal/config"
	"github.com/ziadkadry99/doc-search/internal/vectordb"
	"github.com/ziadkadry99/doc-search/internal/walker"
)

// Pipeline orchestrates the full indexing workflow: walk, chunk, embed,
// store. Files whose content hash is unchanged since the previous run are
// skipped.
type Pipeline struct {
	store      vectordb.VectorStore
	cfg        config.IndexConfig
	rootDir    string
	dataDir    string
	onProgress ProgressFunc
}

// NewPipeline creates a new Pipeline. rootDir is the corpus root; dataDir is
// where the persisted store and index state live.
func NewPipeline(store vectordb.VectorStore, cfg config.IndexConfig, rootDir, dataDir string) *Pipeline {
	return &Pipeline{
		store:   store,
		cfg:     cfg,
		rootDir: rootDir,
		dataDir: dataDir,
	}
}

// SetProgressFunc sets the progress callback.
func (p *Pipeline) SetProgressFunc(fn ProgressFunc) {
	p.onProgress = fn
}

// preparedDoc is one document read and chunked, ready for storage.
type preparedDoc struct {
	file walker.FileInfo
	docs []vectordb.Document
}

// Run executes the full indexing pipeline over the given files.
func (p *Pipeline) Run(ctx context.Context, files []walker.FileInfo) (*Result, error) {
	start := time.Now()
	result := &Result{}

	state, err := LoadState(p.dataDir)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	var changed []walker.FileInfo
	for _, f := range files {
		if state.IsFileChanged(f.RelPath, f.ContentHash) {
			changed = append(changed, f)
		} else {
			result.FilesSkipped++
		}
	}

	if len(changed) == 0 {
		result.Duration = time.Since(start)
		return result, nil
	}

	prepared, prepErrs := p.prepareFiles(ctx, changed, state)
	result.Errors = append(result.Errors, prepErrs...)
	result.FilesFailed = len(prepErrs)

	// Storage is sequential: chromem holds the whole collection in memory
	// and replacing a document's chunks must not interleave with adds.
	for _, pd := range prepared {
		docRefID := pd.docs[0].Metadata.DocRefID
		if err := p.store.DeleteByDocRef(ctx, docRefID); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("delete old chunks for %s: %w", pd.file.RelPath, err))
			result.FilesFailed++
			continue
		}
		if err := p.store.AddDocuments(ctx, pd.docs); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("store chunks for %s: %w", pd.file.RelPath, err))
			result.FilesFailed++
			continue
		}

		state.FileHashes[pd.file.RelPath] = pd.file.ContentHash
		state.DocRefIDs[pd.file.RelPath] = docRefID
		result.FilesProcessed++
		result.ChunksIndexed += len(pd.docs)
	}

	vectorDir := filepath.Join(p.dataDir, "vectordb")
	if err := os.MkdirAll(vectorDir, 0o755); err != nil {
		return result, fmt.Errorf("create vector dir: %w", err)
	}
	if err := p.store.Persist(ctx, vectorDir); err != nil {
		return result, fmt.Errorf("persist store: %w", err)
	}
	if err := state.SaveState(p.dataDir); err != nil {
		return result, fmt.Errorf("save state: %w", err)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// prepareFiles reads, chunks, and annotates changed files concurrently.
func (p *Pipeline) prepareFiles(ctx context.Context, files []walker.FileInfo, state *IndexState) ([]preparedDoc, []error) {
	concurrency := p.cfg.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	total := len(files)
	sem := make(chan struct{}, concurrency)
	var (
		mu        sync.Mutex
		prepared  []preparedDoc
		errs      []error
		processed int64
		wg        sync.WaitGroup
	)

	for _, file := range files {
		select {
		case <-ctx.Done():
			mu.Lock()
			errs = append(errs, ctx.Err())
			mu.Unlock()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(f walker.FileInfo) {
			defer wg.Done()
			defer func() { <-sem }()

			pd, err := p.prepareFile(f, state)
			mu.Lock()
			if err != nil {
				errs = append(errs, err)
			} else if pd != nil {
				prepared = append(prepared, *pd)
			}
			mu.Unlock()

			count := atomic.AddInt64(&processed, 1)
			if p.onProgress != nil {
				p.onProgress(int(count), total, f.RelPath)
			}
		}(file)
	}

	wg.Wait()
	return prepared, errs
}

func (p *Pipeline) prepareFile(f walker.FileInfo, state *IndexState) (*preparedDoc, error) {
	content, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.RelPath, err)
	}

	meta, err := LoadMeta(f.MetaPath)
	if err != nil {
		return nil, err
	}
	// A doc ref id must stay stable across runs so old chunks can be
	// replaced. Sidecar wins, then the previous run's id, then a fresh one.
	if meta.DocRefID == "" {
		if prev, ok := state.DocRefIDs[f.RelPath]; ok {
			meta.DocRefID = prev
		} else {
			meta.DocRefID = uuid.New().String()
		}
	}

	cm, err := chunkMetadata(meta, f.RelPath)
	if err != nil {
		return nil, err
	}

	chunks := SplitDocument(string(content), p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	if len(chunks) == 0 {
		return nil, nil
	}

	return &preparedDoc{file: f, docs: BuildDocuments(chunks, cm)}, nil
}

// Walk discovers corpus documents under the pipeline's root using the
// configured include and exclude patterns.
func (p *Pipeline) Walk() ([]walker.FileInfo, error) {
	return walker.Walk(walker.Config{
		RootDir: filepath.Clean(p.rootDir),
		Include: p.cfg.Include,
		Exclude: p.cfg.Exclude,
	})
}
