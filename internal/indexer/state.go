package indexer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// IndexState tracks which documents have been indexed and their content
// hashes, so re-runs only touch changed files.
type IndexState struct {
	FileHashes  map[string]string `json:"file_hashes"`
	DocRefIDs   map[string]string `json:"doc_ref_ids"`
	LastUpdated time.Time         `json:"last_updated"`
}

// LoadState reads index state from state.json inside the data directory.
func LoadState(dir string) (*IndexState, error) {
	path := filepath.Join(dir, "state.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &IndexState{
				FileHashes: make(map[string]string),
				DocRefIDs:  make(map[string]string),
			}, nil
		}
		return nil, err
	}

	var state IndexState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	if state.FileHashes == nil {
		state.FileHashes = make(map[string]string)
	}
	if state.DocRefIDs == nil {
		state.DocRefIDs = make(map[string]string)
	}
	return &state, nil
}

// SaveState writes the index state to state.json inside the data directory.
func (s *IndexState) SaveState(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	s.LastUpdated = time.Now()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "state.json"), data, 0o644)
}

// ClearState removes the saved index state, forcing the next run to
// reindex every document.
func ClearState(dir string) error {
	err := os.Remove(filepath.Join(dir, "state.json"))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// IsFileChanged returns true if the file's content hash differs from the stored hash.
func (s *IndexState) IsFileChanged(filePath, contentHash string) bool {
	stored, ok := s.FileHashes[filePath]
	if !ok {
		return true
	}
	return stored != contentHash
}
