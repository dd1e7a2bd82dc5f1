package indexer

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

// LoadMeta reads a sidecar metadata file. A missing path yields an empty
// DocumentMeta rather than an error, since sidecars are optional.
func LoadMeta(path string) (*DocumentMeta, error) {
	if path == "" {
		return &DocumentMeta{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &DocumentMeta{}, nil
		}
		return nil, fmt.Errorf("reading metadata %s: %w", path, err)
	}

	var meta DocumentMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parsing metadata %s: %w", path, err)
	}
	return &meta, nil
}

// chunkMetadata fills in derived fields and converts the sidecar metadata to
// the form stored with each chunk: the title defaults to the filename, the
// doc ref id is minted when the sidecar carries none, and the description is
// additionally rendered from Markdown to HTML.
func chunkMetadata(meta *DocumentMeta, relPath string) (vectordb.ChunkMetadata, error) {
	title := meta.Title
	if title == "" {
		name := filepath.Base(relPath)
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}

	docRefID := meta.DocRefID
	if docRefID == "" {
		docRefID = uuid.New().String()
	}

	formatted := ""
	if meta.Description != "" {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(meta.Description), &buf); err != nil {
			return vectordb.ChunkMetadata{}, fmt.Errorf("rendering description for %s: %w", relPath, err)
		}
		formatted = strings.TrimSpace(buf.String())
	}

	return vectordb.ChunkMetadata{
		Title:                title,
		Description:          meta.Description,
		DescriptionFormatted: formatted,
		Tags:                 meta.Tags,
		PresentationDate:     meta.PresentationDate,
		Module:               meta.Module,
		PresentationLink:     meta.PresentationLink,
		Presenter:            meta.Presenter,
		DocRefID:             docRefID,
	}, nil
}
