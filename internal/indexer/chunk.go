package indexer

import (
	"fmt"
	"strings"

	"github.com/ziadkadry99/doc-search/internal/vectordb"
)

// SplitDocument splits document text into chunks of roughly chunkSize
// characters, preferring sentence boundaries. Consecutive chunks share
// roughly overlap characters of trailing sentences so retrieval does not
// lose meaning at chunk edges.
func SplitDocument(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		return []string{text}
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	sentences := splitSentences(text)

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.TrimSpace(strings.Join(current, " ")))

		// Seed the next chunk with trailing sentences up to the overlap.
		var carried []string
		carriedLen := 0
		for i := len(current) - 1; i >= 0; i-- {
			s := current[i]
			if carriedLen+len(s) > overlap {
				break
			}
			carried = append([]string{s}, carried...)
			carriedLen += len(s) + 1
		}
		current = carried
		currentLen = carriedLen
	}

	for _, sentence := range sentences {
		// A single oversized sentence becomes its own chunk.
		if len(sentence) >= chunkSize {
			flush()
			chunks = append(chunks, sentence)
			current = nil
			currentLen = 0
			continue
		}
		if currentLen+len(sentence)+1 > chunkSize {
			flush()
		}
		current = append(current, sentence)
		currentLen += len(sentence) + 1
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.TrimSpace(strings.Join(current, " ")))
	}

	// The overlap seeding can leave a final chunk that is pure carry-over.
	if n := len(chunks); n > 1 && strings.HasSuffix(chunks[n-2], chunks[n-1]) {
		chunks = chunks[:n-1]
	}

	return chunks
}

// splitSentences breaks text into sentences, treating blank lines as hard
// boundaries.
func splitSentences(text string) []string {
	var sentences []string
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(strings.ReplaceAll(para, "\n", " "))
		if para == "" {
			continue
		}

		start := 0
		runes := []rune(para)
		for i := 0; i < len(runes); i++ {
			if runes[i] != '.' && runes[i] != '!' && runes[i] != '?' {
				continue
			}
			// Sentence ends at punctuation followed by a space or end of text.
			if i+1 < len(runes) && runes[i+1] != ' ' {
				continue
			}
			s := strings.TrimSpace(string(runes[start : i+1]))
			if s != "" {
				sentences = append(sentences, s)
			}
			start = i + 1
		}
		if rest := strings.TrimSpace(string(runes[start:])); rest != "" {
			sentences = append(sentences, rest)
		}
	}
	return sentences
}

// BuildDocuments pairs each chunk with the document metadata, giving every
// chunk a stable id derived from the doc ref id and chunk position.
func BuildDocuments(chunks []string, meta vectordb.ChunkMetadata) []vectordb.Document {
	docs := make([]vectordb.Document, 0, len(chunks))
	for i, chunk := range chunks {
		docs = append(docs, vectordb.Document{
			ID:       fmt.Sprintf("%s#%d", meta.DocRefID, i),
			Content:  chunk,
			Metadata: meta,
		})
	}
	return docs
}
