package search

import (
	"fmt"
	"strings"
)

// NoContextSentinel is returned instead of an empty context when no chunks
// survive retrieval. The answer generator sees it and treats the turn as
// context-free rather than hallucinating from nothing.
const NoContextSentinel = "No relevant context found."

const (
	truncationMarker = "\n... [Content truncated for length] ..."
	chunkSeparator   = "\n\n---\n\n"
)

// Assembler builds the final context string from ranked source nodes. Each
// chunk is prefixed with an inline [METADATA] block so the generator can cite
// titles, links and relevance scores without a separate lookup.
type Assembler struct {
	maxChunkLength int
}

// NewAssembler creates an Assembler that truncates individual chunk texts
// longer than maxChunkLength characters.
func NewAssembler(maxChunkLength int) *Assembler {
	return &Assembler{maxChunkLength: maxChunkLength}
}

// Assemble renders the nodes in the order given. Empty input yields the
// no-context sentinel.
func (a *Assembler) Assemble(nodes []SourceNode) string {
	if len(nodes) == 0 {
		return NoContextSentinel
	}

	parts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		parts = append(parts, a.renderChunk(node))
	}
	return strings.Join(parts, chunkSeparator)
}

func (a *Assembler) renderChunk(node SourceNode) string {
	m := node.Metadata

	var b strings.Builder
	b.WriteString("[METADATA]\n")
	fmt.Fprintf(&b, "PRESENTATION_LINK: %s\n", orNA(m.PresentationLink))
	fmt.Fprintf(&b, "SCORE: %.3f\n", node.Score)
	fmt.Fprintf(&b, "TITLE: %s\n", orNA(m.Title))
	fmt.Fprintf(&b, "DESCRIPTION: %s\n", orNA(m.Description))
	fmt.Fprintf(&b, "DESCRIPTION_FORMATTED: %s\n", orNA(m.DescriptionFormatted))
	fmt.Fprintf(&b, "MODULE: %s\n", orNA(m.Module))
	fmt.Fprintf(&b, "PRESENTATION_DATE: %s\n", orNA(m.PresentationDate))
	fmt.Fprintf(&b, "TAGS: %s\n", orNA(m.Tags))
	b.WriteString("[/METADATA]\n")

	text := strings.TrimSpace(node.Text)
	if runes := []rune(text); len(runes) > a.maxChunkLength {
		text = string(runes[:a.maxChunkLength]) + truncationMarker
	}
	b.WriteString(text)

	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
