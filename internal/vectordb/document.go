package vectordb

// Document represents one retrievable chunk of document evidence.
type Document struct {
	ID       string
	Content  string
	Metadata ChunkMetadata
}

// ChunkMetadata holds the structured fields attached to every chunk, plus a
// residual open mapping for forward-compatible extra keys. A missing field
// reads as its zero value.
type ChunkMetadata struct {
	Title                string
	Description          string
	DescriptionFormatted string
	Tags                 string
	PresentationDate     string
	Module               string
	PresentationLink     string
	Presenter            string
	DocRefID             string

	// Extra carries any metadata keys not covered by the named fields.
	Extra map[string]string
}

// SearchResult pairs a document with the index's native similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// Metadata map keys used by the underlying store.
const (
	metaTitle                = "title"
	metaDescription          = "description"
	metaDescriptionFormatted = "description_formatted"
	metaTags                 = "tags"
	metaPresentationDate     = "presentation_date"
	metaModule               = "module"
	metaPresentationLink     = "presentation_link"
	metaPresenter            = "presenter"
	metaDocRefID             = "doc_ref_id"
)

// metadataToMap flattens ChunkMetadata into the string map the store persists.
func metadataToMap(m ChunkMetadata) map[string]string {
	out := make(map[string]string, 9+len(m.Extra))
	for k, v := range m.Extra {
		out[k] = v
	}
	set := func(key, val string) {
		if val != "" {
			out[key] = val
		}
	}
	set(metaTitle, m.Title)
	set(metaDescription, m.Description)
	set(metaDescriptionFormatted, m.DescriptionFormatted)
	set(metaTags, m.Tags)
	set(metaPresentationDate, m.PresentationDate)
	set(metaModule, m.Module)
	set(metaPresentationLink, m.PresentationLink)
	set(metaPresenter, m.Presenter)
	set(metaDocRefID, m.DocRefID)
	return out
}

// mapToMetadata is the inverse of metadataToMap. Unknown keys land in Extra.
func mapToMetadata(in map[string]string) ChunkMetadata {
	m := ChunkMetadata{}
	for k, v := range in {
		switch k {
		case metaTitle:
			m.Title = v
		case metaDescription:
			m.Description = v
		case metaDescriptionFormatted:
			m.DescriptionFormatted = v
		case metaTags:
			m.Tags = v
		case metaPresentationDate:
			m.PresentationDate = v
		case metaModule:
			m.Module = v
		case metaPresentationLink:
			m.PresentationLink = v
		case metaPresenter:
			m.Presenter = v
		case metaDocRefID:
			m.DocRefID = v
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]string)
			}
			m.Extra[k] = v
		}
	}
	return m
}
