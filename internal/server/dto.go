package server

import (
	"github.com/ziadkadry99/doc-search/internal/answer"
	"github.com/ziadkadry99/doc-search/internal/search"
)

// searchRequest is the body of POST /ai/api/search.
type searchRequest struct {
	Question        string `json:"question"`
	TopK            int    `json:"top_k"`
	ResponseMode    string `json:"response_mode"`
	PreviousContext string `json:"previous_context"`
	IsFollowUp      bool   `json:"is_follow_up"`
}

// chatMessage is one turn of client-carried history.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatSearchRequest is the body of POST /ai/api/search-chat.
type chatSearchRequest struct {
	searchRequest
	MessageHistory []chatMessage `json:"message_history"`
}

// sourceMetadata mirrors the metadata keys clients already consume.
type sourceMetadata struct {
	DocRefID             string  `json:"doc_ref_id"`
	Score                float64 `json:"score"`
	Title                string  `json:"DOC_TITLE"`
	Description          string  `json:"DOC_DESCRIPTION"`
	DescriptionFormatted string  `json:"DOC_DESCRIPTION_FORMATTED"`
	Tags                 string  `json:"TAGS"`
	PresentationDate     string  `json:"PRESENTATION_DATE"`
	Module               string  `json:"DOC_MODULE"`
	PresentationLink     string  `json:"PRESENTATION_LINK"`
	Presenter            string  `json:"PRESENTER_1_NAME"`
}

// sourceNode is one context chunk in a response.
type sourceNode struct {
	Text     string         `json:"text"`
	Score    float64        `json:"score"`
	Metadata sourceMetadata `json:"metadata"`
	NodeID   string         `json:"node_id"`
}

// searchResponse is the body of a search response, successful or not.
type searchResponse struct {
	Answer          string       `json:"answer"`
	Context         string       `json:"context"`
	Suggestions     []string     `json:"suggestions"`
	WasContextValid bool         `json:"was_context_valid"`
	ConfidenceScore float64      `json:"confidence_score"`
	Success         bool         `json:"success"`
	AIUsed          string       `json:"ai_used"`
	ProcessingTime  float64      `json:"processing_time"`
	SourceNodes     []sourceNode `json:"source_nodes"`
	SynthesisMethod string       `json:"synthesis_method"`
	TotalSources    int          `json:"total_sources"`
}

// chatSearchResponse additionally reports the context verdicts before and
// after the in-turn retry.
type chatSearchResponse struct {
	searchResponse
	WasContextValidNewKey bool `json:"was_context_valid_new_key"`
	WasContextValidOldKey bool `json:"was_context_valid_old_key"`
}

func toSourceNodes(sources []search.SourceNode) []sourceNode {
	nodes := make([]sourceNode, 0, len(sources))
	for _, src := range sources {
		m := src.Metadata
		nodes = append(nodes, sourceNode{
			Text:   src.Text,
			Score:  src.Score,
			NodeID: src.NodeID,
			Metadata: sourceMetadata{
				DocRefID:             m.DocRefID,
				Score:                src.Score,
				Title:                m.Title,
				Description:          m.Description,
				DescriptionFormatted: m.DescriptionFormatted,
				Tags:                 m.Tags,
				PresentationDate:     m.PresentationDate,
				Module:               m.Module,
				PresentationLink:     m.PresentationLink,
				Presenter:            m.Presenter,
			},
		})
	}
	return nodes
}

func toHistory(messages []chatMessage) []answer.Turn {
	history := make([]answer.Turn, 0, len(messages))
	for _, msg := range messages {
		history = append(history, answer.Turn{Role: msg.Role, Content: msg.Content})
	}
	return history
}
