// Package requestlog persists a structured record of every search and chat
// request so past turns can be audited and replayed.
package requestlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ziadkadry99/doc-search/internal/db"
)

// ChunkInfo is a compact trace of one retrieved chunk, kept small enough to
// log for every request.
type ChunkInfo struct {
	ChunkID     int     `json:"chunk_id"`
	Link        string  `json:"presentation_link"`
	Score       float64 `json:"score"`
	TextLength  int     `json:"text_length"`
	TextPreview string  `json:"text_preview"`
}

// Record is the durable trace of one request.
type Record struct {
	RequestID       string
	Timestamp       time.Time
	Endpoint        string
	Query           string
	CleanedQuery    string
	TopK            int
	ResponseMode    string
	SynthesisMethod string
	ContextLength   int
	TotalSources    int
	Chunks          []ChunkInfo
	WasContextValid bool
	ConfidenceScore float64
	ProcessingTime  time.Duration
	Success         bool
	Error           string
}

// Store reads and writes request records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store over the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Save persists one record. Chunk traces are stored as a JSON column.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	chunks, err := json.Marshal(rec.Chunks)
	if err != nil {
		return fmt.Errorf("marshaling chunk traces: %w", err)
	}
	if rec.Chunks == nil {
		chunks = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO request_logs (
			request_id, timestamp, endpoint, query, cleaned_query, top_k,
			response_mode, synthesis_method, context_length, total_sources,
			chunks, was_context_valid, confidence_score, processing_time_ms,
			success, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RequestID, rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.Endpoint,
		rec.Query, rec.CleanedQuery, rec.TopK,
		rec.ResponseMode, rec.SynthesisMethod, rec.ContextLength, rec.TotalSources,
		string(chunks), rec.WasContextValid, rec.ConfidenceScore, rec.ProcessingTime.Milliseconds(),
		rec.Success, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("inserting request log: %w", err)
	}
	return nil
}

// Recent returns the latest records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_id, timestamp, endpoint, query, cleaned_query, top_k,
			response_mode, synthesis_method, context_length, total_sources,
			chunks, was_context_valid, confidence_score, processing_time_ms,
			success, error
		FROM request_logs
		ORDER BY timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying request logs: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		var (
			rec      Record
			ts       string
			chunks   string
			duration int64
		)
		if err := rows.Scan(
			&rec.RequestID, &ts, &rec.Endpoint, &rec.Query, &rec.CleanedQuery, &rec.TopK,
			&rec.ResponseMode, &rec.SynthesisMethod, &rec.ContextLength, &rec.TotalSources,
			&chunks, &rec.WasContextValid, &rec.ConfidenceScore, &duration,
			&rec.Success, &rec.Error,
		); err != nil {
			return nil, fmt.Errorf("scanning request log: %w", err)
		}
		if rec.Timestamp, err = time.Parse(time.RFC3339Nano, ts); err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", ts, err)
		}
		if err := json.Unmarshal([]byte(chunks), &rec.Chunks); err != nil {
			return nil, fmt.Errorf("unmarshaling chunk traces: %w", err)
		}
		rec.ProcessingTime = time.Duration(duration) * time.Millisecond
		records = append(records, &rec)
	}
	return records, rows.Err()
}
