package domain

import "time"

// CorpusItem represents one retrievable news snippet. Items are created during
// a batch ingestion pass and are immutable afterwards; re-embedding requires a
// wholesale corpus rebuild.
type CorpusItem struct {
	ID        string
	Text      string
	Vector    []float32
	Metadata  map[string]string
	CreatedAt time.Time
}

// ClientDocument is the query side: cleaned landing-page text supplied by the
// acquisition pipeline. The embedding and keywords are computed per ranking
// call and never persisted.
type ClientDocument struct {
	RawText string
}

// RelevanceResult is one ranked match handed to the generation step.
type RelevanceResult struct {
	ItemID    string
	Score     float32
	Rank      int // 1-based
	Rationale string
	Metadata  map[string]string
}

// CorpusStats summarizes the served corpus for operational surfaces.
type CorpusStats struct {
	Size      int
	Dimension int
	Revision  int64
}
