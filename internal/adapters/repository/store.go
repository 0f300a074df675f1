// Package repository keeps the top analysis results. The board is a
// bounded, score-ordered leaderboard persisted as a JSON snapshot after
// every accepted mutation, so a restart resumes exactly where the last
// accepted result left it.
package repository

import (
	"context"
	"time"
)

// Result is a completed analysis submitted for ranking.
type Result struct {
	VideoID            string
	TotalKicks         int
	TotalSeries        int
	BestSeriesKicks    int
	BestSeriesDuration float64
	ProcessingTime     float64
}

// Entry is one ranked leaderboard row. The JSON keys match the snapshot
// format on disk and the wire format of the results API.
type Entry struct {
	VideoName          string    `json:"video_name"`
	TotalKicks         int       `json:"total_kicks"`
	TotalSeries        int       `json:"total_series"`
	BestSeriesKicks    int       `json:"best_series_kicks"`
	BestSeriesDuration float64   `json:"best_series_duration"`
	ProcessingTime     float64   `json:"processing_time"`
	Timestamp          time.Time `json:"timestamp"`
	Score              float64   `json:"score"`
}

// Export is the full-board document produced for download.
type Export struct {
	MaxResults  int       `json:"max_results"`
	TotalSaved  int       `json:"total_saved"`
	LastUpdated time.Time `json:"last_updated"`
	Results     []Entry   `json:"results"`
}

// Store ranks analysis results.
type Store interface {
	// AddResult scores and ranks a result. The boolean reports whether the
	// board accepted it; a full board rejects anything not strictly better
	// than its current worst entry.
	AddResult(ctx context.Context, res Result) (Entry, bool, error)

	// TopN returns the best entries in descending score order. Limits
	// outside [1, capacity] are rejected with ErrInvalidLimit.
	TopN(ctx context.Context, limit int) ([]Entry, error)

	// All returns every entry in descending score order.
	All(ctx context.Context) []Entry

	// Export snapshots the whole board for download.
	Export(ctx context.Context) (Export, error)

	// Count reports how many entries the board holds.
	Count(ctx context.Context) int
}
