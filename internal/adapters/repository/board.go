package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/okian/ballmaster/internal/domain/scoring"
	"github.com/okian/ballmaster/pkg/logger"
	"github.com/okian/ballmaster/pkg/metrics"
)

const defaultMaxSize = 30

// snapshot is the on-disk form of the board.
type snapshot struct {
	MaxResults  int       `json:"max_results"`
	LastUpdated time.Time `json:"last_updated"`
	Results     []Entry   `json:"results"`
}

// Board is the in-memory leaderboard with JSON snapshot persistence.
// Entries are kept sorted by descending score; ties keep insertion order.
type Board struct {
	mu          sync.RWMutex
	entries     []Entry
	lastUpdated time.Time

	maxSize int
	path    string
	lg      logger.Logger
	now     func() time.Time
}

// NewBoard creates a board, loading any existing snapshot from the
// configured path. A missing snapshot starts an empty board; a corrupt
// one is logged and ignored rather than blocking startup.
func NewBoard(opts ...BoardOption) (*Board, error) {
	b := &Board{
		maxSize: defaultMaxSize,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.lg == nil {
		b.lg = logger.Named("repository")
	}

	if err := b.load(); err != nil {
		if errors.Is(err, ErrMalformedSnapshot) {
			b.lg.Warn(context.Background(), "ignoring malformed snapshot",
				logger.String("path", b.path),
				logger.Error(err),
			)
			b.entries = nil
		} else {
			return nil, err
		}
	}
	metrics.UpdateLeaderboardSize(len(b.entries))
	return b, nil
}

func (b *Board) load() error {
	if b.path == "" {
		return nil
	}
	data, err := os.ReadFile(b.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read snapshot %s: %w", b.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	sort.SliceStable(snap.Results, func(i, j int) bool {
		return snap.Results[i].Score > snap.Results[j].Score
	})
	if len(snap.Results) > b.maxSize {
		snap.Results = snap.Results[:b.maxSize]
	}
	b.entries = snap.Results
	b.lastUpdated = snap.LastUpdated
	return nil
}

// AddResult scores res and inserts it if the board has room or the score
// strictly beats the current worst entry. Accepted mutations are
// persisted synchronously; a persist failure keeps the in-memory state
// and surfaces as a wrapped ErrPersist.
func (b *Board) AddResult(ctx context.Context, res Result) (Entry, bool, error) {
	entry := Entry{
		VideoName:          res.VideoID,
		TotalKicks:         res.TotalKicks,
		TotalSeries:        res.TotalSeries,
		BestSeriesKicks:    res.BestSeriesKicks,
		BestSeriesDuration: res.BestSeriesDuration,
		ProcessingTime:     res.ProcessingTime,
		Timestamp:          b.now(),
		Score: scoring.Score(scoring.Input{
			TotalKicks:         res.TotalKicks,
			BestSeriesKicks:    res.BestSeriesKicks,
			BestSeriesDuration: res.BestSeriesDuration,
			ProcessingTime:     res.ProcessingTime,
		}),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) >= b.maxSize {
		worst := b.entries[len(b.entries)-1]
		if entry.Score <= worst.Score {
			metrics.RecordLeaderboardRejected()
			return entry, false, nil
		}
		b.entries[len(b.entries)-1] = entry
	} else {
		b.entries = append(b.entries, entry)
	}

	sort.SliceStable(b.entries, func(i, j int) bool {
		return b.entries[i].Score > b.entries[j].Score
	})
	b.lastUpdated = entry.Timestamp

	metrics.RecordLeaderboardAccepted()
	metrics.UpdateLeaderboardSize(len(b.entries))

	if err := b.persist(); err != nil {
		metrics.RecordPersistError()
		b.lg.Error(ctx, "snapshot persist failed",
			logger.String("path", b.path),
			logger.Error(err),
		)
		return entry, true, fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return entry, true, nil
}

// persist writes the snapshot atomically via temp file and rename.
// Caller holds b.mu.
func (b *Board) persist() error {
	if b.path == "" {
		return nil
	}
	start := time.Now()

	snap := snapshot{
		MaxResults:  b.maxSize,
		LastUpdated: b.lastUpdated,
		Results:     b.entries,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(b.path)
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename snapshot: %w", err)
	}

	metrics.RecordSnapshotPersist(float64(time.Since(start).Milliseconds()))
	return nil
}

// TopN returns up to limit entries in descending score order. The limit
// must be in [1, maxSize]; callers that want every entry use All.
func (b *Board) TopN(ctx context.Context, limit int) ([]Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if limit < 1 || limit > b.maxSize {
		return nil, fmt.Errorf("%w: %d not in [1,%d]", ErrInvalidLimit, limit, b.maxSize)
	}
	if limit > len(b.entries) {
		limit = len(b.entries)
	}
	out := make([]Entry, limit)
	copy(out, b.entries[:limit])
	return out, nil
}

// All returns every entry in descending score order.
func (b *Board) All(ctx context.Context) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Export snapshots the whole board for download.
func (b *Board) Export(ctx context.Context) (Export, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return Export{
		MaxResults:  b.maxSize,
		TotalSaved:  len(out),
		LastUpdated: b.lastUpdated,
		Results:     out,
	}, nil
}

// Count reports the number of ranked entries.
func (b *Board) Count(ctx context.Context) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Contains reports whether a video name currently holds a board slot.
func (b *Board) Contains(ctx context.Context, videoName string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range b.entries {
		if e.VideoName == videoName {
			return true
		}
	}
	return false
}
