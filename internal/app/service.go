// Package service wires the analysis system together and implements the
// dependencies required by the HTTP API: upload intake, deduplication,
// concurrency limiting, analysis, ranking and video retention.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ballmaster/internal/adapters/repository"
	visionadapter "github.com/okian/ballmaster/internal/adapters/vision"
	"github.com/okian/ballmaster/internal/domain/dedupe"
	"github.com/okian/ballmaster/internal/domain/model"
	"github.com/okian/ballmaster/internal/domain/scoring"
	"github.com/okian/ballmaster/internal/domain/vision"
	"github.com/okian/ballmaster/internal/pipeline"
	"github.com/okian/ballmaster/pkg/logger"
	"github.com/okian/ballmaster/pkg/metrics"
)

// Upload is the full outcome of one accepted upload.
type Upload struct {
	Result model.AnalysisResult
	Entry  repository.Entry
	Ranked bool
}

// VideoInfo describes one retained video on disk.
type VideoInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`
}

// Service implements the API dependencies for the analysis system.
type Service struct {
	mu sync.RWMutex

	board    *repository.Board
	tracker  dedupe.Tracker
	opener   vision.Opener
	analyzer *pipeline.Analyzer

	maxResults     int
	snapshotPath   string
	uploadDir      string
	videosDir      string
	maxConcurrent  int
	maxUploadBytes int64
	dedupeSize     int
	inferenceURL   string

	inferenceTimeout time.Duration
	analyzerOpts     []pipeline.Option

	sem      chan struct{}
	inFlight atomic.Int64

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMaxResults sets the leaderboard capacity.
func WithMaxResults(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxResults = n
		}
	}
}

// WithSnapshotPath sets where the leaderboard persists its snapshot.
func WithSnapshotPath(path string) Option {
	return func(s *Service) {
		s.snapshotPath = path
	}
}

// WithUploadDir sets the staging directory for in-flight uploads.
func WithUploadDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.uploadDir = dir
		}
	}
}

// WithVideosDir sets where videos of ranked results are retained.
func WithVideosDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.videosDir = dir
		}
	}
}

// WithMaxConcurrent bounds the number of analyses running at once.
func WithMaxConcurrent(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxConcurrent = n
		}
	}
}

// WithMaxUploadBytes bounds the accepted upload size.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithDedupeSize sets the size of the content digest window.
func WithDedupeSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dedupeSize = n
		}
	}
}

// WithInferenceURL sets the inference sidecar base URL.
func WithInferenceURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.inferenceURL = url
		}
	}
}

// WithInferenceTimeout bounds a single inference sidecar call.
func WithInferenceTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.inferenceTimeout = d
		}
	}
}

// WithOpener replaces the session opener. Used by tests and batch runs.
func WithOpener(o vision.Opener) Option {
	return func(s *Service) {
		s.opener = o
	}
}

// WithAnalyzerOptions forwards options to the analysis pipeline.
func WithAnalyzerOptions(opts ...pipeline.Option) Option {
	return func(s *Service) {
		s.analyzerOpts = opts
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(lg logger.Logger) Option {
	return func(s *Service) {
		if lg != nil {
			s.logger = lg
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		maxResults:     30,
		snapshotPath:   "top_results.json",
		uploadDir:      "uploads",
		videosDir:      "videos",
		maxConcurrent:  2,
		maxUploadBytes: 100 << 20,
		dedupeSize:     4096,
		inferenceURL:   "http://localhost:8500",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components and loads the persisted
// leaderboard.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting analysis service...")

	for _, dir := range []string{s.uploadDir, s.videosDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	board, err := repository.NewBoard(
		repository.WithMaxSize(s.maxResults),
		repository.WithSnapshotPath(s.snapshotPath),
	)
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}
	s.board = board

	s.tracker = dedupe.New(dedupe.WithMaxSize(s.dedupeSize))
	if s.opener == nil {
		var clientOpts []visionadapter.ClientOption
		if s.inferenceTimeout > 0 {
			clientOpts = append(clientOpts, visionadapter.WithTimeout(s.inferenceTimeout))
		}
		s.opener = visionadapter.NewDispatcher(visionadapter.NewClient(s.inferenceURL, clientOpts...))
	}
	s.analyzer = pipeline.New(s.analyzerOpts...)
	s.sem = make(chan struct{}, s.maxConcurrent)

	s.started = true
	s.logger.Info(ctx, "analysis service started",
		logger.Int("max_results", s.maxResults),
		logger.Int("max_concurrent", s.maxConcurrent),
		logger.String("videos_dir", s.videosDir),
	)
	return nil
}

// Stop shuts the service down. In-flight analyses finish on their own;
// the board's snapshot is already durable after every accepted result.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "analysis service stopped")
}

// ProcessUpload stages, deduplicates and analyzes one uploaded video,
// ranking the result when it qualifies. The call is synchronous: the
// response carries the complete analysis.
func (s *Service) ProcessUpload(ctx context.Context, filename string, r io.Reader) (Upload, error) {
	if !s.isStarted() {
		return Upload{}, ErrNotStarted
	}
	if !visionadapter.IsSupported(filename) {
		metrics.RecordUpload("unsupported")
		return Upload{}, fmt.Errorf("%w: %s", ErrUnsupportedMedia, filename)
	}

	select {
	case s.sem <- struct{}{}:
	default:
		metrics.RecordUpload("busy")
		return Upload{}, ErrBusy
	}
	defer func() { <-s.sem }()

	s.inFlight.Add(1)
	metrics.UpdateUploadsInFlight(int(s.inFlight.Load()))
	defer func() {
		s.inFlight.Add(-1)
		metrics.UpdateUploadsInFlight(int(s.inFlight.Load()))
	}()

	tmpPath, digest, size, err := s.stage(filename, r)
	if err != nil {
		metrics.RecordUpload("error")
		return Upload{}, err
	}
	metrics.RecordUploadBytes(size)

	if s.tracker.SeenAndRecord(ctx, digest) {
		os.Remove(tmpPath)
		metrics.RecordUploadDuplicate()
		metrics.RecordUpload("duplicate")
		return Upload{}, fmt.Errorf("%w: digest %s", ErrDuplicate, digest)
	}

	videoID := s.videoID(filename)
	upload, err := s.analyzeAndRank(ctx, videoID, tmpPath)
	if err != nil {
		// Allow the same content to be retried once the failure clears.
		s.tracker.Unrecord(ctx, digest)
		os.Remove(tmpPath)
		return Upload{}, err
	}

	if upload.Ranked {
		dest := filepath.Join(s.videosDir, videoID)
		if err := os.Rename(tmpPath, dest); err != nil {
			s.logger.Error(ctx, "failed to retain video",
				logger.String("video_id", videoID),
				logger.Error(err),
			)
			os.Remove(tmpPath)
		}
		s.pruneVideos(ctx)
		metrics.RecordUpload("ranked")
	} else {
		os.Remove(tmpPath)
		metrics.RecordUploadRejected()
		metrics.RecordUpload("unranked")
	}
	return upload, nil
}

// stage streams the upload to a temp file while hashing it.
func (s *Service) stage(filename string, r io.Reader) (path, digest string, size int64, err error) {
	tmp, err := os.CreateTemp(s.uploadDir, "upload-*"+strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", "", 0, fmt.Errorf("stage upload: %w", err)
	}
	defer tmp.Close()

	h := sha256.New()
	size, err = io.Copy(io.MultiWriter(tmp, h), io.LimitReader(r, s.maxUploadBytes+1))
	if err != nil {
		os.Remove(tmp.Name())
		return "", "", 0, fmt.Errorf("write upload: %w", err)
	}
	if size > s.maxUploadBytes {
		os.Remove(tmp.Name())
		return "", "", 0, fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxUploadBytes)
	}
	return tmp.Name(), hex.EncodeToString(h.Sum(nil)), size, nil
}

// videoID builds a unique retained name keeping the original extension.
func (s *Service) videoID(filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	// Collapse anything path-like or odd out of the stem.
	stem = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, stem)
	return fmt.Sprintf("%s_%s_%s%s",
		time.Now().UTC().Format("20060102_150405"),
		uuid.NewString()[:8],
		stem,
		ext,
	)
}

func (s *Service) analyzeAndRank(ctx context.Context, videoID, path string) (Upload, error) {
	sess, err := s.opener.Open(ctx, path)
	if err != nil {
		metrics.RecordAnalysis("open_error")
		if errors.Is(err, vision.ErrDecode) {
			return Upload{}, fmt.Errorf("%w: %v", ErrUnsupportedMedia, err)
		}
		return Upload{}, fmt.Errorf("open video: %w", err)
	}
	defer sess.Close()

	start := time.Now()
	res, err := s.analyzer.Analyze(ctx, videoID, sess)
	metrics.RecordAnalysisDuration(time.Since(start).Seconds())
	if err != nil {
		metrics.RecordAnalysis("error")
		return Upload{}, fmt.Errorf("analyze video: %w", err)
	}
	metrics.RecordAnalysis("ok")

	bestKicks, bestDuration := scoring.BestOf(res.Series)
	entry, ranked, err := s.board.AddResult(ctx, repository.Result{
		VideoID:            res.VideoID,
		TotalKicks:         res.TotalKicks,
		TotalSeries:        res.TotalSeries,
		BestSeriesKicks:    bestKicks,
		BestSeriesDuration: bestDuration,
		ProcessingTime:     res.ProcessingTime,
	})
	if err != nil && !errors.Is(err, repository.ErrPersist) {
		return Upload{}, fmt.Errorf("rank result: %w", err)
	}
	if err != nil {
		// Persist failures degrade durability only; the result stands.
		s.logger.Warn(ctx, "leaderboard snapshot not persisted", logger.Error(err))
	}
	return Upload{Result: res, Entry: entry, Ranked: ranked}, nil
}

// pruneVideos removes retained videos that no longer hold a board slot.
func (s *Service) pruneVideos(ctx context.Context) {
	entries, err := os.ReadDir(s.videosDir)
	if err != nil {
		s.logger.Error(ctx, "failed to scan videos directory", logger.Error(err))
		return
	}
	kept := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if s.board.Contains(ctx, e.Name()) {
			kept++
			continue
		}
		if err := os.Remove(filepath.Join(s.videosDir, e.Name())); err != nil {
			s.logger.Error(ctx, "failed to prune video",
				logger.String("name", e.Name()),
				logger.Error(err),
			)
		}
	}
	metrics.UpdateRetainedVideos(kept)
}

// TopN returns the best n leaderboard entries. A zero n means the caller
// omitted the limit and gets the whole board; any other out-of-range n is
// rejected by the store.
func (s *Service) TopN(ctx context.Context, n int) ([]repository.Entry, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	if n == 0 {
		return s.board.All(ctx), nil
	}
	return s.board.TopN(ctx, n)
}

// Export snapshots the full leaderboard for download.
func (s *Service) Export(ctx context.Context) (repository.Export, error) {
	if !s.isStarted() {
		return repository.Export{}, ErrNotStarted
	}
	return s.board.Export(ctx)
}

// MaxResults reports the leaderboard capacity.
func (s *Service) MaxResults() int {
	return s.maxResults
}

// Videos lists the retained videos, newest first.
func (s *Service) Videos(ctx context.Context) ([]VideoInfo, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	entries, err := os.ReadDir(s.videosDir)
	if err != nil {
		return nil, fmt.Errorf("scan videos directory: %w", err)
	}
	out := make([]VideoInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, VideoInfo{Name: e.Name(), Size: info.Size(), Modified: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Modified.After(out[j].Modified)
	})
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"max_results":    s.maxResults,
		"max_concurrent": s.maxConcurrent,
	}
	if s.started {
		stats["total_results"] = s.board.Count(ctx)
		stats["analyses_in_flight"] = s.inFlight.Load()
		stats["dedupe_entries"] = s.tracker.Size()
		if videos, err := os.ReadDir(s.videosDir); err == nil {
			stats["retained_videos"] = len(videos)
		}
		if entries := s.board.All(ctx); len(entries) > 0 {
			var sumScore, sumKicks float64
			maxKicks := 0
			for _, e := range entries {
				sumScore += e.Score
				sumKicks += float64(e.TotalKicks)
				if e.TotalKicks > maxKicks {
					maxKicks = e.TotalKicks
				}
			}
			stats["average_score"] = sumScore / float64(len(entries))
			stats["max_score"] = entries[0].Score
			stats["min_score"] = entries[len(entries)-1].Score
			stats["average_kicks"] = sumKicks / float64(len(entries))
			stats["max_kicks"] = maxKicks
			if exp, err := s.board.Export(ctx); err == nil {
				stats["last_updated"] = exp.LastUpdated
			}
		}
	}
	return stats
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}
