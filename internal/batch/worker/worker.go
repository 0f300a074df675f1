// Package worker runs the batch analysis pool: workers pull pending
// videos off the job queue, run them through the pipeline and submit
// the results for ranking.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/ballmaster/internal/adapters/repository"
	"github.com/okian/ballmaster/internal/batch/queue"
	"github.com/okian/ballmaster/internal/domain/model"
	"github.com/okian/ballmaster/internal/domain/scoring"
	"github.com/okian/ballmaster/internal/domain/vision"
	"github.com/okian/ballmaster/pkg/logger"
	"github.com/okian/ballmaster/pkg/metrics"
)

const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Analyzer runs one opened session to completion.
type Analyzer interface {
	Analyze(ctx context.Context, videoID string, sess vision.Session) (model.AnalysisResult, error)
}

// Ranker submits completed analyses for ranking.
type Ranker interface {
	AddResult(ctx context.Context, res repository.Result) (repository.Entry, bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker is one member of the pool.
type InMemoryWorker struct {
	queue    Queue
	opener   vision.Opener
	analyzer Analyzer
	ranker   Ranker
	name     string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker over the given dependencies.
func NewInMemoryWorker(q Queue, opener vision.Opener, analyzer Analyzer, ranker Ranker, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		opener:   opener,
		analyzer: analyzer,
		ranker:   ranker,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run consumes jobs until the context is canceled, the worker is shut
// down, or the queue closes.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.processJob(ctx, job); err != nil {
				w.logger.Error(ctx, "job failed",
					logger.String("video_id", job.VideoID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) processJob(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	sess, err := w.opener.Open(ctx, job.Path)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "open_error")
		return fmt.Errorf("open %s: %w", job.Path, err)
	}
	defer sess.Close()

	res, err := w.analyzer.Analyze(ctx, job.VideoID, sess)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "analysis_error")
		return fmt.Errorf("analyze %s: %w", job.VideoID, err)
	}

	bestKicks, bestDuration := scoring.BestOf(res.Series)
	entry, accepted, err := w.ranker.AddResult(ctx, repository.Result{
		VideoID:            res.VideoID,
		TotalKicks:         res.TotalKicks,
		TotalSeries:        res.TotalSeries,
		BestSeriesKicks:    bestKicks,
		BestSeriesDuration: bestDuration,
		ProcessingTime:     res.ProcessingTime,
	})
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "ranking_error")
		return fmt.Errorf("rank %s: %w", res.VideoID, err)
	}

	w.logger.Info(ctx, "job complete",
		logger.String("video_id", job.VideoID),
		logger.Float64("score", entry.Score),
		logger.Bool("ranked", accepted),
	)
	return nil
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates workerCount workers; values below 1 default to the
// CPU count.
func NewPool(workerCount int, q Queue, opener vision.Opener, analyzer Analyzer, ranker Ranker) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		p.workers[i] = NewInMemoryWorker(q, opener, analyzer, ranker,
			WithName("worker-"+strconv.Itoa(i)),
		)
	}
	metrics.UpdateWorkerActiveCount(workerCount)
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has stopped. Close the queue first or
// Wait will not return.
func (p *Pool) Wait() {
	for _, w := range p.workers {
		<-w.done
	}
}

// Stop signals all workers and waits briefly for each. In-flight jobs
// finish; queued jobs are abandoned.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		close(w.shutdown)
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and drains all workers.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
