// Package pipeline runs one video's detections through the kick detector
// and folds the resulting event stream into a scored analysis summary.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/ballmaster/internal/domain/geometry"
	"github.com/okian/ballmaster/internal/domain/kick"
	"github.com/okian/ballmaster/internal/domain/model"
	"github.com/okian/ballmaster/internal/domain/series"
	"github.com/okian/ballmaster/internal/domain/vision"
	"github.com/okian/ballmaster/pkg/logger"
	"github.com/okian/ballmaster/pkg/metrics"
)

const (
	defaultFrameSkip         = 4
	defaultMovementThreshold = 10.0

	// defaultMinBallConfidence filters flickering detections before they
	// reach the kick detector.
	defaultMinBallConfidence = 0.6

	// fallbackFPS covers sources whose container reports no frame rate.
	fallbackFPS = 30.0
)

// Analyzer processes detection sessions. One Analyzer is safe for
// concurrent use; each Analyze call owns its own detector state.
type Analyzer struct {
	frameSkip         int
	movementThreshold float64
	minBallConfidence float64
	detectorOpts      []kick.Option
	lg                logger.Logger
}

// New builds an analyzer with production settings.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		frameSkip:         defaultFrameSkip,
		movementThreshold: defaultMovementThreshold,
		minBallConfidence: defaultMinBallConfidence,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.lg == nil {
		a.lg = logger.Named("pipeline")
	}
	return a
}

// Analyze consumes sess to the end and returns the full analysis. A
// mid-stream source failure aborts with no partial result. Detector
// call failures on individual frames are tolerated and counted as
// detection misses.
func (a *Analyzer) Analyze(ctx context.Context, videoID string, sess vision.Session) (model.AnalysisResult, error) {
	meta := sess.Meta()
	fps := meta.FPS
	if fps <= 0 {
		fps = fallbackFPS
	}
	frameHeight := float64(meta.FrameHeight)

	det := kick.New(a.detectorOpts...)
	var (
		events   []model.KickEvent
		lastBall geometry.Point
		haveLast bool
	)

	start := time.Now()
	for {
		frame, ok, err := sess.Next(ctx)
		if err != nil {
			return model.AnalysisResult{}, fmt.Errorf("read frame stream for %s: %w", videoID, err)
		}
		if !ok {
			break
		}

		if a.frameSkip > 1 && frame.Number%a.frameSkip != 0 {
			metrics.RecordFrameSkipped("stride")
			continue
		}

		ball, found, err := sess.DetectBall(ctx, frame)
		if err != nil {
			metrics.RecordDetectionMiss()
			a.lg.Debug(ctx, "ball detection failed",
				logger.String("video_id", videoID),
				logger.Int("frame", frame.Number),
				logger.Error(err),
			)
			continue
		}
		if !found || ball.Confidence < a.minBallConfidence {
			metrics.RecordFrameSkipped("no_ball")
			continue
		}

		if haveLast && a.movementThreshold > 0 &&
			geometry.Distance(lastBall, ball.Position) < a.movementThreshold {
			metrics.RecordFrameSkipped("low_movement")
			continue
		}

		det.Track(ball.Position)
		lastBall = ball.Position
		haveLast = true
		metrics.RecordFrameProcessed()

		if !det.Warm() {
			continue
		}

		feet, err := sess.DetectFeet(ctx, frame)
		if err != nil {
			metrics.RecordDetectionMiss()
			feet = nil
		}

		ev, emitted := det.Observe(kick.Observation{
			Ball:        ball.Position,
			Feet:        feet,
			FrameNumber: frame.Number,
			Timestamp:   float64(frame.Number) / fps,
			FrameHeight: frameHeight,
		})
		if emitted {
			events = append(events, ev)
			metrics.RecordKickEvent(string(ev.Kind))
		}
	}

	closed := series.Fold(events)
	for range closed {
		metrics.RecordSeriesClosed()
	}

	totalKicks := 0
	for _, ev := range events {
		if ev.Kind == model.KindUp {
			totalKicks++
		}
	}

	res := model.AnalysisResult{
		VideoID:        videoID,
		TotalKicks:     totalKicks,
		TotalSeries:    len(closed),
		Kicks:          events,
		Series:         closed,
		FPS:            fps,
		Duration:       float64(meta.FrameCount) / fps,
		Summary:        fmt.Sprintf("%d kicks across %d series", totalKicks, len(closed)),
		ProcessingTime: time.Since(start).Seconds(),
		Timestamp:      time.Now(),
	}

	a.lg.Info(ctx, "analysis complete",
		logger.String("video_id", videoID),
		logger.Int("total_kicks", res.TotalKicks),
		logger.Int("total_series", res.TotalSeries),
		logger.Float64("processing_time", res.ProcessingTime),
	)
	return res, nil
}
