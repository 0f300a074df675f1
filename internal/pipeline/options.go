package pipeline

import (
	"github.com/okian/ballmaster/internal/domain/kick"
	"github.com/okian/ballmaster/pkg/logger"
)

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithFrameSkip sets the sampling stride: only every n-th frame is
// processed. Values below 1 disable striding.
func WithFrameSkip(n int) Option {
	return func(a *Analyzer) {
		a.frameSkip = n
	}
}

// WithMovementThreshold sets the minimum ball displacement, in pixels,
// between processed frames. Zero disables the filter.
func WithMovementThreshold(px float64) Option {
	return func(a *Analyzer) {
		a.movementThreshold = px
	}
}

// WithMinBallConfidence sets the confidence floor below which a ball
// detection counts as no detection. Zero disables the floor so the
// session's detections pass through unfiltered.
func WithMinBallConfidence(c float64) Option {
	return func(a *Analyzer) {
		a.minBallConfidence = c
	}
}

// WithDetectorOptions forwards options to each per-video kick detector.
func WithDetectorOptions(opts ...kick.Option) Option {
	return func(a *Analyzer) {
		a.detectorOpts = opts
	}
}

// WithLogger sets the analyzer's logger.
func WithLogger(lg logger.Logger) Option {
	return func(a *Analyzer) {
		a.lg = lg
	}
}
