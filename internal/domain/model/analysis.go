// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/ballmaster/internal/domain/geometry"
)

// KickKind classifies a detected kick event.
type KickKind string

// Kick event kinds.
const (
	// KindUp is an upward redirect of the ball, counted as one touch.
	KindUp KickKind = "up"
	// KindGround is the ball settling at the floor, closing an open series.
	KindGround KickKind = "ground"
)

// KickEvent is a single detected touch or ground contact.
// Immutable once created; ordered by FrameNumber within one analysis run.
type KickEvent struct {
	FrameNumber int
	Timestamp   float64 // seconds from video start
	Position    geometry.Point
	Kind        KickKind
	Confidence  float64 // in [0, 1]
}

// Series is an unbroken run of up-kicks closed by a ground event.
type Series struct {
	StartFrame int
	EndFrame   int
	KickCount  int
	Duration   float64 // seconds
}

// AnalysisResult is the immutable outcome of one video analysis run.
type AnalysisResult struct {
	VideoID        string
	TotalKicks     int
	TotalSeries    int
	Kicks          []KickEvent
	Series         []Series
	FPS            float64
	Duration       float64 // video length in seconds
	Summary        string
	ProcessingTime float64 // wall-clock seconds spent analyzing
	Timestamp      time.Time
}
