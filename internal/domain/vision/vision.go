// Package vision defines the contracts between the analysis pipeline and
// whatever produces per-frame ball and pose detections: a live inference
// sidecar for real videos, or a recorded detection log for replays.
package vision

import (
	"context"

	"github.com/okian/ballmaster/internal/domain/geometry"
)

// Meta describes a detection source before any frames are read.
type Meta struct {
	FPS         float64
	FrameCount  int
	FrameHeight int
}

// Frame identifies one frame of the source.
type Frame struct {
	Number int
}

// Detection is a located ball with the detector's own confidence.
type Detection struct {
	Position   geometry.Point
	Confidence float64
}

// Source yields frames in order. Next returns false once the source is
// exhausted; a non-nil error means the source failed mid-stream.
type Source interface {
	Meta() Meta
	Next(ctx context.Context) (Frame, bool, error)
	Close() error
}

// BallDetector locates the ball in a frame. The boolean is false when no
// ball was found, which is not an error.
type BallDetector interface {
	DetectBall(ctx context.Context, frame Frame) (Detection, bool, error)
}

// PoseEstimator locates foot keypoints in a frame. An empty slice means
// no feet were detected.
type PoseEstimator interface {
	DetectFeet(ctx context.Context, frame Frame) ([]geometry.Point, error)
}

// Session bundles everything needed to analyze one video.
type Session interface {
	Source
	BallDetector
	PoseEstimator
}

// Opener creates a session for a video file or detection log on disk.
type Opener interface {
	Open(ctx context.Context, path string) (Session, error)
}
