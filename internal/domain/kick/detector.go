// Package kick classifies ball trajectories into juggling kick events.
//
// A Detector consumes per-frame ball positions via Track and, once its
// velocity window is warm, classifies each observation into at most one
// event: an upward kick when the trajectory bends sharply with sufficient
// upward speed, or a ground touch when an open kick series ends with the
// ball near the bottom of the frame.
package kick

import (
	"math"

	"github.com/okian/ballmaster/internal/domain/geometry"
	"github.com/okian/ballmaster/internal/domain/model"
)

// Detection thresholds. Distances and speeds are in pixels; intervals in
// frames; angles in degrees.
const (
	defaultKickDistance        = 400.0
	defaultVelocityThreshold   = 8.0
	defaultMinKickInterval     = 8
	defaultGroundRatio         = 0.85
	defaultTrajectoryThreshold = 25.0
	defaultMinConfidence       = 0.6

	positionHistorySize = 10
	velocityHistorySize = 5

	groundConfidence = 0.9
)

// Observation carries everything the detector needs to classify one
// processed frame.
type Observation struct {
	Ball        geometry.Point
	Feet        []geometry.Point
	FrameNumber int
	Timestamp   float64
	FrameHeight float64
}

// Detector is a stateful per-video classifier. It is not safe for
// concurrent use; each analysis owns its own instance.
type Detector struct {
	positions  ring[geometry.Point]
	velocities ring[geometry.Vector]

	inSeries      bool
	lastKickFrame int

	kickDistance        float64
	velocityThreshold   float64
	minKickInterval     int
	groundRatio         float64
	trajectoryThreshold float64
	minConfidence       float64
}

// New returns a detector with production thresholds, adjustable via options.
func New(opts ...Option) *Detector {
	d := &Detector{
		positions:           newRing[geometry.Point](positionHistorySize),
		velocities:          newRing[geometry.Vector](velocityHistorySize),
		lastKickFrame:       -1,
		kickDistance:        defaultKickDistance,
		velocityThreshold:   defaultVelocityThreshold,
		minKickInterval:     defaultMinKickInterval,
		groundRatio:         defaultGroundRatio,
		trajectoryThreshold: defaultTrajectoryThreshold,
		minConfidence:       defaultMinConfidence,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Track records a ball position. Once two positions exist, each new one also
// records an inter-frame velocity.
func (d *Detector) Track(p geometry.Point) {
	if d.positions.len() > 0 {
		d.velocities.push(geometry.Delta(d.positions.fromEnd(0), p))
	}
	d.positions.push(p)
}

// Warm reports whether enough velocity samples exist to measure a
// trajectory change between consecutive velocity vectors.
func (d *Detector) Warm() bool {
	return d.velocities.len() >= 3
}

// InSeries reports whether an open kick series is in progress.
func (d *Detector) InSeries() bool {
	return d.inSeries
}

// Observe classifies the current observation, returning at most one event.
// The up-kick test runs first; the ground-touch test only runs when the
// up-kick motion test did not fire. Detector state changes only when an
// event is emitted.
func (d *Detector) Observe(obs Observation) (model.KickEvent, bool) {
	if d.positions.len() < 2 {
		return model.KickEvent{}, false
	}
	if d.lastKickFrame >= 0 && obs.FrameNumber-d.lastKickFrame < d.minKickInterval {
		return model.KickEvent{}, false
	}

	vel := d.velocities.fromEnd(0)
	traj := d.trajectoryChange()

	if traj > d.trajectoryThreshold && vel.AbsY() > d.velocityThreshold && vel.Y < 0 {
		conf := d.upConfidence(traj, vel, obs)
		if conf < d.minConfidence {
			return model.KickEvent{}, false
		}
		d.lastKickFrame = obs.FrameNumber
		d.inSeries = true
		return model.KickEvent{
			FrameNumber: obs.FrameNumber,
			Timestamp:   obs.Timestamp,
			Position:    obs.Ball,
			Kind:        model.KindUp,
			Confidence:  conf,
		}, true
	}

	if d.inSeries && obs.Ball.Y >= d.groundRatio*obs.FrameHeight {
		d.lastKickFrame = obs.FrameNumber
		d.inSeries = false
		return model.KickEvent{
			FrameNumber: obs.FrameNumber,
			Timestamp:   obs.Timestamp,
			Position:    obs.Ball,
			Kind:        model.KindGround,
			Confidence:  groundConfidence,
		}, true
	}

	return model.KickEvent{}, false
}

// trajectoryChange is the angular delta between the two most recent
// velocity vectors, or zero while fewer than three samples exist.
func (d *Detector) trajectoryChange() float64 {
	if d.velocities.len() < 3 {
		return 0
	}
	return geometry.AngleDeltaDeg(d.velocities.fromEnd(1), d.velocities.fromEnd(0))
}

// upConfidence blends trajectory sharpness, vertical speed and foot
// proximity. Kicks far from any detected foot are penalized rather than
// rejected so that partial pose detections still score.
func (d *Detector) upConfidence(traj float64, vel geometry.Vector, obs Observation) float64 {
	trajScore := math.Min(1, traj/45)
	velScore := math.Min(1, vel.AbsY()/20)

	distScore := 0.5
	bonus := 0.7
	if d.nearFoot(obs.Ball, obs.Feet) {
		distScore = 1.0
		bonus = 1.0
	}
	return (0.4*trajScore + 0.4*velScore + 0.2*distScore) * bonus
}

func (d *Detector) nearFoot(ball geometry.Point, feet []geometry.Point) bool {
	for _, f := range feet {
		if geometry.Distance(ball, f) < d.kickDistance {
			return true
		}
	}
	return false
}
