package kick

// Option adjusts detector thresholds.
type Option func(*Detector)

// WithKickDistance sets the maximum ball-to-foot distance, in pixels,
// considered "near a foot".
func WithKickDistance(px float64) Option {
	return func(d *Detector) {
		d.kickDistance = px
	}
}

// WithVelocityThreshold sets the minimum vertical speed, in pixels per
// frame, for an upward kick.
func WithVelocityThreshold(px float64) Option {
	return func(d *Detector) {
		d.velocityThreshold = px
	}
}

// WithMinKickInterval sets the debounce window, in frames, between
// consecutive events of any kind.
func WithMinKickInterval(frames int) Option {
	return func(d *Detector) {
		d.minKickInterval = frames
	}
}

// WithGroundRatio sets the fraction of frame height at or below which the
// ball counts as grounded.
func WithGroundRatio(ratio float64) Option {
	return func(d *Detector) {
		d.groundRatio = ratio
	}
}

// WithTrajectoryThreshold sets the minimum direction change, in degrees,
// for an upward kick.
func WithTrajectoryThreshold(deg float64) Option {
	return func(d *Detector) {
		d.trajectoryThreshold = deg
	}
}

// WithMinConfidence sets the confidence gate below which an upward kick
// candidate is dropped.
func WithMinConfidence(c float64) Option {
	return func(d *Detector) {
		d.minConfidence = c
	}
}
