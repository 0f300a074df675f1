// Package geometry contains the 2-D primitives used by trajectory analysis.
//
// Coordinates are in frame pixel space: X grows rightward, Y grows downward,
// so a negative Y velocity means the ball is moving up the screen.
package geometry

import "math"

// Point is a position in frame pixel space.
type Point struct {
	X float64
	Y float64
}

// Vector is a displacement between two points, typically a per-frame velocity.
type Vector struct {
	X float64
	Y float64
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Delta returns the displacement vector from one point to the next.
func Delta(from, to Point) Vector {
	return Vector{X: to.X - from.X, Y: to.Y - from.Y}
}

// Magnitude returns the length of the vector.
func (v Vector) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

// AngleDeg returns the heading of the vector in degrees, in (-180, 180].
func (v Vector) AngleDeg() float64 {
	return math.Atan2(v.Y, v.X) * 180 / math.Pi
}

// AbsY returns the absolute vertical component of the vector.
func (v Vector) AbsY() float64 {
	return math.Abs(v.Y)
}

// AngleDeltaDeg returns the absolute angular difference between the headings
// of two vectors, wrapped to [0, 180].
func AngleDeltaDeg(a, b Vector) float64 {
	delta := math.Abs(b.AngleDeg() - a.AngleDeg())
	if delta > 180 {
		delta = 360 - delta
	}
	return delta
}
