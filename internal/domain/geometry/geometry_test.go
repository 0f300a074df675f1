package geometry_test

import (
	"testing"

	geometry "github.com/okian/ballmaster/internal/domain/geometry"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDistance(t *testing.T) {
	Convey("Given two points in frame space", t, func() {
		Convey("When they form a 3-4-5 triangle", func() {
			a := geometry.Point{X: 0, Y: 0}
			b := geometry.Point{X: 3, Y: 4}

			Convey("Then the distance should be 5", func() {
				So(geometry.Distance(a, b), ShouldEqual, 5.0)
			})

			Convey("And the distance should be symmetric", func() {
				So(geometry.Distance(b, a), ShouldEqual, geometry.Distance(a, b))
			})
		})

		Convey("When the points coincide", func() {
			p := geometry.Point{X: 120, Y: 340}

			Convey("Then the distance should be zero", func() {
				So(geometry.Distance(p, p), ShouldEqual, 0.0)
			})
		})
	})
}

func TestDelta(t *testing.T) {
	Convey("Given consecutive ball positions", t, func() {
		prev := geometry.Point{X: 100, Y: 200}
		curr := geometry.Point{X: 110, Y: 180}

		Convey("When computing the displacement", func() {
			v := geometry.Delta(prev, curr)

			Convey("Then it should point from the previous to the current position", func() {
				So(v.X, ShouldEqual, 10.0)
				So(v.Y, ShouldEqual, -20.0)
			})

			Convey("And a negative Y should mean upward screen motion", func() {
				So(v.Y, ShouldBeLessThan, 0)
				So(v.AbsY(), ShouldEqual, 20.0)
			})
		})
	})
}

func TestVectorAngles(t *testing.T) {
	Convey("Given velocity vectors", t, func() {
		Convey("When the vector points right", func() {
			So(geometry.Vector{X: 1, Y: 0}.AngleDeg(), ShouldEqual, 0.0)
		})

		Convey("When the vector points straight down the screen", func() {
			So(geometry.Vector{X: 0, Y: 1}.AngleDeg(), ShouldEqual, 90.0)
		})

		Convey("When the vector points straight up the screen", func() {
			So(geometry.Vector{X: 0, Y: -1}.AngleDeg(), ShouldEqual, -90.0)
		})

		Convey("When measuring magnitude", func() {
			So(geometry.Vector{X: 3, Y: 4}.Magnitude(), ShouldEqual, 5.0)
		})
	})
}

func TestAngleDeltaDeg(t *testing.T) {
	Convey("Given pairs of velocity vectors", t, func() {
		Convey("When the ball bounces from falling to rising", func() {
			falling := geometry.Vector{X: 0, Y: 10}
			rising := geometry.Vector{X: 0, Y: -10}

			Convey("Then the trajectory change should be 180 degrees", func() {
				So(geometry.AngleDeltaDeg(falling, rising), ShouldEqual, 180.0)
			})
		})

		Convey("When the direction is unchanged", func() {
			v := geometry.Vector{X: 5, Y: -3}

			Convey("Then the trajectory change should be zero", func() {
				So(geometry.AngleDeltaDeg(v, v), ShouldEqual, 0.0)
			})
		})

		Convey("When the raw angular difference exceeds 180 degrees", func() {
			a := geometry.Vector{X: -1, Y: 0.17633}  // heading ~170°
			b := geometry.Vector{X: -1, Y: -0.17633} // heading ~-170°

			Convey("Then the delta should wrap into [0, 180]", func() {
				delta := geometry.AngleDeltaDeg(a, b)
				So(delta, ShouldBeGreaterThan, 0)
				So(delta, ShouldBeLessThan, 180)
				So(delta, ShouldAlmostEqual, 20.0, 0.01)
			})
		})

		Convey("When comparing opposite horizontal directions", func() {
			left := geometry.Vector{X: -8, Y: 0}
			right := geometry.Vector{X: 8, Y: 0}

			Convey("Then the delta should be exactly 180", func() {
				So(geometry.AngleDeltaDeg(left, right), ShouldEqual, 180.0)
			})
		})
	})
}
