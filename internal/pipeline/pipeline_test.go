package pipeline_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ballmaster/internal/domain/geometry"
	"github.com/okian/ballmaster/internal/domain/model"
	"github.com/okian/ballmaster/internal/domain/vision"
	"github.com/okian/ballmaster/internal/pipeline"
	"github.com/okian/ballmaster/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// scriptedSession serves a fixed list of ball positions, one per frame,
// with a constant foot placement. A nil position is a detection miss.
type scriptedSession struct {
	fps         float64
	frameHeight int
	balls       []*geometry.Point
	feet        []geometry.Point
	confidence  float64 // reported per detection; 0 means 0.95
	failAt      int     // frame at which Next errors; -1 disables

	cursor      int
	ballQueries []int
}

func (s *scriptedSession) Meta() vision.Meta {
	return vision.Meta{FPS: s.fps, FrameCount: len(s.balls), FrameHeight: s.frameHeight}
}

func (s *scriptedSession) Next(ctx context.Context) (vision.Frame, bool, error) {
	if s.failAt >= 0 && s.cursor == s.failAt {
		return vision.Frame{}, false, errors.New("stream truncated")
	}
	if s.cursor >= len(s.balls) {
		return vision.Frame{}, false, nil
	}
	f := vision.Frame{Number: s.cursor}
	s.cursor++
	return f, true, nil
}

func (s *scriptedSession) DetectBall(ctx context.Context, frame vision.Frame) (vision.Detection, bool, error) {
	s.ballQueries = append(s.ballQueries, frame.Number)
	p := s.balls[frame.Number]
	if p == nil {
		return vision.Detection{}, false, nil
	}
	conf := s.confidence
	if conf == 0 {
		conf = 0.95
	}
	return vision.Detection{Position: *p, Confidence: conf}, true, nil
}

func (s *scriptedSession) DetectFeet(ctx context.Context, frame vision.Frame) ([]geometry.Point, error) {
	return s.feet, nil
}

func (s *scriptedSession) Close() error {
	return nil
}

func pt(x, y float64) *geometry.Point {
	return &geometry.Point{X: x, Y: y}
}

// juggleScript is a single kick followed by the ball dropping to the
// ground: one up event, one closed series.
func juggleScript() []*geometry.Point {
	return []*geometry.Point{
		pt(100, 100), pt(100, 110), pt(100, 125), pt(100, 110), // sharp upward reversal
		pt(100, 200), pt(100, 300), pt(100, 400), pt(100, 500),
		pt(100, 600), pt(100, 650), pt(100, 690), pt(100, 700), // settles at the ground line
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a session with one kick and a ground touch", t, func() {
		sess := &scriptedSession{
			fps:         30,
			frameHeight: 800,
			balls:       juggleScript(),
			feet:        []geometry.Point{{X: 120, Y: 140}},
			failAt:      -1,
		}
		a := pipeline.New(
			pipeline.WithFrameSkip(1),
			pipeline.WithMovementThreshold(0),
		)

		convey.Convey("The analysis finds the kick and closes the series", func() {
			res, err := a.Analyze(ctx, "clip-01", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.VideoID, convey.ShouldEqual, "clip-01")
			convey.So(res.TotalKicks, convey.ShouldEqual, 1)
			convey.So(res.TotalSeries, convey.ShouldEqual, 1)
			convey.So(res.Kicks, convey.ShouldHaveLength, 2)
			convey.So(res.Kicks[0].Kind, convey.ShouldEqual, model.KindUp)
			convey.So(res.Kicks[1].Kind, convey.ShouldEqual, model.KindGround)
			convey.So(res.Series[0].KickCount, convey.ShouldEqual, 1)
			convey.So(res.FPS, convey.ShouldEqual, 30)
			convey.So(res.Duration, convey.ShouldAlmostEqual, 0.4, 0.0001)
			convey.So(res.Summary, convey.ShouldEqual, "1 kicks across 1 series")
			convey.So(res.ProcessingTime, convey.ShouldBeGreaterThanOrEqualTo, 0)
		})
	})

	convey.Convey("Given a frame-skip stride of 2", t, func() {
		sess := &scriptedSession{
			fps:         30,
			frameHeight: 800,
			balls:       juggleScript(),
			failAt:      -1,
		}
		a := pipeline.New(pipeline.WithFrameSkip(2), pipeline.WithMovementThreshold(0))

		convey.Convey("Only even frames reach the ball detector", func() {
			_, err := a.Analyze(ctx, "clip-02", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(sess.ballQueries, convey.ShouldResemble, []int{0, 2, 4, 6, 8, 10})
		})
	})

	convey.Convey("Given a jittering ball under the movement threshold", t, func() {
		jitter := []*geometry.Point{
			pt(100, 100), pt(100, 109), pt(100, 100), pt(100, 109),
			pt(100, 100), pt(100, 109), pt(100, 100), pt(100, 109),
		}
		feet := []geometry.Point{{X: 110, Y: 120}}

		convey.Convey("With the filter on, the jitter never produces events", func() {
			sess := &scriptedSession{fps: 30, frameHeight: 800, balls: jitter, feet: feet, failAt: -1}
			a := pipeline.New(pipeline.WithFrameSkip(1), pipeline.WithMovementThreshold(10))

			res, err := a.Analyze(ctx, "clip-03", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.TotalKicks, convey.ShouldEqual, 0)
			convey.So(res.Kicks, convey.ShouldBeEmpty)
		})

		convey.Convey("With the filter off, the same jitter fakes kicks", func() {
			sess := &scriptedSession{fps: 30, frameHeight: 800, balls: jitter, feet: feet, failAt: -1}
			a := pipeline.New(pipeline.WithFrameSkip(1), pipeline.WithMovementThreshold(0))

			res, err := a.Analyze(ctx, "clip-04", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.TotalKicks, convey.ShouldBeGreaterThan, 0)
		})
	})

	convey.Convey("Given ball detections reported at low confidence", t, func() {
		script := juggleScript()
		feet := []geometry.Point{{X: 120, Y: 140}}

		convey.Convey("The default floor treats them as no detection", func() {
			sess := &scriptedSession{fps: 30, frameHeight: 800, balls: script, feet: feet, confidence: 0.4, failAt: -1}
			a := pipeline.New(pipeline.WithFrameSkip(1), pipeline.WithMovementThreshold(0))

			res, err := a.Analyze(ctx, "clip-08", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.TotalKicks, convey.ShouldEqual, 0)
			convey.So(res.Kicks, convey.ShouldBeEmpty)
		})

		convey.Convey("A lowered floor lets the same detections through", func() {
			sess := &scriptedSession{fps: 30, frameHeight: 800, balls: script, feet: feet, confidence: 0.4, failAt: -1}
			a := pipeline.New(
				pipeline.WithFrameSkip(1),
				pipeline.WithMovementThreshold(0),
				pipeline.WithMinBallConfidence(0.3),
			)

			res, err := a.Analyze(ctx, "clip-09", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.TotalKicks, convey.ShouldEqual, 1)
		})

		convey.Convey("A zero floor disables the filter entirely", func() {
			sess := &scriptedSession{fps: 30, frameHeight: 800, balls: script, feet: feet, confidence: 0.05, failAt: -1}
			a := pipeline.New(
				pipeline.WithFrameSkip(1),
				pipeline.WithMovementThreshold(0),
				pipeline.WithMinBallConfidence(0),
			)

			res, err := a.Analyze(ctx, "clip-10", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.TotalKicks, convey.ShouldEqual, 1)
		})
	})

	convey.Convey("Given detection misses in the stream", t, func() {
		balls := juggleScript()
		balls[1] = nil
		sess := &scriptedSession{fps: 30, frameHeight: 800, balls: balls, failAt: -1}
		a := pipeline.New(pipeline.WithFrameSkip(1), pipeline.WithMovementThreshold(0))

		convey.Convey("Missed frames are skipped without failing the run", func() {
			_, err := a.Analyze(ctx, "clip-05", sess)
			convey.So(err, convey.ShouldBeNil)
		})
	})

	convey.Convey("Given a source that fails mid-stream", t, func() {
		sess := &scriptedSession{
			fps:         30,
			frameHeight: 800,
			balls:       juggleScript(),
			failAt:      5,
		}
		a := pipeline.New(pipeline.WithFrameSkip(1), pipeline.WithMovementThreshold(0))

		convey.Convey("The analysis aborts with no partial result", func() {
			res, err := a.Analyze(ctx, "clip-06", sess)
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(res.TotalKicks, convey.ShouldEqual, 0)
			convey.So(res.VideoID, convey.ShouldBeEmpty)
		})
	})

	convey.Convey("Given a source with no reported frame rate", t, func() {
		sess := &scriptedSession{fps: 0, frameHeight: 800, balls: juggleScript(), failAt: -1}
		a := pipeline.New(pipeline.WithFrameSkip(1), pipeline.WithMovementThreshold(0))

		convey.Convey("The analyzer falls back to 30 fps", func() {
			res, err := a.Analyze(ctx, "clip-07", sess)
			convey.So(err, convey.ShouldBeNil)
			convey.So(res.FPS, convey.ShouldEqual, 30)
		})
	})
}
