package series_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ballmaster/internal/domain/model"
	"github.com/okian/ballmaster/internal/domain/series"
)

func up(frame int, ts float64) model.KickEvent {
	return model.KickEvent{FrameNumber: frame, Timestamp: ts, Kind: model.KindUp, Confidence: 0.8}
}

func ground(frame int, ts float64) model.KickEvent {
	return model.KickEvent{FrameNumber: frame, Timestamp: ts, Kind: model.KindGround, Confidence: 0.9}
}

func TestFold(t *testing.T) {
	convey.Convey("Given an ordered kick event stream", t, func() {
		convey.Convey("An empty stream folds to no series", func() {
			convey.So(series.Fold(nil), convey.ShouldBeEmpty)
		})

		convey.Convey("Three kicks closed by a ground touch form one series", func() {
			got := series.Fold([]model.KickEvent{
				up(10, 0.333), up(25, 0.833), up(40, 1.333), ground(60, 2.0),
			})
			convey.So(got, convey.ShouldHaveLength, 1)
			convey.So(got[0].StartFrame, convey.ShouldEqual, 10)
			convey.So(got[0].EndFrame, convey.ShouldEqual, 60)
			convey.So(got[0].KickCount, convey.ShouldEqual, 3)
			convey.So(got[0].Duration, convey.ShouldAlmostEqual, 1.667, 0.0001)
		})

		convey.Convey("Consecutive runs fold to separate series", func() {
			got := series.Fold([]model.KickEvent{
				up(10, 0.3), up(20, 0.6), ground(30, 1.0),
				up(50, 1.6), ground(70, 2.3),
			})
			convey.So(got, convey.ShouldHaveLength, 2)
			convey.So(got[0].KickCount, convey.ShouldEqual, 2)
			convey.So(got[1].KickCount, convey.ShouldEqual, 1)
			convey.So(got[1].StartFrame, convey.ShouldEqual, 50)
		})

		convey.Convey("A run left open at the end of the stream is dropped", func() {
			got := series.Fold([]model.KickEvent{
				up(10, 0.3), ground(30, 1.0),
				up(50, 1.6), up(60, 2.0),
			})
			convey.So(got, convey.ShouldHaveLength, 1)
			convey.So(got[0].EndFrame, convey.ShouldEqual, 30)
		})

		convey.Convey("Ground touches with no open series are ignored", func() {
			got := series.Fold([]model.KickEvent{
				ground(5, 0.1),
				up(10, 0.3), ground(30, 1.0),
				ground(40, 1.3),
			})
			convey.So(got, convey.ShouldHaveLength, 1)
			convey.So(got[0].KickCount, convey.ShouldEqual, 1)
		})
	})
}
