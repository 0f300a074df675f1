package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ballmaster/internal/adapters/repository"
	"github.com/okian/ballmaster/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// result builds a submission whose score is dominated by kick count.
func result(name string, kicks int) repository.Result {
	return repository.Result{
		VideoID:        name,
		TotalKicks:     kicks,
		TotalSeries:    1,
		ProcessingTime: 10,
	}
}

func TestBoardRanking(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given an empty board of capacity 3", t, func() {
		b, err := repository.NewBoard(repository.WithMaxSize(3))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Results rank in descending score order", func() {
			for _, n := range []int{5, 20, 10} {
				_, accepted, err := b.AddResult(ctx, result(fmt.Sprintf("v%d", n), n))
				convey.So(err, convey.ShouldBeNil)
				convey.So(accepted, convey.ShouldBeTrue)
			}

			top, err := b.TopN(ctx, 3)
			convey.So(err, convey.ShouldBeNil)
			convey.So(top, convey.ShouldHaveLength, 3)
			convey.So(top[0].VideoName, convey.ShouldEqual, "v20")
			convey.So(top[1].VideoName, convey.ShouldEqual, "v10")
			convey.So(top[2].VideoName, convey.ShouldEqual, "v5")
		})

		convey.Convey("A full board only accepts strictly better results", func() {
			for _, n := range []int{5, 20, 10} {
				b.AddResult(ctx, result(fmt.Sprintf("v%d", n), n))
			}

			// Equal to the current worst: rejected.
			_, accepted, err := b.AddResult(ctx, result("tie", 5))
			convey.So(err, convey.ShouldBeNil)
			convey.So(accepted, convey.ShouldBeFalse)

			// Strictly better: replaces the worst entry.
			_, accepted, err = b.AddResult(ctx, result("v7", 7))
			convey.So(err, convey.ShouldBeNil)
			convey.So(accepted, convey.ShouldBeTrue)

			top := b.All(ctx)
			convey.So(top, convey.ShouldHaveLength, 3)
			convey.So(top[2].VideoName, convey.ShouldEqual, "v7")
			convey.So(b.Contains(ctx, "v5"), convey.ShouldBeFalse)
		})

		convey.Convey("TopN validates its limit", func() {
			b.AddResult(ctx, result("v1", 1))

			// Limits outside [1, maxSize] fail, zero included: the whole
			// board is read through All, never through TopN(0).
			for _, bad := range []int{4, 0, -1} {
				entries, err := b.TopN(ctx, bad)
				convey.So(err, convey.ShouldWrap, repository.ErrInvalidLimit)
				convey.So(entries, convey.ShouldBeNil)
			}

			// A limit larger than the entry count is clamped.
			top, err := b.TopN(ctx, 3)
			convey.So(err, convey.ShouldBeNil)
			convey.So(top, convey.ShouldHaveLength, 1)

			convey.So(b.All(ctx), convey.ShouldHaveLength, 1)
		})

		convey.Convey("Export carries the board document fields", func() {
			b.AddResult(ctx, result("v1", 1))
			b.AddResult(ctx, result("v2", 2))

			doc, err := b.Export(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc.MaxResults, convey.ShouldEqual, 3)
			convey.So(doc.TotalSaved, convey.ShouldEqual, 2)
			convey.So(doc.Results, convey.ShouldHaveLength, 2)
			convey.So(doc.LastUpdated.IsZero(), convey.ShouldBeFalse)
		})
	})
}

func TestBoardPersistence(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a board with a snapshot path", t, func() {
		dir := t.TempDir()
		path := filepath.Join(dir, "top_results.json")

		b, err := repository.NewBoard(
			repository.WithMaxSize(3),
			repository.WithSnapshotPath(path),
		)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Accepted results survive a reload", func() {
			b.AddResult(ctx, result("v10", 10))
			b.AddResult(ctx, result("v20", 20))

			reloaded, err := repository.NewBoard(
				repository.WithMaxSize(3),
				repository.WithSnapshotPath(path),
			)
			convey.So(err, convey.ShouldBeNil)
			convey.So(reloaded.Count(ctx), convey.ShouldEqual, 2)

			top := reloaded.All(ctx)
			convey.So(top[0].VideoName, convey.ShouldEqual, "v20")
		})

		convey.Convey("A corrupt snapshot is ignored on load", func() {
			convey.So(os.WriteFile(path, []byte("{broken"), 0o644), convey.ShouldBeNil)

			fresh, err := repository.NewBoard(
				repository.WithMaxSize(3),
				repository.WithSnapshotPath(path),
			)
			convey.So(err, convey.ShouldBeNil)
			convey.So(fresh.Count(ctx), convey.ShouldEqual, 0)
		})

		convey.Convey("A snapshot larger than capacity is truncated to the best", func() {
			big, err := repository.NewBoard(
				repository.WithMaxSize(5),
				repository.WithSnapshotPath(path),
			)
			convey.So(err, convey.ShouldBeNil)
			for i := 1; i <= 5; i++ {
				big.AddResult(ctx, result(fmt.Sprintf("v%d", i), i))
			}

			small, err := repository.NewBoard(
				repository.WithMaxSize(2),
				repository.WithSnapshotPath(path),
			)
			convey.So(err, convey.ShouldBeNil)
			convey.So(small.Count(ctx), convey.ShouldEqual, 2)

			top := small.All(ctx)
			convey.So(top[0].VideoName, convey.ShouldEqual, "v5")
			convey.So(top[1].VideoName, convey.ShouldEqual, "v4")
		})

		convey.Convey("Unknown snapshot fields are tolerated", func() {
			doc := `{"max_results":3,"last_updated":"2026-01-02T03:04:05Z","future_field":true,` +
				`"results":[{"video_name":"old","total_kicks":4,"total_series":1,"best_series_kicks":2,` +
				`"best_series_duration":3.5,"processing_time":9,"timestamp":"2026-01-02T03:04:05Z","score":61.72,"extra":1}]}`
			convey.So(os.WriteFile(path, []byte(doc), 0o644), convey.ShouldBeNil)

			loaded, err := repository.NewBoard(
				repository.WithMaxSize(3),
				repository.WithSnapshotPath(path),
			)
			convey.So(err, convey.ShouldBeNil)
			convey.So(loaded.Count(ctx), convey.ShouldEqual, 1)
			convey.So(loaded.Contains(ctx, "old"), convey.ShouldBeTrue)
		})

		convey.Convey("A persist failure keeps the in-memory mutation", func() {
			broken, err := repository.NewBoard(
				repository.WithMaxSize(3),
				repository.WithSnapshotPath(filepath.Join(dir, "missing-dir", "snap.json")),
			)
			convey.So(err, convey.ShouldBeNil)

			_, accepted, err := broken.AddResult(ctx, result("v1", 1))
			convey.So(accepted, convey.ShouldBeTrue)
			convey.So(err, convey.ShouldWrap, repository.ErrPersist)
			convey.So(broken.Count(ctx), convey.ShouldEqual, 1)
		})
	})
}
