package testuploads

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	visionadapter "github.com/okian/ballmaster/internal/adapters/vision"
	"github.com/okian/ballmaster/pkg/logger"
)

// runID makes every run's generated documents unique so re-running the
// tool against the same service is not rejected wholesale as duplicate
// content.
var runID = uuid.NewString()[:8]

// Replay document geometry. Ball positions are emitted on every
// frameStride-th frame so that the detector sees the same sequence
// whether the analyzer samples every frame or every fourth one. A new
// detection step lands at least eight frames after the previous kick,
// clearing the detector's refractory window.
const (
	frameStride = 4
	frameRate   = 30.0
	frameHeight = 800
	groundY     = 700.0
	coastY      = 300.0
	footX       = 120.0
	footY       = 140.0
)

// Kick count ranges per juggler profile.
const (
	cleanKicksMin    = 5
	cleanKicksRange  = 8
	sloppyKicksMin   = 2
	sloppyKicksRange = 4
)

// Juggler profiles for generated videos.
const (
	profileClean       = 0 // one long series of clean kicks
	profileSloppy      = 1 // two shorter series separated by a drop
	profileGroundHeavy = 2 // a short series followed by idle ground noise
	profileDrift       = 3 // ball drifts without ever being kicked
	profileCount       = 4
)

// randInt returns a random int in [0, n) using crypto/rand.
func randInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateVideos creates the configured number of replay videos across
// the juggler profiles.
func generateVideos(ctx context.Context, config *Config, stats *Stats) ([]Video, error) {
	logger.Get().Info(ctx, "generating replay videos", logger.Int("numVideos", config.NumVideos))

	videos := make([]Video, 0, config.NumVideos)
	for i := 0; i < config.NumVideos; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during video generation: %w", ctx.Err())
		default:
		}

		var v Video
		switch i % profileCount {
		case profileClean:
			v = cleanVideo(i)
		case profileSloppy:
			v = sloppyVideo(i)
		case profileGroundHeavy:
			v = groundHeavyVideo(i)
		default:
			v = driftVideo(i)
		}
		videos = append(videos, v)
	}

	stats.VideosGenerated = len(videos)
	logger.Get().Info(ctx, "generated videos successfully", logger.Int("count", len(videos)))

	return videos, nil
}

// step is one detection sample. A nil ball position means the ball was
// not detected on that frame.
type step struct {
	x, y     float64
	withFeet bool
}

// bounceSteps is one juggling touch: the ball descends toward the foot
// and sharply reverses upward, which is what the detector recognizes as
// an up-kick on the fourth sample.
func bounceSteps() []step {
	return []step{
		{x: 100, y: 100, withFeet: true},
		{x: 100, y: 110, withFeet: true},
		{x: 100, y: 125, withFeet: true},
		{x: 100, y: 110, withFeet: true},
	}
}

// seriesSteps emits the given number of bounces, a coasting sample that
// separates the last kick from the drop, and a ground touch that closes
// the series.
func seriesSteps(kicks int) []step {
	var steps []step
	for k := 0; k < kicks; k++ {
		steps = append(steps, bounceSteps()...)
	}
	steps = append(steps, step{x: 100, y: coastY})
	steps = append(steps, step{x: 100, y: groundY})
	return steps
}

func cleanVideo(index int) Video {
	kicks := cleanKicksMin + randInt(cleanKicksRange)
	return buildVideo(fmt.Sprintf("clean_%d", index), seriesSteps(kicks), kicks, 1)
}

func sloppyVideo(index int) Video {
	first := sloppyKicksMin + randInt(sloppyKicksRange)
	second := sloppyKicksMin + randInt(sloppyKicksRange)
	steps := seriesSteps(first)
	steps = append(steps, seriesSteps(second)...)
	return buildVideo(fmt.Sprintf("sloppy_%d", index), steps, first+second, 2)
}

func groundHeavyVideo(index int) Video {
	kicks := sloppyKicksMin + randInt(sloppyKicksRange)
	steps := seriesSteps(kicks)
	// Idle rolling near the ground after the drop. No series is open,
	// so none of these samples produce events.
	steps = append(steps,
		step{x: 100, y: groundY - 12},
		step{x: 100, y: groundY + 2},
		step{x: 140, y: groundY + 2},
	)
	return buildVideo(fmt.Sprintf("ground_heavy_%d", index), steps, kicks, 1)
}

func driftVideo(index int) Video {
	var steps []step
	for i := 0; i < 20; i++ {
		steps = append(steps, step{x: 100 + 12*float64(i), y: coastY})
	}
	return buildVideo(fmt.Sprintf("drift_%d", index), steps, 0, 0)
}

// buildVideo lays the steps onto every frameStride-th frame of a replay
// document.
func buildVideo(name string, steps []step, wantKicks, wantSeries int) Video {
	name = name + "_" + runID
	frames := make([]visionadapter.FrameRecord, 0, len(steps))
	for i, s := range steps {
		rec := visionadapter.FrameRecord{
			Frame: i * frameStride,
			Ball:  &visionadapter.BallRecord{X: s.x, Y: s.y, Confidence: 0.95},
		}
		if s.withFeet {
			rec.Feet = []visionadapter.PointRecord{{X: footX, Y: footY}}
		}
		frames = append(frames, rec)
	}

	return Video{
		Name: name + ".json",
		Doc: visionadapter.Document{
			VideoID:     name,
			FPS:         frameRate,
			FrameCount:  (len(steps)-1)*frameStride + 1,
			FrameHeight: frameHeight,
			Frames:      frames,
		},
		WantKicks:  wantKicks,
		WantSeries: wantSeries,
	}
}
