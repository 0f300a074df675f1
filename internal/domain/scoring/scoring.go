// Package scoring turns an analysis summary into a single leaderboard
// score. The formula rewards total and sustained juggling and applies a
// small penalty for slow processing, rounded to two decimals so stored
// snapshots compare bit-for-bit across runs.
package scoring

import (
	"math"

	"github.com/okian/ballmaster/internal/domain/model"
)

// Score weights.
const (
	kickWeight       = 10.0
	bestKicksWeight  = 20.0
	bestDurWeight    = 5.0
	efficiencyWeight = 50.0
	timePenalty      = 0.1
)

// Input is the minimal summary the score depends on.
type Input struct {
	TotalKicks         int
	BestSeriesKicks    int
	BestSeriesDuration float64
	ProcessingTime     float64
}

// Score computes the leaderboard score. The efficiency term divides by
// processing time clamped to at least one second so instant analyses do
// not blow up the ratio.
func Score(in Input) float64 {
	pt := math.Max(in.ProcessingTime, 1)
	raw := float64(in.TotalKicks)*kickWeight +
		float64(in.BestSeriesKicks)*bestKicksWeight +
		in.BestSeriesDuration*bestDurWeight +
		float64(in.TotalKicks)/pt*efficiencyWeight -
		in.ProcessingTime*timePenalty
	return round2(raw)
}

// BestOf extracts the best-series components from a closed series list.
// The maxima are independent: the longest series by kicks and the longest
// by duration need not be the same series. An empty list yields zeros.
func BestOf(series []model.Series) (bestKicks int, bestDuration float64) {
	for _, s := range series {
		if s.KickCount > bestKicks {
			bestKicks = s.KickCount
		}
		if s.Duration > bestDuration {
			bestDuration = s.Duration
		}
	}
	return bestKicks, bestDuration
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
