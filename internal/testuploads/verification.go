package testuploads

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/okian/ballmaster/internal/domain/scoring"
)

// scoreTolerance absorbs float formatting differences between the
// service's persisted score and the recomputed one.
const scoreTolerance = 0.01

// verifyResults checks leaderboard ordering and score arithmetic.
func verifyResults(ctx context.Context, config *Config, leaderboard []Entry, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(leaderboard) == 0 {
		return fmt.Errorf("no leaderboard entries to verify")
	}

	if err := verifyOrdering(leaderboard); err != nil {
		return err
	}
	log.Println("✅ Leaderboard ordering verified")

	if err := verifyScores(leaderboard); err != nil {
		return err
	}
	log.Println("✅ Leaderboard scores verified")

	displayTopPerformers(leaderboard, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyOrdering checks that the leaderboard is sorted by score descending.
func verifyOrdering(leaderboard []Entry) error {
	for i := 1; i < len(leaderboard); i++ {
		if leaderboard[i].Score > leaderboard[i-1].Score {
			return fmt.Errorf("leaderboard not properly sorted: entry %d (%.2f) outscores entry %d (%.2f)",
				i, leaderboard[i].Score, i-1, leaderboard[i-1].Score)
		}
	}
	return nil
}

// verifyScores recomputes each entry's score from its own fields and
// compares it with the score the service persisted.
func verifyScores(leaderboard []Entry) error {
	for i, entry := range leaderboard {
		want := scoring.Score(scoring.Input{
			TotalKicks:         entry.TotalKicks,
			BestSeriesKicks:    entry.BestSeriesKicks,
			BestSeriesDuration: entry.BestSeriesDuration,
			ProcessingTime:     entry.ProcessingTime,
		})
		if math.Abs(want-entry.Score) > scoreTolerance {
			return fmt.Errorf("entry %d (%s): score %.2f does not match recomputed %.2f",
				i, entry.VideoName, entry.Score, want)
		}
	}
	return nil
}

// displayTopPerformers shows the top leaderboard entries.
func displayTopPerformers(leaderboard []Entry, verbose bool) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}

	log.Printf("🏆 Top %d videos on the leaderboard:", topN)
	for i := 0; i < topN; i++ {
		entry := leaderboard[i]
		log.Printf("   %d. %s - %d kicks, score %.2f", i+1, entry.VideoName, entry.TotalKicks, entry.Score)
	}

	if verbose && len(leaderboard) > 0 {
		avgScore := 0.0
		for _, entry := range leaderboard {
			avgScore += entry.Score
		}
		avgScore /= float64(len(leaderboard))

		log.Printf(`📊 Score statistics:
   Average: %.2f
   Maximum: %.2f
   Minimum: %.2f
`, avgScore, leaderboard[0].Score, leaderboard[len(leaderboard)-1].Score)
	}
}
