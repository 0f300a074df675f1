package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/okian/ballmaster/internal/adapters/repository"
	visionadapter "github.com/okian/ballmaster/internal/adapters/vision"
	"github.com/okian/ballmaster/internal/batch/queue"
	"github.com/okian/ballmaster/internal/batch/worker"
	"github.com/okian/ballmaster/internal/pipeline"
)

var (
	analyzeWorkers    int
	analyzeSkip       int
	analyzeMovement   float64
	analyzeConfidence float64
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dir>",
	Short: "Analyze every video in a directory and rank the results",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "number of analysis workers (default CPU cores)")
	analyzeCmd.Flags().IntVar(&analyzeSkip, "frame-skip", 4, "process every Nth frame")
	analyzeCmd.Flags().Float64Var(&analyzeMovement, "movement", 10, "skip frames where the ball moved fewer pixels; 0 disables")
	analyzeCmd.Flags().Float64Var(&analyzeConfidence, "min-confidence", 0.6, "drop ball detections below this confidence; 0 disables")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dir := args[0]

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}

	board, err := repository.NewBoard(repository.WithSnapshotPath(storePath))
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}

	dispatcher := visionadapter.NewDispatcher(visionadapter.NewClient(inferenceURL))
	analyzer := pipeline.New(
		pipeline.WithFrameSkip(analyzeSkip),
		pipeline.WithMovementThreshold(analyzeMovement),
		pipeline.WithMinBallConfidence(analyzeConfidence),
	)

	q := queue.NewInMemoryQueue()
	pool := worker.NewPool(analyzeWorkers, q, dispatcher, analyzer, board)
	pool.Start(ctx)

	queued := 0
	for _, e := range entries {
		if e.IsDir() || !visionadapter.IsSupported(e.Name()) {
			continue
		}
		job := queue.Job{
			VideoID: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
			Path:    filepath.Join(dir, e.Name()),
		}
		if !q.Enqueue(ctx, job) {
			return fmt.Errorf("queue full after %d jobs", queued)
		}
		queued++
	}
	if queued == 0 {
		_ = q.Close()
		pool.Wait()
		return fmt.Errorf("no supported videos in %s", dir)
	}

	fmt.Fprintf(os.Stdout, "Analyzing %d videos...\n", queued)

	if err := q.Close(); err != nil {
		return fmt.Errorf("close queue: %w", err)
	}
	pool.Wait()

	top := board.All(ctx)
	fmt.Fprintf(os.Stdout, "\nLeaderboard after the run (%d entries):\n\n", len(top))
	renderEntries(os.Stdout, top)
	return nil
}
