package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/okian/ballmaster/internal/adapters/repository"
)

var topLimit int

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Show the current leaderboard",
	Args:  cobra.NoArgs,
	RunE:  runTop,
}

func init() {
	topCmd.Flags().IntVar(&topLimit, "limit", 0, "number of entries to show (0 shows the whole board)")
}

func runTop(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	board, err := repository.NewBoard(repository.WithSnapshotPath(storePath))
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}

	entries := board.All(ctx)
	if topLimit > 0 {
		entries, err = board.TopN(ctx, topLimit)
		if err != nil {
			return fmt.Errorf("read leaderboard: %w", err)
		}
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "The leaderboard is empty.")
		return nil
	}

	renderEntries(os.Stdout, entries)
	return nil
}

// renderEntries prints leaderboard entries as a ranked table.
func renderEntries(w io.Writer, entries []repository.Entry) {
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header("#", "VIDEO", "KICKS", "SERIES", "BEST_KICKS", "BEST_DUR", "SCORE", "RECORDED")

	for i, e := range entries {
		table.Append(
			strconv.Itoa(i+1),
			e.VideoName,
			strconv.Itoa(e.TotalKicks),
			strconv.Itoa(e.TotalSeries),
			strconv.Itoa(e.BestSeriesKicks),
			fmt.Sprintf("%.1fs", e.BestSeriesDuration),
			fmt.Sprintf("%.2f", e.Score),
			e.Timestamp.Format("2006-01-02 15:04"),
		)
	}
	table.Render()
}
