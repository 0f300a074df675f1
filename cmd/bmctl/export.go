package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/ballmaster/internal/adapters/repository"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the leaderboard as a JSON document",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	board, err := repository.NewBoard(repository.WithSnapshotPath(storePath))
	if err != nil {
		return fmt.Errorf("open leaderboard: %w", err)
	}

	doc, err := board.Export(ctx)
	if err != nil {
		return fmt.Errorf("export leaderboard: %w", err)
	}

	out := os.Stdout
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write export: %w", err)
	}

	if exportOut != "" {
		fmt.Fprintf(os.Stdout, "Exported %d entries to %s\n", len(doc.Results), exportOut)
	}
	return nil
}
