// Command bmctl analyzes juggling videos in batch and inspects the
// leaderboard snapshot without going through the HTTP service.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/ballmaster/pkg/logger"
)

var (
	storePath    string
	inferenceURL string
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "bmctl",
	Short: "BallMaster batch analysis and leaderboard tool",
	Long:  "Analyze juggling videos in batch, rank them on the shared leaderboard snapshot, and inspect or export the results.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "top_results.json", "path to the leaderboard snapshot")
	rootCmd.PersistentFlags().StringVar(&inferenceURL, "inference-url", "http://localhost:8500", "base URL of the detection sidecar")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log verbosity: debug, info, warn, error")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(topCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := logger.Init(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	cobra.OnInitialize(func() {
		if err := logger.SetLevelString(logLevel); err != nil {
			_ = logger.SetLevelString("warn")
		}
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
