package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/ballmaster/internal/testuploads"
)

// Default configuration constants.
const (
	defaultNumVideos   = 40
	defaultTopN        = 30
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numVideos = flag.Int("videos", defaultNumVideos, "Number of replay videos to generate and upload")
		topN      = flag.Int("top", defaultTopN, "Number of top entries to fetch from the leaderboard")
		workers   = flag.Int("workers", runtime.NumCPU(), "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputDir = flag.String("output", "", "Directory for generated replay documents (default: generated_videos_TIMESTAMP)")
		logFile   = flag.String("log", "", "Log file for test output (default: test_log_TIMESTAMP.log)")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		testuploads.ShowHelp()
		return
	}

	// Setup logging
	if err := testuploads.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	// Create test configuration
	config := &testuploads.Config{
		BaseURL:   *baseURL,
		NumVideos: *numVideos,
		TopN:      *topN,
		Workers:   *workers,
		Timeout:   *timeout,
		OutputDir: *outputDir,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	// Run the test
	if err := testuploads.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
