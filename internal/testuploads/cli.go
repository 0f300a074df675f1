package testuploads

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/ballmaster/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "test_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the upload test tool.
func ShowHelp() {
	os.Stdout.WriteString(`BallMaster Upload Test Tool
===========================

A concurrent tool for exercising the BallMaster video analysis service
with synthetic juggling replay documents.

Usage:
  go run cmd/test-uploads/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -videos int
        Number of replay videos to generate and upload (default 40)
  -top int
        Number of top entries to fetch from the leaderboard (default 30)
  -workers int
        Number of concurrent workers (default CPU cores)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Directory for generated replay documents (default: generated_videos_TIMESTAMP)
  -log string
        Log file for test output (default: test_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/test-uploads/main.go

  # Test with custom parameters
  go run cmd/test-uploads/main.go -videos 200 -workers 8 -url http://localhost:8080

  # Test with verbose output
  go run cmd/test-uploads/main.go -verbose -videos 20
`)
}
