package testuploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	visionadapter "github.com/okian/ballmaster/internal/adapters/vision"
	"github.com/okian/ballmaster/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete upload test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting ballmaster upload test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("videos", config.NumVideos),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate replay videos
	videos, err := generateVideos(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("video generation failed: %w", err)
	}

	// Step 3: Upload videos concurrently
	if err := uploadVideos(ctx, config, videos, stats); err != nil {
		return fmt.Errorf("video upload failed: %w", err)
	}

	// Step 4: Re-upload the first video. The content digest is already
	// recorded, so the service must reject it as a duplicate even under
	// a different filename.
	if len(videos) > 0 {
		checkDuplicateRejection(ctx, config, videos[0], stats)
	}

	// Step 5: Get leaderboard
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(ctx, config, leaderboard, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save generated documents for replaying the run by hand
	if err := saveDocuments(ctx, config, videos); err != nil {
		logger.Get().Warn(ctx, "failed to save replay documents", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/health"

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// checkDuplicateRejection re-uploads an already analyzed video under a
// new name and verifies the service rejects it.
func checkDuplicateRejection(ctx context.Context, config *Config, v Video, stats *Stats) {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/upload"

	renamed := v
	renamed.Name = "replayed_" + v.Name

	outcome, _ := uploadSingleVideo(client, url, renamed)
	if outcome == "duplicate" {
		stats.UploadsDuplicate++
		logger.Get().Info(ctx, "duplicate upload rejected as expected", logger.String("video", renamed.Name))
		return
	}
	logger.Get().Warn(ctx, "duplicate upload was not rejected",
		logger.String("video", renamed.Name),
		logger.String("outcome", outcome))
}

// saveDocuments writes the generated replay documents to the output
// directory.
func saveDocuments(ctx context.Context, config *Config, videos []Video) error {
	if len(videos) == 0 {
		return fmt.Errorf("no videos to save")
	}

	dir := config.OutputDir
	if dir == "" {
		timestamp := time.Now().Format("20060102_150405")
		dir = "generated_videos_" + timestamp
	}
	if err := os.MkdirAll(dir, directoryPermission); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	for _, v := range videos {
		path := filepath.Join(dir, v.Name)
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := visionadapter.EncodeDocument(file, v.Doc); err != nil {
			_ = file.Close()
			return fmt.Errorf("failed to write %s: %w", v.Name, err)
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", v.Name, err)
		}
	}

	logger.Get().Info(ctx, "replay documents saved", logger.String("dir", dir), logger.Int("count", len(videos)))
	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, uploadsPerSecond float64

	if stats.UploadsSubmitted > 0 {
		successRate = float64(stats.UploadsRanked+stats.UploadsUnranked) /
			float64(stats.UploadsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		uploadsPerSecond = float64(stats.UploadsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("videosGenerated", stats.VideosGenerated),
		logger.Int("uploadsSubmitted", stats.UploadsSubmitted),
		logger.Int("uploadsRanked", stats.UploadsRanked),
		logger.Int("uploadsUnranked", stats.UploadsUnranked),
		logger.Int("uploadsDuplicate", stats.UploadsDuplicate),
		logger.Int("uploadsBusy", stats.UploadsBusy),
		logger.Int("uploadsFailed", stats.UploadsFailed),
		logger.Int("kickMismatches", stats.KickMismatches),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("uploadsPerSecond", uploadsPerSecond))
}
