package testuploads

import (
	"time"

	"github.com/okian/ballmaster/internal/adapters/repository"
	visionadapter "github.com/okian/ballmaster/internal/adapters/vision"
)

// Config holds configuration for the upload test
type Config struct {
	BaseURL   string        // Base URL of the service
	NumVideos int           // Number of replay videos to generate
	TopN      int           // Number of top entries to fetch
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	OutputDir string        // Directory for generated replay documents
	LogFile   string        // Log file for test output
	Verbose   bool          // Enable verbose logging
}

// Video is one generated replay document together with the analysis
// outcome the generator expects the service to report for it.
type Video struct {
	Name       string
	Doc        visionadapter.Document
	WantKicks  int
	WantSeries int
}

// UploadData mirrors the data payload of a successful upload response.
type UploadData struct {
	VideoName          string  `json:"video_name"`
	TotalKicks         int     `json:"total_kicks"`
	TotalSeries        int     `json:"total_series"`
	BestSeriesKicks    int     `json:"best_series_kicks"`
	BestSeriesDuration float64 `json:"best_series_duration"`
	ProcessingTime     float64 `json:"processing_time"`
	Score              float64 `json:"score"`
	Ranked             bool    `json:"ranked"`
	Summary            string  `json:"summary"`
}

// Entry is a leaderboard entry as returned by /results.
type Entry = repository.Entry

// Stats holds test statistics
type Stats struct {
	VideosGenerated    int
	UploadsSubmitted   int
	UploadsRanked      int
	UploadsUnranked    int
	UploadsDuplicate   int
	UploadsBusy        int
	UploadsFailed      int
	KickMismatches     int
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
