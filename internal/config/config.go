// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and environment variables.
// - External errors must be wrapped via this package's sentinel kinds.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// UploadDir is the directory for in-flight upload files.
	UploadDir string `koanf:"upload_dir"`

	// VideosDir is the directory where leaderboard videos are retained.
	VideosDir string `koanf:"videos_dir"`

	// StorePath locates the durable leaderboard snapshot.
	StorePath string `koanf:"store_path"`

	// MaxResults bounds the leaderboard size.
	MaxResults int `koanf:"max_results"`

	// MaxConcurrentAnalyses bounds parallel upload analyses; excess is backpressure.
	MaxConcurrentAnalyses int `koanf:"max_concurrent_analyses"`

	// MaxUploadMB caps the accepted upload size in megabytes.
	MaxUploadMB int `koanf:"max_upload_mb"`

	// InferenceURL is the base URL of the detection sidecar (ball + pose).
	InferenceURL string `koanf:"inference_url"`

	// InferenceTimeoutMS bounds a single sidecar call.
	InferenceTimeoutMS int `koanf:"inference_timeout_ms"`

	// FrameSkip processes every Nth frame of a video.
	FrameSkip int `koanf:"frame_skip"`

	// BallMovementThreshold skips frames where the ball barely moved, in pixels.
	// Zero disables the optimization.
	BallMovementThreshold float64 `koanf:"ball_movement_threshold"`

	// MinBallConfidence treats ball detections below this confidence as no
	// detection. Zero disables the floor.
	MinBallConfidence float64 `koanf:"min_ball_confidence"`

	// DedupeSize sets the size of the upload digest cache.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		UploadDir:             "uploads",
		VideosDir:             "videos",
		StorePath:             "top_results.json",
		MaxResults:            30,
		MaxConcurrentAnalyses: 2,
		MaxUploadMB:           100,
		InferenceURL:          "http://localhost:8500",
		InferenceTimeoutMS:    10_000,
		FrameSkip:             4,
		BallMovementThreshold: 10,
		MinBallConfidence:     0.6,
		DedupeSize:            4096,
	}
}
