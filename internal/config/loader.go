package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if BALLMASTER_CONFIG is set
//  3. env (prefix BALLMASTER_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("BALLMASTER_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: BALLMASTER_ADDR, BALLMASTER_MAX_RESULTS, ...
	// Map env keys like BALLMASTER_MAX_RESULTS -> max_results (flat keys).
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("BALLMASTER_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "ballmaster_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks the unmarshaled configuration for nonsense values.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxResults < 1:
		return fmt.Errorf("%w: max_results must be at least 1", ErrInvalidConfig)
	case c.MaxConcurrentAnalyses < 1:
		return fmt.Errorf("%w: max_concurrent_analyses must be at least 1", ErrInvalidConfig)
	case c.MaxUploadMB < 1:
		return fmt.Errorf("%w: max_upload_mb must be at least 1", ErrInvalidConfig)
	case c.FrameSkip < 1:
		return fmt.Errorf("%w: frame_skip must be at least 1", ErrInvalidConfig)
	case c.BallMovementThreshold < 0:
		return fmt.Errorf("%w: ball_movement_threshold must not be negative", ErrInvalidConfig)
	case c.MinBallConfidence < 0 || c.MinBallConfidence > 1:
		return fmt.Errorf("%w: min_ball_confidence must be in [0,1]", ErrInvalidConfig)
	case c.StorePath == "":
		return fmt.Errorf("%w: store_path must not be empty", ErrInvalidConfig)
	}
	return nil
}
