package repository

import "github.com/okian/ballmaster/pkg/logger"

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithMaxSize sets the board capacity.
func WithMaxSize(n int) BoardOption {
	return func(b *Board) {
		if n > 0 {
			b.maxSize = n
		}
	}
}

// WithSnapshotPath sets where the board persists its snapshot. An empty
// path keeps the board memory-only.
func WithSnapshotPath(path string) BoardOption {
	return func(b *Board) {
		b.path = path
	}
}

// WithLogger sets the board's logger.
func WithLogger(lg logger.Logger) BoardOption {
	return func(b *Board) {
		b.lg = lg
	}
}
