package repository

import "errors"

var (
	// ErrInvalidLimit reports a TopN limit outside the board's capacity.
	ErrInvalidLimit = errors.New("repository: limit out of range")

	// ErrPersist reports a snapshot write failure. The in-memory board
	// keeps the mutation; only durability is degraded.
	ErrPersist = errors.New("repository: snapshot persist failed")

	// ErrMalformedSnapshot reports an unreadable snapshot file on load.
	ErrMalformedSnapshot = errors.New("repository: malformed snapshot")
)
