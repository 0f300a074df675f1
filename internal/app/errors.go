package service

import "errors"

var (
	// ErrNotStarted reports use of the service before Start.
	ErrNotStarted = errors.New("service: not started")

	// ErrBusy reports that all analysis slots are occupied.
	ErrBusy = errors.New("service: analysis capacity exhausted")

	// ErrDuplicate reports an upload whose content was already analyzed.
	ErrDuplicate = errors.New("service: duplicate upload")

	// ErrUnsupportedMedia reports a file the analyzer cannot read.
	ErrUnsupportedMedia = errors.New("service: unsupported media")

	// ErrTooLarge reports an upload over the configured size limit.
	ErrTooLarge = errors.New("service: upload too large")
)
