package worker

import "github.com/okian/ballmaster/pkg/logger"

// Option configures a worker.
type Option func(*InMemoryWorker)

// WithName names the worker; the name shows up in its log fields.
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		w.name = name
	}
}

// WithLogger sets the worker's logger.
func WithLogger(lg logger.Logger) Option {
	return func(w *InMemoryWorker) {
		w.logger = lg
	}
}
