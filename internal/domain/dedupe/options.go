package dedupe

// Option configures the digest tracker.
type Option func(*digestTracker)

// WithMaxSize bounds the number of digests kept in memory. A value of
// zero or less disables eviction entirely.
func WithMaxSize(n int) Option {
	return func(t *digestTracker) {
		t.maxSize = n
	}
}
