package queue

// Option configures the in-memory job queue.
type Option func(*InMemoryQueue)

// WithCapacity bounds the number of pending jobs.
func WithCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}
