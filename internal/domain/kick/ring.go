package kick

// ring is a fixed-capacity sliding window: pushing past capacity evicts the
// oldest element, preserving "last K" semantics.
type ring[T any] struct {
	buf []T
	max int
}

func newRing[T any](capacity int) ring[T] {
	return ring[T]{buf: make([]T, 0, capacity), max: capacity}
}

func (r *ring[T]) push(v T) {
	if len(r.buf) == r.max {
		copy(r.buf, r.buf[1:])
		r.buf = r.buf[:len(r.buf)-1]
	}
	r.buf = append(r.buf, v)
}

func (r *ring[T]) len() int {
	return len(r.buf)
}

// fromEnd returns the element n positions back from the newest (0 = newest).
func (r *ring[T]) fromEnd(n int) T {
	return r.buf[len(r.buf)-1-n]
}
