// Package dedupe tracks content digests of uploaded videos so the same
// file is analyzed at most once while the digest remains in the window.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Tracker records seen content digests.
type Tracker interface {
	// SeenAndRecord atomically checks whether digest was seen and records
	// it if not. It returns true when the digest was already present.
	SeenAndRecord(ctx context.Context, digest string) bool

	// Unrecord removes a digest, allowing the same content to be uploaded
	// again. Used when an upload was recorded but its analysis failed.
	Unrecord(ctx context.Context, digest string)

	Size() int64
}

// entry is a node in the recency list.
type entry struct {
	digest string
	next   *entry
}

func (e *entry) reset() {
	e.digest = ""
	e.next = nil
}

// digestTracker is an in-memory Tracker. With maxSize > 0 it keeps a
// bounded window backed by a linked list: new digests push in at the head
// and the oldest entry is evicted from the tail when the window fills.
// With maxSize <= 0 it degrades to a plain unbounded map.
type digestTracker struct {
	mu      sync.RWMutex
	seen    map[string]*entry
	head    *entry
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// New creates an in-memory digest tracker.
func New(opts ...Option) Tracker {
	t := &digestTracker{
		maxSize: 4096,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.seen = make(map[string]*entry)
	if t.maxSize > 0 {
		t.pool = sync.Pool{
			New: func() interface{} {
				return &entry{}
			},
		}
	}
	return t
}

func (t *digestTracker) SeenAndRecord(ctx context.Context, digest string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.seen[digest]; exists {
		return true
	}

	if t.maxSize > 0 {
		if len(t.seen) >= t.maxSize {
			t.evictOldest()
		}
		e := t.pool.Get().(*entry)
		e.digest = digest
		e.next = t.head
		t.head = e
		t.seen[digest] = e
	} else {
		t.seen[digest] = nil
	}
	t.size.Add(1)
	return false
}

func (t *digestTracker) Unrecord(ctx context.Context, digest string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, exists := t.seen[digest]
	if !exists {
		return
	}
	delete(t.seen, digest)
	t.size.Add(-1)

	if t.maxSize <= 0 {
		return
	}
	if t.head == e {
		t.head = e.next
	} else {
		cur := t.head
		for cur != nil && cur.next != e {
			cur = cur.next
		}
		if cur != nil {
			cur.next = e.next
		}
	}
	e.reset()
	t.pool.Put(e)
}

// evictOldest drops the tail entry. Caller holds t.mu.
func (t *digestTracker) evictOldest() {
	if t.head == nil {
		return
	}
	if t.head.next == nil {
		delete(t.seen, t.head.digest)
		t.head.reset()
		t.pool.Put(t.head)
		t.head = nil
		t.size.Add(-1)
		return
	}
	var prev *entry
	cur := t.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	prev.next = nil
	delete(t.seen, cur.digest)
	cur.reset()
	t.pool.Put(cur)
	t.size.Add(-1)
}

func (t *digestTracker) Size() int64 {
	return t.size.Load()
}
