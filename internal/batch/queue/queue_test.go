package queue

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}

	if !q.Enqueue(ctx, Job{VideoID: "v1", Path: "/tmp/v1.mp4"}) {
		t.Error("expected enqueue to succeed")
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	jobs := q.Dequeue(ctx)
	job := <-jobs
	if job.VideoID != "v1" {
		t.Errorf("expected v1, got %v", job.VideoID)
	}
	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if !q.Enqueue(ctx, Job{VideoID: "v1"}) {
		t.Error("expected enqueue to succeed")
	}
	if !q.Enqueue(ctx, Job{VideoID: "v2"}) {
		t.Error("expected enqueue to succeed")
	}
	if q.Enqueue(ctx, Job{VideoID: "v3"}) {
		t.Error("expected enqueue to fail when full")
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_Close(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	q.Enqueue(ctx, Job{VideoID: "v1"})
	if err := q.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to report closed")
	}
	if q.Enqueue(ctx, Job{VideoID: "v2"}) {
		t.Error("expected enqueue to fail after close")
	}
	// Close is idempotent.
	if err := q.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}

	// Buffered jobs drain, then the channel closes.
	jobs := q.Dequeue(ctx)
	if job, ok := <-jobs; !ok || job.VideoID != "v1" {
		t.Errorf("expected buffered v1, got %v ok=%v", job.VideoID, ok)
	}
	select {
	case _, ok := <-jobs:
		if ok {
			t.Error("expected closed dequeue channel")
		}
	case <-time.After(time.Second):
		t.Error("dequeue channel did not close")
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(1000))
	ctx := context.Background()
	const producers = 10
	const perProducer = 50

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Enqueue(ctx, Job{VideoID: fmt.Sprintf("v-%d-%d", id, j)})
			}
		}(i)
	}
	wg.Wait()

	if l := q.Len(ctx); l != producers*perProducer {
		t.Errorf("expected %d queued jobs, got %d", producers*perProducer, l)
	}

	q.Close()
	count := 0
	for range q.Dequeue(ctx) {
		count++
	}
	if count != producers*perProducer {
		t.Errorf("expected to drain %d jobs, got %d", producers*perProducer, count)
	}
}
