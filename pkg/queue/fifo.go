package queue

import (
	"sync"

	"github.com/c360/flowgate/errors"
)

// fifo is a thread-safe growable FIFO queue.
type fifo[T any] struct {
	mu      sync.RWMutex
	items   []T
	stats   *Statistics   // ALWAYS initialized for observability
	metrics *queueMetrics // Optional Prometheus metrics
	opts    *queueOptions[T]
}

// newFIFO creates a new queue instance.
// Returns an error if metrics registration fails when requested.
func newFIFO[T any](opts *queueOptions[T]) (*fifo[T], error) {
	// Stats are ALWAYS initialized - observability is not optional
	stats := NewStatistics()

	var metrics *queueMetrics
	// Optionally expose stats as Prometheus metrics
	if opts.metricsReg != nil && opts.metricsPrefix != "" {
		var err error
		metrics, err = newQueueMetrics(opts.metricsReg, opts.metricsPrefix)
		if err != nil {
			return nil, errors.WrapTransient(err, "queue", "newFIFO", "metrics registration")
		}
	}

	capacity := opts.initialCapacity
	if capacity <= 0 {
		capacity = 8
	}

	return &fifo[T]{
		items:   make([]T, 0, capacity),
		stats:   stats,
		metrics: metrics,
		opts:    opts,
	}, nil
}

// Push appends an item at the tail of the queue.
func (q *fifo[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	size := len(q.items)
	q.mu.Unlock()

	q.stats.Push()
	q.stats.UpdateSize(int64(size))
	if q.metrics != nil {
		q.metrics.recordPush(size)
	}
}

// Pop removes and returns the head item.
func (q *fifo[T]) Pop() (T, bool) {
	return q.PopMatch(nil)
}

// PopMatch removes and returns the first item matching the predicate.
// A nil predicate matches everything, so it pops the head.
func (q *fifo[T]) PopMatch(match func(T) bool) (T, bool) {
	var zero T

	q.mu.Lock()
	idx := -1
	for i, item := range q.items {
		if match == nil || match(item) {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return zero, false
	}

	item := q.items[idx]
	// Shift the tail down and clear the vacated slot so it does not pin the
	// removed item in memory.
	copy(q.items[idx:], q.items[idx+1:])
	last := len(q.items) - 1
	q.items[last] = zero
	q.items = q.items[:last]
	size := len(q.items)
	q.mu.Unlock()

	q.stats.Pop()
	q.stats.UpdateSize(int64(size))
	if q.metrics != nil {
		q.metrics.recordPop(size)
	}
	return item, true
}

// PeekMatch reports whether any queued item satisfies the predicate.
func (q *fifo[T]) PeekMatch(match func(T) bool) bool {
	q.mu.RLock()
	found := false
	for _, item := range q.items {
		if match == nil || match(item) {
			found = true
			break
		}
	}
	q.mu.RUnlock()

	q.stats.Peek()
	if q.metrics != nil {
		q.metrics.recordPeek()
	}
	return found
}

// Scan visits items in FIFO order without consuming them.
func (q *fifo[T]) Scan(visit func(T) bool) {
	q.mu.RLock()
	// Snapshot so the visitor may call back into the queue.
	snapshot := make([]T, len(q.items))
	copy(snapshot, q.items)
	q.mu.RUnlock()

	q.stats.Peek()
	if q.metrics != nil {
		q.metrics.recordPeek()
	}

	for _, item := range snapshot {
		if !visit(item) {
			return
		}
	}
}

// Len returns the current number of queued items.
func (q *fifo[T]) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// Clear removes all items from the queue.
func (q *fifo[T]) Clear() {
	q.mu.Lock()
	q.items = q.items[:0]
	q.mu.Unlock()

	q.stats.UpdateSize(0)
	if q.metrics != nil {
		q.metrics.updateSize(0)
	}
}

// Stats returns the queue statistics.
func (q *fifo[T]) Stats() *Statistics {
	return q.stats
}
