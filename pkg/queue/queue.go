// Package queue provides a generic, thread-safe FIFO queue used as the
// per-partition packet buffer behind input ports.
//
// Unlike a bounded ring buffer there is no overflow policy: port partitions
// are conceptually unbounded and backpressure is the scheduler's concern.
// The queue adds the predicate-based operations the port contract needs
// (peek-without-consuming, dequeue-first-match, ordered scan) on top of the
// plain FIFO operations. Statistics are always collected; Prometheus metrics
// are optional via functional options.
package queue

// Queue represents a generic FIFO queue parameterized by item type T.
type Queue[T any] interface {
	// Push appends an item at the tail of the queue.
	Push(item T)

	// Pop removes and returns the item at the head of the queue.
	// Returns the zero value and false if the queue is empty.
	Pop() (T, bool)

	// PopMatch removes and returns the first item, in FIFO order, for which
	// match returns true. Returns the zero value and false if nothing matches.
	PopMatch(match func(T) bool) (T, bool)

	// PeekMatch reports whether any queued item satisfies match, without
	// removing anything.
	PeekMatch(match func(T) bool) bool

	// Scan visits queued items in FIFO order without removing them, stopping
	// early when visit returns false.
	Scan(visit func(T) bool)

	// Len returns the current number of queued items.
	Len() int

	// Clear removes all items from the queue.
	Clear()

	// Stats returns queue statistics (always available for observability).
	Stats() *Statistics
}

// New creates an empty FIFO queue with the given options.
// Returns an error only if metrics registration fails when metrics are
// requested.
func New[T any](options ...Option[T]) (Queue[T], error) {
	opts := applyOptions(options...)
	return newFIFO(opts)
}
