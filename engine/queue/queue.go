// Package queue implements the pending-action buffer the engine drains
// between decision points.
//
// The queue is a ring-buffer deque with two insertion disciplines:
// PushNext puts an item ahead of everything pending, PushLast puts it
// behind everything pending. Items may be pushed while the owner is in
// the middle of processing a popped item; nothing is locked.
package queue

const minCapacity = 16

// Queue is an unbounded double-ended queue. The zero value is ready to use.
// It is not safe for concurrent use.
type Queue[T any] struct {
	buf  []T
	head int
	n    int
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{buf: make([]T, minCapacity)}
}

// Len returns the number of pending items.
func (q *Queue[T]) Len() int {
	return q.n
}

// PushNext makes v the very next item PopNext returns.
func (q *Queue[T]) PushNext(v T) {
	q.grow()
	q.head = (q.head - 1 + len(q.buf)) % len(q.buf)
	q.buf[q.head] = v
	q.n++
}

// PushLast makes v run after every item currently pending.
func (q *Queue[T]) PushLast(v T) {
	q.grow()
	q.buf[(q.head+q.n)%len(q.buf)] = v
	q.n++
}

// PopNext removes and returns the front item. It reports false when the
// queue is empty.
func (q *Queue[T]) PopNext() (T, bool) {
	var zero T
	if q.n == 0 {
		return zero, false
	}
	v := q.buf[q.head]
	// Drop the reference so popped closures can be collected.
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	if q.n == 0 {
		q.head = 0
	}
	return v, true
}

// Peek returns the front item without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.n == 0 {
		var zero T
		return zero, false
	}
	return q.buf[q.head], true
}

// Items returns a copy of the pending items in pop order.
func (q *Queue[T]) Items() []T {
	out := make([]T, q.n)
	for i := range out {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return out
}

// Clear drops every pending item.
func (q *Queue[T]) Clear() {
	var zero T
	for i := 0; i < q.n; i++ {
		q.buf[(q.head+i)%len(q.buf)] = zero
	}
	q.head = 0
	q.n = 0
}

// grow makes room for one more item, doubling the buffer when full.
func (q *Queue[T]) grow() {
	if len(q.buf) == 0 {
		q.buf = make([]T, minCapacity)
		return
	}
	if q.n < len(q.buf) {
		return
	}
	buf := make([]T, len(q.buf)*2)
	for i := 0; i < q.n; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = buf
	q.head = 0
}
