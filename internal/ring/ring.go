// Package ring provides a growable FIFO queue backed by a power-of-two ring buffer.
package ring

import "math/bits"

const defaultCapacity = 16

// Queue is a first-in first-out queue. The zero value is not usable; call New.
type Queue[T any] struct {
	buf  []T // len(buf) is a power of two
	head int
	n    int
	mask int
}

// New returns an empty queue able to hold capacity elements before growing.
func New[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	size := roundUp(capacity)
	return &Queue[T]{buf: make([]T, size), mask: size - 1}
}

func roundUp(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// grow reallocates to hold at least need elements and unwraps the contents to index 0.
func (q *Queue[T]) grow(need int) {
	size := roundUp(need)
	buf := make([]T, size)
	if q.head+q.n <= len(q.buf) {
		copy(buf, q.buf[q.head:q.head+q.n])
	} else {
		k := copy(buf, q.buf[q.head:])
		copy(buf[k:], q.buf[:(q.head+q.n)&q.mask])
	}
	q.buf, q.head, q.mask = buf, 0, size-1
}

// Push appends v at the tail.
func (q *Queue[T]) Push(v T) {
	if q.n == len(q.buf) {
		q.grow(q.n + 1)
	}
	q.buf[(q.head+q.n)&q.mask] = v
	q.n++
}

// Pop removes and returns the head.
func (q *Queue[T]) Pop() (v T, ok bool) {
	if q.n == 0 {
		return v, false
	}
	var zero T
	v, q.buf[q.head] = q.buf[q.head], zero
	q.head = (q.head + 1) & q.mask
	q.n--
	return v, true
}

func (q *Queue[T]) Len() int {
	return q.n
}

func (q *Queue[T]) IsEmpty() bool {
	return q.n == 0
}
