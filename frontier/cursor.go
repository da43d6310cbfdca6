package frontier

import (
	"fmt"
	"iter"
)

// Cursor is a double-ended iterator over a contiguous range of a frontier's logical sequence.
//
// The range is half-open: it starts at (startShard, startOff) and ends before
// (endShard, endOff). Cursors split from one another share the same length snapshot
// and cover disjoint ranges, so each half may be consumed on its own goroutine.
// A single Cursor is not safe for concurrent use.
type Cursor[T any] struct {
	shards []Shard[T]
	index  *cursorIndex

	startShard, startOff int
	endShard, endOff     int
}

func newCursor[T any](f *Frontier[T]) *Cursor[T] {
	ix := newCursorIndex(f.shards)
	last := len(f.shards) - 1
	return &Cursor[T]{
		shards:   f.shards,
		index:    ix,
		endShard: last,
		endOff:   ix.shardLen(last),
	}
}

func (c *Cursor[T]) start() int {
	return c.index.global(c.startShard, c.startOff)
}

func (c *Cursor[T]) end() int {
	return c.index.global(c.endShard, c.endOff)
}

// Len returns the number of elements left in the range.
func (c *Cursor[T]) Len() int {
	return c.end() - c.start()
}

// Next returns the first remaining element and advances past it.
func (c *Cursor[T]) Next() (T, bool) {
	var zero T
	if c.start() >= c.end() {
		return zero, false
	}
	// skip exhausted and empty shards
	for c.startOff >= c.index.shardLen(c.startShard) {
		c.startShard++
		c.startOff = 0
	}
	v := c.shards[c.startShard].items[c.startOff]
	c.startOff++
	return v, true
}

// NextBack returns the last remaining element and moves the end before it.
func (c *Cursor[T]) NextBack() (T, bool) {
	var zero T
	if c.start() >= c.end() {
		return zero, false
	}
	for c.endOff == 0 {
		c.endShard--
		c.endOff = c.index.shardLen(c.endShard)
	}
	c.endOff--
	return c.shards[c.endShard].items[c.endOff], true
}

// Split bisects the range at its logical midpoint.
// Both halves are non-empty and low followed by high is exactly c.
// Ranges shorter than 2 are not split: Split returns c, nil, false.
func (c *Cursor[T]) Split() (low, high *Cursor[T], ok bool) {
	if c.Len() < 2 {
		return c, nil, false
	}
	low, high = c.splitAt((c.start() + c.end()) / 2)
	return low, high, true
}

// SplitAt returns the first index elements of the range and the rest.
// It panics unless 0 <= index <= c.Len().
func (c *Cursor[T]) SplitAt(index int) (low, high *Cursor[T]) {
	if index < 0 || index > c.Len() {
		panic(fmt.Sprintf("frontier.Cursor.SplitAt: index %d out of range [0, %d]", index, c.Len()))
	}
	return c.splitAt(c.start() + index)
}

// splitAt cuts the range at the logical position pos, start <= pos <= end.
func (c *Cursor[T]) splitAt(pos int) (low, high *Cursor[T]) {
	loc := c.index.locate(pos)
	low, high = c.Clone(), c.Clone()
	if loc.onBoundary && loc.shard > 0 {
		low.endShard, low.endOff = loc.shard-1, c.index.shardLen(loc.shard-1)
		high.startShard, high.startOff = loc.shard, 0
	} else {
		low.endShard, low.endOff = loc.shard, loc.offset
		high.startShard, high.startOff = loc.shard, loc.offset
	}
	return low, high
}

// Clone returns an independent cursor over the same remaining range.
func (c *Cursor[T]) Clone() *Cursor[T] {
	cc := *c
	return &cc
}

// All yields the remaining elements in order without advancing c.
func (c *Cursor[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		remaining := c.Len()
		shard, off := c.startShard, c.startOff
		for remaining > 0 {
			items := c.shards[shard].items[:c.index.shardLen(shard)]
			if off < len(items) {
				chunk := items[off:]
				if len(chunk) > remaining {
					chunk = chunk[:remaining]
				}
				for _, v := range chunk {
					if !yield(v) {
						return
					}
				}
				remaining -= len(chunk)
			}
			shard++
			off = 0
		}
	}
}

// Backward yields the remaining elements from the last one without moving c.
func (c *Cursor[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		cc := c.Clone()
		for {
			v, ok := cc.NextBack()
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// Collect copies the remaining elements into a new slice.
func (c *Cursor[T]) Collect() []T {
	out := make([]T, 0, c.Len())
	for v := range c.All() {
		out = append(out, v)
	}
	return out
}

func (c *Cursor[T]) String() string {
	return fmt.Sprintf("Cursor[(%d,%d)..(%d,%d) len=%d]", c.startShard, c.startOff, c.endShard, c.endOff, c.Len())
}
