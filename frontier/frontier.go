package frontier

import (
	"fmt"
	"iter"
	"slices"

	"golang.org/x/sys/cpu"

	"parfront/forkjoin"
)

// Shard is the storage owned by one worker slot.
// Shards are padded so that neighbouring writers do not share a cache line.
type Shard[T any] struct {
	items []T
	_     cpu.CacheLinePad
}

// Push appends v to the shard.
func (s *Shard[T]) Push(v T) {
	s.items = append(s.items, v)
}

// Pop removes and returns the most recently pushed element, or false if the shard is empty.
func (s *Shard[T]) Pop() (T, bool) {
	var zero T
	n := len(s.items)
	if n == 0 {
		return zero, false
	}
	v := s.items[n-1]
	s.items[n-1] = zero
	s.items = s.items[:n-1]
	return v, true
}

// Len returns the number of elements in the shard.
func (s *Shard[T]) Len() int {
	return len(s.items)
}

// Frontier is a worklist split into a fixed number of shards, one per worker.
// See the package documentation for the concurrency contract.
type Frontier[T any] struct {
	shards []Shard[T]
	res    resolver
}

// New creates a frontier with empty shards.
// The width comes from WithWidth, else from the WithPool pool, else from forkjoin.CurrentWorkerCount.
func New[T any](opts ...Option) *Frontier[T] {
	cfg := newConfig(opts)
	f := &Frontier[T]{
		shards: make([]Shard[T], cfg.width),
		res:    cfg.resolver(),
	}
	if per := cfg.capacity / cfg.width; per > 0 {
		for i := range f.shards {
			f.shards[i].items = make([]T, 0, per)
		}
	}
	return f
}

// FromShards builds a frontier that takes ownership of the given shards.
// It fails with ErrShardCountMismatch when len(shards) differs from the configured width;
// the contents are not otherwise checked.
func FromShards[T any](shards [][]T, opts ...Option) (*Frontier[T], error) {
	cfg := newConfig(opts)
	if len(shards) != cfg.width {
		return nil, fmt.Errorf("%w: got %d shards, expected %d", ErrShardCountMismatch, len(shards), cfg.width)
	}
	f := &Frontier[T]{
		shards: make([]Shard[T], cfg.width),
		res:    cfg.resolver(),
	}
	for i, items := range shards {
		f.shards[i].items = items
	}
	return f, nil
}

// FromSlice builds a frontier holding items in shard 0.
func FromSlice[T any](items []T, opts ...Option) *Frontier[T] {
	f := New[T](opts...)
	f.shards[0].items = items
	return f
}

// Shard returns the shard that w may mutate.
// Code outside any pool gets shard 0.
func (f *Frontier[T]) Shard(w forkjoin.Worker) (*Shard[T], error) {
	idx, err := f.res.resolve(w)
	if err != nil {
		return nil, err
	}
	return &f.shards[idx], nil
}

func (f *Frontier[T]) mustShard(op string, w forkjoin.Worker) *Shard[T] {
	s, err := f.Shard(w)
	if err != nil {
		panic(&MisuseError{Op: op, Err: err})
	}
	return s
}

// Push appends value to the shard of w.
// It panics with a *MisuseError if w belongs to a pool this frontier cannot serve.
func (f *Frontier[T]) Push(w forkjoin.Worker, value T) {
	f.mustShard("Push", w).Push(value)
}

// Pop removes the last element of w's shard.
// false means that shard is empty; other shards may still hold elements.
func (f *Frontier[T]) Pop(w forkjoin.Worker) (T, bool) {
	return f.mustShard("Pop", w).Pop()
}

// ShardCount returns the number of shards.
func (f *Frontier[T]) ShardCount() int {
	return len(f.shards)
}

// Pool returns the pool the frontier is scoped to, or nil.
func (f *Frontier[T]) Pool() *forkjoin.Pool {
	return f.res.pool
}

// Len returns the total number of elements across all shards.
func (f *Frontier[T]) Len() int {
	n := 0
	for i := range f.shards {
		n += len(f.shards[i].items)
	}
	return n
}

func (f *Frontier[T]) IsEmpty() bool {
	return f.Len() == 0
}

// Clear empties every shard and keeps the allocated capacity.
func (f *Frontier[T]) Clear() {
	for i := range f.shards {
		clear(f.shards[i].items)
		f.shards[i].items = f.shards[i].items[:0]
	}
}

// ShrinkToFit releases the unused capacity of every shard.
func (f *Frontier[T]) ShrinkToFit() {
	for i := range f.shards {
		if s := &f.shards[i]; cap(s.items) > len(s.items) {
			s.items = slices.Clone(s.items)
		}
	}
}

// ShardSizes returns the length of each shard, in shard order.
func (f *Frontier[T]) ShardSizes() []int {
	sizes := make([]int, len(f.shards))
	for i := range f.shards {
		sizes[i] = len(f.shards[i].items)
	}
	return sizes
}

// Concat copies every element into one slice, shard 0 first.
func (f *Frontier[T]) Concat() []T {
	out := make([]T, 0, f.Len())
	for i := range f.shards {
		out = append(out, f.shards[i].items...)
	}
	return out
}

// Shards returns a copy of every shard's contents, in shard order.
func (f *Frontier[T]) Shards() [][]T {
	out := make([][]T, len(f.shards))
	for i := range f.shards {
		out[i] = slices.Clone(f.shards[i].items)
	}
	return out
}

// ShardSeq yields each shard index with a read-only view of its contents.
func (f *Frontier[T]) ShardSeq() iter.Seq2[int, []T] {
	return func(yield func(int, []T) bool) {
		for i := range f.shards {
			if !yield(i, slices.Clip(f.shards[i].items)) {
				return
			}
		}
	}
}

// Iter returns a cursor over a snapshot of the whole frontier.
func (f *Frontier[T]) Iter() *Cursor[T] {
	return newCursor(f)
}

// All returns a sequence over the whole frontier, shard 0 first.
func (f *Frontier[T]) All() iter.Seq[T] {
	return f.Iter().All()
}

// Backward returns a sequence over the whole frontier from the last element of the last shard.
func (f *Frontier[T]) Backward() iter.Seq[T] {
	return f.Iter().Backward()
}

// ParIter returns the frontier as a source for the forkjoin combinators.
func (f *Frontier[T]) ParIter() *ParIter[T] {
	return &ParIter[T]{f: f}
}

func (f *Frontier[T]) String() string {
	return fmt.Sprintf("Frontier[len=%d shards=%v]", f.Len(), f.ShardSizes())
}

// Equal reports whether a and b hold the same logical sequence; shard boundaries are ignored.
func Equal[T comparable](a, b *Frontier[T]) bool {
	return EqualFunc(a, b, func(x, y T) bool { return x == y })
}

// EqualFunc is like Equal but compares elements with eq.
func EqualFunc[T any](a, b *Frontier[T], eq func(a, b T) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	ca, cb := a.Iter(), b.Iter()
	for {
		x, ok := ca.Next()
		if !ok {
			return true
		}
		y, _ := cb.Next()
		if !eq(x, y) {
			return false
		}
	}
}
