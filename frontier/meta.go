package frontier

import (
	"fmt"
	"iter"

	"parfront/forkjoin"
)

// Meta keeps one whole Frontier per worker slot.
// Push and Pop go to the caller's own frontier; Iter and ParIter cover that frontier only.
type Meta[T any] struct {
	frontiers []*Frontier[T]
	res       resolver
}

// NewMeta creates one single-shard frontier per slot. Options are interpreted as for New.
func NewMeta[T any](opts ...Option) *Meta[T] {
	cfg := newConfig(opts)
	m := &Meta[T]{
		frontiers: make([]*Frontier[T], cfg.width),
		res:       cfg.resolver(),
	}
	per := cfg.capacity / cfg.width
	for i := range m.frontiers {
		m.frontiers[i] = New[T](WithWidth(1), WithCapacity(per), WithPool(cfg.pool))
	}
	return m
}

// MetaFromFrontiers builds a Meta over the given frontiers, one per slot.
// It fails with ErrShardCountMismatch when their number differs from the configured width.
func MetaFromFrontiers[T any](frontiers []*Frontier[T], opts ...Option) (*Meta[T], error) {
	cfg := newConfig(opts)
	if len(frontiers) != cfg.width {
		return nil, fmt.Errorf("%w: got %d frontiers, expected %d", ErrShardCountMismatch, len(frontiers), cfg.width)
	}
	return &Meta[T]{frontiers: frontiers, res: cfg.resolver()}, nil
}

// MetaFromSlice builds a Meta whose first frontier holds items.
func MetaFromSlice[T any](items []T, opts ...Option) *Meta[T] {
	m := NewMeta[T](opts...)
	m.frontiers[0] = FromSlice(items, WithWidth(1), WithPool(m.res.pool))
	return m
}

// Frontier returns the frontier owned by w.
func (m *Meta[T]) Frontier(w forkjoin.Worker) (*Frontier[T], error) {
	idx, err := m.res.resolve(w)
	if err != nil {
		return nil, err
	}
	return m.frontiers[idx], nil
}

func (m *Meta[T]) mustFrontier(op string, w forkjoin.Worker) *Frontier[T] {
	f, err := m.Frontier(w)
	if err != nil {
		panic(&MisuseError{Op: "Meta." + op, Err: err})
	}
	return f
}

// Push appends value to w's frontier.
func (m *Meta[T]) Push(w forkjoin.Worker, value T) {
	// the owning frontier has a single writer, so it is addressed as from outside any pool
	m.mustFrontier("Push", w).Push(forkjoin.Worker{}, value)
}

// Pop removes the last value pushed to shard 0 of w's frontier.
func (m *Meta[T]) Pop(w forkjoin.Worker) (T, bool) {
	return m.mustFrontier("Pop", w).Pop(forkjoin.Worker{})
}

// Iter returns a cursor over w's frontier only.
func (m *Meta[T]) Iter(w forkjoin.Worker) *Cursor[T] {
	return m.mustFrontier("Iter", w).Iter()
}

// ParIter returns w's frontier as a parallel source.
func (m *Meta[T]) ParIter(w forkjoin.Worker) *ParIter[T] {
	return m.mustFrontier("ParIter", w).ParIter()
}

// Count returns the number of frontiers.
func (m *Meta[T]) Count() int {
	return len(m.frontiers)
}

// Frontiers returns the frontiers in slot order. The slice is a copy; the frontiers are shared.
func (m *Meta[T]) Frontiers() []*Frontier[T] {
	out := make([]*Frontier[T], len(m.frontiers))
	copy(out, m.frontiers)
	return out
}

// Len returns the number of elements across all frontiers.
func (m *Meta[T]) Len() int {
	n := 0
	for _, f := range m.frontiers {
		n += f.Len()
	}
	return n
}

func (m *Meta[T]) IsEmpty() bool {
	return m.Len() == 0
}

func (m *Meta[T]) Clear() {
	for _, f := range m.frontiers {
		f.Clear()
	}
}

func (m *Meta[T]) ShrinkToFit() {
	for _, f := range m.frontiers {
		f.ShrinkToFit()
	}
}

// ShardSizes returns the length of each frontier, in slot order.
func (m *Meta[T]) ShardSizes() []int {
	sizes := make([]int, len(m.frontiers))
	for i, f := range m.frontiers {
		sizes[i] = f.Len()
	}
	return sizes
}

// All yields the elements of every frontier, in slot order.
func (m *Meta[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, f := range m.frontiers {
			for v := range f.All() {
				if !yield(v) {
					return
				}
			}
		}
	}
}

// MetaEqual reports whether a.All() and b.All() yield the same sequence.
func MetaEqual[T comparable](a, b *Meta[T]) bool {
	if a.Len() != b.Len() {
		return false
	}
	next, stop := iter.Pull(b.All())
	defer stop()
	for x := range a.All() {
		if y, _ := next(); x != y {
			return false
		}
	}
	return true
}
