package frontier

import (
	"iter"

	"parfront/forkjoin"
)

// ParIter exposes a frontier to the forkjoin combinators.
// It implements both forkjoin.UnindexedSource and forkjoin.IndexedSource.
type ParIter[T any] struct {
	f *Frontier[T]
}

// Pool returns the frontier's pool, or forkjoin.Default() for an unscoped frontier.
func (p *ParIter[T]) Pool() *forkjoin.Pool {
	if pool := p.f.Pool(); pool != nil {
		return pool
	}
	return forkjoin.Default()
}

// Len returns the total number of elements.
func (p *ParIter[T]) Len() int {
	return p.f.Len()
}

// OptLen reports no length: unindexed consumption does not need one.
func (p *ParIter[T]) OptLen() (int, bool) {
	return 0, false
}

// Unindexed returns a fresh cursor over the frontier as an approximately splittable producer.
func (p *ParIter[T]) Unindexed() forkjoin.UnindexedProducer[T] {
	return unindexedCursor[T]{p.f.Iter()}
}

// Indexed returns a fresh cursor over the frontier as an exactly splittable producer.
func (p *ParIter[T]) Indexed() forkjoin.Producer[T] {
	return indexedCursor[T]{p.f.Iter()}
}

// ForEach calls fn for every element in parallel.
// Code running on the frontier's pool must use ForEachFrom.
func (p *ParIter[T]) ForEach(fn func(forkjoin.Worker, T)) {
	p.ForEachFrom(forkjoin.Worker{}, fn)
}

// ForEachFrom is ForEach for a caller running as w; a worker of the same pool keeps its slot.
func (p *ParIter[T]) ForEachFrom(w forkjoin.Worker, fn func(forkjoin.Worker, T)) {
	forkjoin.ForEachFrom[T](w, p, fn)
}

// Count returns the number of elements by visiting them in parallel.
func (p *ParIter[T]) Count() int {
	return p.CountFrom(forkjoin.Worker{})
}

func (p *ParIter[T]) CountFrom(w forkjoin.Worker) int {
	return forkjoin.CountFrom[T](w, p)
}

// Collect copies every element, in logical order, using the indexed protocol.
func (p *ParIter[T]) Collect() []T {
	return p.CollectFrom(forkjoin.Worker{})
}

func (p *ParIter[T]) CollectFrom(w forkjoin.Worker) []T {
	return forkjoin.CollectFrom[T](w, p)
}

type unindexedCursor[T any] struct {
	c *Cursor[T]
}

func (u unindexedCursor[T]) Split() (forkjoin.UnindexedProducer[T], forkjoin.UnindexedProducer[T], bool) {
	low, high, ok := u.c.Split()
	if !ok {
		return u, nil, false
	}
	return unindexedCursor[T]{low}, unindexedCursor[T]{high}, true
}

func (u unindexedCursor[T]) All() iter.Seq[T] {
	return u.c.All()
}

type indexedCursor[T any] struct {
	c *Cursor[T]
}

func (ic indexedCursor[T]) Len() int {
	return ic.c.Len()
}

func (ic indexedCursor[T]) SplitAt(index int) (forkjoin.Producer[T], forkjoin.Producer[T]) {
	low, high := ic.c.SplitAt(index)
	return indexedCursor[T]{low}, indexedCursor[T]{high}
}

// All drains the cursor directly; no intermediate buffer is needed.
func (ic indexedCursor[T]) All() iter.Seq[T] {
	return ic.c.All()
}
