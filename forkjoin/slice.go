package forkjoin

import (
	"iter"
	"slices"
)

// Slice exposes a slice to the pool as both an unindexed and an indexed source.
type Slice[T any] struct {
	pool  *Pool
	items []T
}

// FromSlice wraps items for parallel consumption on p. A nil pool means Default().
func FromSlice[T any](p *Pool, items []T) *Slice[T] {
	if p == nil {
		p = Default()
	}
	return &Slice[T]{pool: p, items: items}
}

func (s *Slice[T]) Pool() *Pool {
	return s.pool
}

func (s *Slice[T]) Len() int {
	return len(s.items)
}

func (s *Slice[T]) Unindexed() UnindexedProducer[T] {
	return sliceProducer[T](s.items)
}

func (s *Slice[T]) Indexed() Producer[T] {
	return sliceProducer[T](s.items)
}

type sliceProducer[T any] []T

func (sp sliceProducer[T]) Len() int {
	return len(sp)
}

func (sp sliceProducer[T]) Split() (UnindexedProducer[T], UnindexedProducer[T], bool) {
	if len(sp) < 2 {
		return sp, nil, false
	}
	mid := len(sp) / 2
	return sp[:mid], sp[mid:], true
}

func (sp sliceProducer[T]) SplitAt(index int) (Producer[T], Producer[T]) {
	return sp[:index], sp[index:]
}

func (sp sliceProducer[T]) All() iter.Seq[T] {
	return slices.Values(sp)
}
