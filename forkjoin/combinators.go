package forkjoin

import "iter"

// UnindexedSource is anything that can hand an UnindexedProducer to a pool.
type UnindexedSource[T any] interface {
	Pool() *Pool
	Unindexed() UnindexedProducer[T]
}

// IndexedSource is anything with a known length that can hand a Producer to a pool.
type IndexedSource[T any] interface {
	Pool() *Pool
	Len() int
	Indexed() Producer[T]
}

type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

type none struct{}

func noneReduce(none, none) none { return none{} }

// ForEach calls fn for every item of src, in parallel, passing the worker that runs it.
// Tasks already running on src's pool must use ForEachFrom.
func ForEach[T any](src UnindexedSource[T], fn func(Worker, T)) {
	ForEachFrom(Worker{}, src, fn)
}

// ForEachFrom is ForEach called from w. When w belongs to src's pool the work starts on w's slot.
func ForEachFrom[T any](w Worker, src UnindexedSource[T], fn func(Worker, T)) {
	src.Pool().InstallFrom(w, func(w Worker) {
		BridgeUnindexed(w, src.Unindexed(), func(w Worker, leaf UnindexedProducer[T]) none {
			for v := range leaf.All() {
				fn(w, v)
			}
			return none{}
		}, noneReduce)
	})
}

// Reduce folds every leaf starting from identity() and combines the partial results low-to-high.
func Reduce[T, R any](src UnindexedSource[T], identity func() R, fold func(R, T) R, combine func(low, high R) R) R {
	return ReduceFrom(Worker{}, src, identity, fold, combine)
}

func ReduceFrom[T, R any](w Worker, src UnindexedSource[T], identity func() R, fold func(R, T) R, combine func(low, high R) R) R {
	var out R
	src.Pool().InstallFrom(w, func(w Worker) {
		out = BridgeUnindexed(w, src.Unindexed(), func(_ Worker, leaf UnindexedProducer[T]) R {
			return foldSeq(leaf.All(), identity(), fold)
		}, combine)
	})
	return out
}

func foldSeq[T, R any](seq iter.Seq[T], acc R, fold func(R, T) R) R {
	for v := range seq {
		acc = fold(acc, v)
	}
	return acc
}

// Count returns the number of items in src.
func Count[T any](src UnindexedSource[T]) int {
	return CountFrom(Worker{}, src)
}

func CountFrom[T any](w Worker, src UnindexedSource[T]) int {
	return ReduceFrom(w, src,
		func() int { return 0 },
		func(n int, _ T) int { return n + 1 },
		func(a, b int) int { return a + b })
}

// Sum adds up all items of src.
func Sum[T Number](src UnindexedSource[T]) T {
	return SumFrom(Worker{}, src)
}

func SumFrom[T Number](w Worker, src UnindexedSource[T]) T {
	return ReduceFrom(w, src,
		func() T { return 0 },
		func(acc T, v T) T { return acc + v },
		func(a, b T) T { return a + b })
}

// Collect materializes src in order.
func Collect[T any](src IndexedSource[T]) []T {
	return CollectFrom(Worker{}, src)
}

func CollectFrom[T any](w Worker, src IndexedSource[T]) []T {
	out := make([]T, src.Len())
	ForEachIndexedFrom(w, src, func(_ Worker, i int, v T) {
		out[i] = v
	})
	return out
}

// ForEachIndexed calls fn for every item of src with its position in src.
func ForEachIndexed[T any](src IndexedSource[T], fn func(w Worker, i int, v T)) {
	ForEachIndexedFrom(Worker{}, src, fn)
}

func ForEachIndexedFrom[T any](w Worker, src IndexedSource[T], fn func(w Worker, i int, v T)) {
	src.Pool().InstallFrom(w, func(w Worker) {
		Bridge(w, src.Indexed(), 1, func(w Worker, offset int, leaf Producer[T]) none {
			i := offset
			for v := range leaf.All() {
				fn(w, i, v)
				i++
			}
			return none{}
		}, noneReduce)
	})
}

// Range calls fn over disjoint sub-ranges [lo, hi) that together cover [0, n).
func Range(p *Pool, n int, fn func(w Worker, lo, hi int)) {
	RangeFrom(Worker{}, p, n, fn)
}

func RangeFrom(w Worker, p *Pool, n int, fn func(w Worker, lo, hi int)) {
	if n <= 0 {
		return
	}
	p.InstallFrom(w, func(w Worker) {
		Bridge[int](w, intRange{hi: n}, 1, func(w Worker, offset int, leaf Producer[int]) none {
			fn(w, offset, offset+leaf.Len())
			return none{}
		}, noneReduce)
	})
}

type intRange struct {
	lo, hi int
}

func (r intRange) Len() int {
	return r.hi - r.lo
}

func (r intRange) SplitAt(index int) (Producer[int], Producer[int]) {
	mid := r.lo + index
	return intRange{r.lo, mid}, intRange{mid, r.hi}
}

func (r intRange) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := r.lo; i < r.hi; i++ {
			if !yield(i) {
				return
			}
		}
	}
}
