package forkjoin_test

import (
	"fmt"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"parfront/forkjoin"

	"github.com/stretchr/testify/assert"
)

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func TestCombinators(t *testing.T) {
	for _, width := range []int{1, 2, 5} {
		for _, n := range []int{0, 1, 2, 33, 4096} {
			t.Run(fmt.Sprintf("width=%d/n=%d", width, n), func(t *testing.T) {
				items := ints(n)
				src := forkjoin.FromSlice(forkjoin.NewPool(width), items)

				assert.Equal(t, n, forkjoin.Count(src))
				assert.Equal(t, n*(n-1)/2, forkjoin.Sum(src))

				got := forkjoin.Collect(src)
				assert.Equal(t, items, got)

				seen := make([]bool, n)
				forkjoin.ForEachIndexed(src, func(_ forkjoin.Worker, i, v int) {
					assert.Equal(t, i, v)
					seen[i] = true
				})
				assert.NotContains(t, seen, false)
			})
		}
	}
}

func TestReduce_PreservesOrder(t *testing.T) {
	items := ints(500)
	src := forkjoin.FromSlice(forkjoin.NewPool(4), items)
	got := forkjoin.Reduce(src,
		func() []int { return nil },
		func(acc []int, v int) []int { return append(acc, v) },
		func(low, high []int) []int { return append(low, high...) })
	assert.Equal(t, items, got)
}

func TestForEach_VisitsAll(t *testing.T) {
	items := ints(1000)
	p := forkjoin.NewPool(3)
	perWorker := make([][]int, p.Width())
	forkjoin.ForEach(forkjoin.FromSlice(p, items), func(w forkjoin.Worker, v int) {
		idx, _ := w.Index()
		perWorker[idx] = append(perWorker[idx], v)
	})
	var all []int
	for _, part := range perWorker {
		all = append(all, part...)
	}
	slices.Sort(all)
	assert.Equal(t, items, all)
}

func TestFromSlice_NilPoolUsesDefault(t *testing.T) {
	src := forkjoin.FromSlice[int](nil, nil)
	assert.Same(t, forkjoin.Default(), src.Pool())
	assert.Zero(t, forkjoin.Count(src))
}

// finishes fails the test if fn has not returned within a few seconds.
func finishes(t *testing.T, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("did not return: nested call is waiting for a slot")
	}
}

func TestFromVariants_NestedOnSamePool(t *testing.T) {
	for _, width := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("width=%d", width), func(t *testing.T) {
			p := forkjoin.NewPool(width)
			items := ints(300)
			src := forkjoin.FromSlice(p, items)

			finishes(t, func() {
				// every slot is held by an outer task
				p.Scope(func(w forkjoin.Worker) {
					assert.Equal(t, 300, forkjoin.CountFrom(w, src))
					assert.Equal(t, 300*299/2, forkjoin.SumFrom(w, src))
					assert.Equal(t, items, forkjoin.CollectFrom(w, src))

					var n atomic.Int64
					forkjoin.ForEachFrom(w, src, func(inner forkjoin.Worker, _ int) {
						assert.Same(t, p, inner.Pool())
						n.Add(1)
					})
					forkjoin.RangeFrom(w, p, 50, func(_ forkjoin.Worker, lo, hi int) {
						n.Add(int64(hi - lo))
					})
					assert.EqualValues(t, 350, n.Load())
				})
			})
		})
	}
}

func TestFromVariants_ForeignWorkerAcquiresSlot(t *testing.T) {
	outer, inner := forkjoin.NewPool(1), forkjoin.NewPool(2)
	src := forkjoin.FromSlice(inner, ints(10))
	outer.Install(func(w forkjoin.Worker) {
		var pools []*forkjoin.Pool
		forkjoin.ForEachIndexedFrom(w, src, func(iw forkjoin.Worker, i, _ int) {
			if i == 0 {
				pools = append(pools, iw.Pool())
			}
		})
		assert.Equal(t, []*forkjoin.Pool{inner}, pools)
	})
}
