package frontier_test

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"parfront/forkjoin"
	"parfront/frontier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParIter_ManyContexts(t *testing.T) {
	const m, n = 24, 1000
	for _, width := range []int{1, 3, 8} {
		t.Run(fmt.Sprintf("width=%d", width), func(t *testing.T) {
			p := forkjoin.NewPool(width)
			f := frontier.New[int](frontier.WithPool(p))
			forkjoin.Range(p, m, func(w forkjoin.Worker, lo, hi int) {
				for ctx := lo; ctx < hi; ctx++ {
					for i := range n {
						f.Push(w, ctx*n+i)
					}
				}
			})

			pi := f.ParIter()
			assert.Equal(t, m*n, pi.Len())
			assert.Equal(t, m*n, pi.Count())

			var enumerated atomic.Int64
			seen := make([]atomic.Bool, m*n)
			forkjoin.ForEachIndexed[int](pi, func(_ forkjoin.Worker, i int, v int) {
				enumerated.Add(1)
				seen[v].Store(true)
			})
			assert.EqualValues(t, m*n, enumerated.Load())
			for v := range seen {
				require.True(t, seen[v].Load(), "value %d not visited", v)
			}
		})
	}
}

func TestParIter_CollectKeepsLogicalOrder(t *testing.T) {
	f, want := jagged(t, 7, 0, 130, 1, 0, 64, 2)
	f2, err := frontier.FromShards(f.Shards(), frontier.WithPool(forkjoin.NewPool(7)))
	require.NoError(t, err)

	assert.Equal(t, want, f.ParIter().Collect())
	assert.Equal(t, want, f2.ParIter().Collect())
}

func TestParIter_ForEachVisitsOnce(t *testing.T) {
	p := forkjoin.NewPool(4)
	f, want := jagged(t, 50, 0, 25, 200)
	f2, err := frontier.FromShards(f.Shards(), frontier.WithPool(p))
	require.NoError(t, err)

	var mu sync.Mutex
	var got []int
	f2.ParIter().ForEach(func(w forkjoin.Worker, v int) {
		assert.Same(t, p, w.Pool())
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	slices.Sort(got)
	assert.Equal(t, want, got)
}

func TestParIter_Reduce(t *testing.T) {
	f, want := jagged(t, 3, 9, 0, 27)
	sum := forkjoin.Sum[int](f.ParIter())
	expected := 0
	for _, v := range want {
		expected += v
	}
	assert.Equal(t, expected, sum)

	ordered := forkjoin.Reduce[int](f.ParIter(),
		func() []int { return nil },
		func(acc []int, v int) []int { return append(acc, v) },
		func(a, b []int) []int { return append(a, b...) })
	assert.Equal(t, want, ordered)
}

func TestParIter_Lengths(t *testing.T) {
	f := frontier.FromSlice([]int{1, 2, 3}, frontier.WithWidth(2))
	pi := f.ParIter()
	n, ok := pi.OptLen()
	assert.False(t, ok)
	assert.Zero(t, n)
	assert.Equal(t, 3, pi.Len())
	assert.Same(t, forkjoin.Default(), pi.Pool())
}

func TestParIter_Empty(t *testing.T) {
	f := frontier.New[int](frontier.WithWidth(4))
	assert.Zero(t, f.ParIter().Count())
	assert.Empty(t, f.ParIter().Collect())
}

// Workers of the frontier's own pool can push into it while it is being consumed in parallel.
func TestParIter_PushDuringConsumption(t *testing.T) {
	p := forkjoin.NewPool(4)
	cur := frontier.FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8}, frontier.WithPool(p))
	next := frontier.New[int](frontier.WithPool(p))

	cur.ParIter().ForEach(func(w forkjoin.Worker, v int) {
		next.Push(w, v*10)
		next.Push(w, v*10+1)
	})
	assert.Equal(t, 16, next.Len())
	got := next.Concat()
	slices.Sort(got)
	assert.Equal(t, []int{10, 11, 20, 21, 30, 31, 40, 41, 50, 51, 60, 61, 70, 71, 80, 81}, got)
}

func TestParIter_ConsumeFromInsidePool(t *testing.T) {
	for _, width := range []int{1, 3} {
		t.Run(fmt.Sprintf("width=%d", width), func(t *testing.T) {
			p := forkjoin.NewPool(width)
			f := frontier.New[int](frontier.WithPool(p))
			for i := range 20 {
				f.Push(outside, i)
			}

			done := make(chan struct{})
			go func() {
				defer close(done)
				p.Install(func(w forkjoin.Worker) {
					assert.Equal(t, 20, f.ParIter().CountFrom(w))
					assert.Equal(t, f.Concat(), f.ParIter().CollectFrom(w))

					next := frontier.New[int](frontier.WithPool(p))
					f.ParIter().ForEachFrom(w, func(inner forkjoin.Worker, v int) {
						next.Push(inner, v)
					})
					assert.Equal(t, 20, next.Len())
				})
			}()
			select {
			case <-done:
			case <-time.After(5 * time.Second):
				t.Fatal("consuming from a task of the same pool did not return")
			}
		})
	}
}

func TestMeta_ParIterFromOwner(t *testing.T) {
	p := forkjoin.NewPool(2)
	m := frontier.NewMeta[int](frontier.WithPool(p))
	p.Scope(func(w forkjoin.Worker) {
		for i := range 5 {
			m.Push(w, i)
		}
		assert.Equal(t, 5, m.ParIter(w).CountFrom(w))
	})
	assert.Equal(t, 10, m.Len())
}
