// Package traverse runs breadth-first searches over graph.CSR graphs.
//
// BFS is level synchronous: the nodes of one level live in a frontier.Frontier,
// every worker expands its part of that frontier in parallel and pushes the newly
// discovered nodes to its own shard of the next level's frontier.
package traverse

import (
	"errors"
	"fmt"
	"sync/atomic"

	"parfront/forkjoin"
	"parfront/frontier"
	"parfront/graph"
	"parfront/internal/ring"
)

// Unreached is the distance of a node the search never reached.
const Unreached int32 = -1

var ErrSourceOutOfRange = errors.New("traverse: source out of range")

// Level describes one BFS level.
type Level struct {
	Size       int
	ShardSizes []int // nodes of the level held by each worker shard
}

type Result struct {
	Source uint32
	Dist   []int32 // hop count from Source, or Unreached
	Levels []Level
}

// Reached returns the number of nodes at a finite distance, the source included.
func (r *Result) Reached() int {
	n := 0
	for _, l := range r.Levels {
		n += l.Size
	}
	return n
}

// Depth returns the number of levels.
func (r *Result) Depth() int {
	return len(r.Levels)
}

type options struct {
	onLevel func(depth int, l Level)
}

type Option func(*options)

// OnLevel registers fn to be called with each level before it is expanded.
func OnLevel(fn func(depth int, l Level)) Option {
	if fn == nil {
		panic("traverse.OnLevel: fn cannot be nil")
	}
	return func(o *options) {
		o.onLevel = fn
	}
}

func checkSource(g *graph.CSR, source uint32) error {
	if int64(source) >= int64(g.NumNodes()) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrSourceOutOfRange, source, g.NumNodes())
	}
	return nil
}

func newDist(n int, source uint32) []int32 {
	dist := make([]int32, n)
	for i := range dist {
		dist[i] = Unreached
	}
	dist[source] = 0
	return dist
}

// BFS computes hop distances from source on pool. A nil pool means forkjoin.Default().
func BFS(pool *forkjoin.Pool, g *graph.CSR, source uint32, opts ...Option) (*Result, error) {
	if err := checkSource(g, source); err != nil {
		return nil, err
	}
	if pool == nil {
		pool = forkjoin.Default()
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	res := &Result{Source: source, Dist: newDist(g.NumNodes(), source)}
	dist := res.Dist

	cur := frontier.New[uint32](frontier.WithPool(pool))
	cur.Push(forkjoin.Worker{}, source)
	for depth := 0; !cur.IsEmpty(); depth++ {
		lvl := Level{Size: cur.Len(), ShardSizes: cur.ShardSizes()}
		res.Levels = append(res.Levels, lvl)
		if o.onLevel != nil {
			o.onLevel(depth, lvl)
		}

		next := frontier.New[uint32](frontier.WithPool(pool))
		d := int32(depth + 1)
		cur.ParIter().ForEach(func(w forkjoin.Worker, u uint32) {
			for _, v := range g.Neighbors(u) {
				// the load skips the CAS for nodes already claimed
				if atomic.LoadInt32(&dist[v]) == Unreached && atomic.CompareAndSwapInt32(&dist[v], Unreached, d) {
					next.Push(w, v)
				}
			}
		})
		cur = next
	}
	return res, nil
}

// SerialBFS is the single-goroutine reference for BFS. Every level reports one shard.
func SerialBFS(g *graph.CSR, source uint32) (*Result, error) {
	if err := checkSource(g, source); err != nil {
		return nil, err
	}
	res := &Result{Source: source, Dist: newDist(g.NumNodes(), source)}

	q := ring.New[uint32](0)
	q.Push(source)
	for !q.IsEmpty() {
		size := q.Len()
		res.Levels = append(res.Levels, Level{Size: size, ShardSizes: []int{size}})
		for range size {
			u, _ := q.Pop()
			for _, v := range g.Neighbors(u) {
				if res.Dist[v] == Unreached {
					res.Dist[v] = res.Dist[u] + 1
					q.Push(v)
				}
			}
		}
	}
	return res, nil
}
