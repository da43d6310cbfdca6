// Package graph holds the compressed sparse row graphs traversed by package traverse,
// and the loaders that build them from edge lists and SQLite tables.
package graph

import (
	"fmt"
	"iter"

	"github.com/google/btree"
)

const btreeDegree = 32

// DefaultMaxNodes bounds the node count of a Builder unless WithMaxNodes says otherwise.
// Node storage is dense, so a single large id costs memory for every id below it.
const DefaultMaxNodes = 1 << 24

type edge struct {
	src, dst uint32
}

func lessEdge(a, b edge) bool {
	if a.src != b.src {
		return a.src < b.src
	}
	return a.dst < b.dst
}

type BuilderOption func(*Builder)

// Undirected makes AddEdge insert both directions.
func Undirected() BuilderOption {
	return func(b *Builder) {
		b.undirected = true
	}
}

// WithNodes makes the built graph have at least n nodes, including isolated ones.
func WithNodes(n int) BuilderOption {
	return func(b *Builder) {
		b.nodes = max(b.nodes, n)
	}
}

// WithMaxNodes makes AddEdge reject node ids >= n. Values below 1 are raised to 1.
func WithMaxNodes(n int) BuilderOption {
	return func(b *Builder) {
		b.maxNodes = max(n, 1)
	}
}

// Builder collects edges, dropping duplicates, and keeps them sorted by (src, dst).
type Builder struct {
	edges      *btree.BTreeG[edge]
	undirected bool
	nodes      int
	maxNodes   int
}

// NewBuilder panics if WithNodes asks for more nodes than the limit allows.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		edges:    btree.NewG[edge](btreeDegree, lessEdge),
		maxNodes: DefaultMaxNodes,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.nodes > b.maxNodes {
		panic(fmt.Sprintf("graph.NewBuilder: %d nodes exceed the limit of %d", b.nodes, b.maxNodes))
	}
	return b
}

// AddEdge records u -> v, and v -> u for an undirected builder.
// It fails with ErrNodeLimit, recording nothing, when either id is beyond the node limit.
func (b *Builder) AddEdge(u, v uint32) error {
	if int64(max(u, v)) >= int64(b.maxNodes) {
		return fmt.Errorf("%w: edge %d -> %d, limit %d", ErrNodeLimit, u, v, b.maxNodes)
	}
	b.insert(u, v)
	if b.undirected {
		b.insert(v, u)
	}
	return nil
}

func (b *Builder) insert(u, v uint32) {
	b.edges.ReplaceOrInsert(edge{u, v})
	b.nodes = max(b.nodes, int(u)+1, int(v)+1)
}

// Len returns the number of distinct directed edges recorded so far.
func (b *Builder) Len() int {
	return b.edges.Len()
}

// Build returns the graph in CSR form. The builder can keep receiving edges afterwards.
func (b *Builder) Build() *CSR {
	g := &CSR{
		offsets: make([]int, b.nodes+1),
		targets: make([]uint32, 0, b.edges.Len()),
	}
	b.edges.Ascend(func(e edge) bool {
		g.offsets[e.src+1]++
		g.targets = append(g.targets, e.dst)
		return true
	})
	for i := 1; i < len(g.offsets); i++ {
		g.offsets[i] += g.offsets[i-1]
	}
	return g
}

// CSR is an immutable directed graph. The neighbours of u are targets[offsets[u]:offsets[u+1]],
// sorted ascending.
type CSR struct {
	offsets []int
	targets []uint32
}

func (g *CSR) NumNodes() int {
	return len(g.offsets) - 1
}

func (g *CSR) NumEdges() int {
	return len(g.targets)
}

// Neighbors returns the out-neighbours of u. The slice must not be modified.
func (g *CSR) Neighbors(u uint32) []uint32 {
	return g.targets[g.offsets[u]:g.offsets[u+1]]
}

func (g *CSR) Degree(u uint32) int {
	return g.offsets[u+1] - g.offsets[u]
}

// Edges yields every directed edge in (src, dst) order.
func (g *CSR) Edges() iter.Seq2[uint32, uint32] {
	return func(yield func(uint32, uint32) bool) {
		for u := range g.NumNodes() {
			for _, v := range g.Neighbors(uint32(u)) {
				if !yield(uint32(u), v) {
					return
				}
			}
		}
	}
}

func (g *CSR) String() string {
	return fmt.Sprintf("CSR[nodes=%d edges=%d]", g.NumNodes(), g.NumEdges())
}
