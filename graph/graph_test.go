package graph_test

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"parfront/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_DedupAndOrder(t *testing.T) {
	b := graph.NewBuilder()
	b.AddEdge(2, 0)
	b.AddEdge(0, 3)
	b.AddEdge(0, 1)
	b.AddEdge(0, 3)
	assert.Equal(t, 3, b.Len())

	g := b.Build()
	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, 3, g.NumEdges())
	assert.Equal(t, []uint32{1, 3}, g.Neighbors(0))
	assert.Empty(t, g.Neighbors(1))
	assert.Equal(t, []uint32{0}, g.Neighbors(2))
	assert.Equal(t, 0, g.Degree(3))
	assert.Equal(t, "CSR[nodes=4 edges=3]", g.String())
}

func TestBuilder_Options(t *testing.T) {
	tests := []struct {
		name      string
		opts      []graph.BuilderOption
		wantNodes int
		wantEdges int
	}{
		{"directed", nil, 3, 2},
		{"undirected", []graph.BuilderOption{graph.Undirected()}, 3, 4},
		{"isolated nodes", []graph.BuilderOption{graph.WithNodes(10)}, 10, 2},
		{"WithNodes below max id", []graph.BuilderOption{graph.WithNodes(1)}, 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := graph.NewBuilder(tt.opts...)
			b.AddEdge(0, 1)
			b.AddEdge(1, 2)
			g := b.Build()
			assert.Equal(t, tt.wantNodes, g.NumNodes())
			assert.Equal(t, tt.wantEdges, g.NumEdges())
		})
	}
}

func TestBuilder_Empty(t *testing.T) {
	g := graph.NewBuilder().Build()
	assert.Zero(t, g.NumNodes())
	assert.Zero(t, g.NumEdges())
}

func TestReadEdgeList(t *testing.T) {
	input := `# a triangle and a tail
0 1
1 2   0.5

2 0
2 3
`
	g, err := graph.ReadEdgeList(strings.NewReader(input), false)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NumNodes())
	assert.Equal(t, 4, g.NumEdges())
	assert.Equal(t, []uint32{0, 3}, g.Neighbors(2))

	var buf bytes.Buffer
	require.NoError(t, graph.WriteEdgeList(&buf, g))
	assert.Equal(t, "0 1\n1 2\n2 0\n2 3\n", buf.String())
}

func TestReadEdgeList_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"single field", "0 1\n7\n", "line 2"},
		{"negative id", "# c\n-1 2\n", "line 2"},
		{"not a number", "a b\n", "line 1"},
		{"too large", "0 4294967296\n", "line 1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.ReadEdgeList(strings.NewReader(tt.input), true)
			assert.ErrorIs(t, err, graph.ErrMalformedEdge)
			assert.ErrorContains(t, err, tt.line)
		})
	}
}

func TestSQLite_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "edges.db")

	b := graph.NewBuilder()
	for _, e := range [][2]uint32{{0, 1}, {0, 2}, {2, 5}, {5, 0}} {
		b.AddEdge(e[0], e[1])
	}
	g := b.Build()

	require.NoError(t, graph.SaveSQLite(ctx, path, "edges", g))
	// saving twice leaves the table unchanged
	require.NoError(t, graph.SaveSQLite(ctx, path, "edges", g))

	back, err := graph.LoadSQLite(ctx, path, "edges", false)
	require.NoError(t, err)
	assert.Equal(t, g.NumNodes(), back.NumNodes())
	assert.Equal(t, g.NumEdges(), back.NumEdges())
	for u := range g.NumNodes() {
		assert.Equal(t, g.Neighbors(uint32(u)), back.Neighbors(uint32(u)))
	}

	und, err := graph.LoadSQLite(ctx, path, "edges", true)
	require.NoError(t, err)
	assert.Equal(t, 8, und.NumEdges())
}

func TestSQLite_InvalidTable(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "edges.db")
	for _, table := range []string{"", "edges; DROP TABLE x", "1edges", "e-dges"} {
		_, err := graph.LoadSQLite(ctx, path, table, false)
		assert.ErrorIs(t, err, graph.ErrInvalidTable)
		assert.ErrorIs(t, graph.SaveSQLite(ctx, path, table, graph.NewBuilder().Build()), graph.ErrInvalidTable)
	}
}

func TestSQLite_MissingTable(t *testing.T) {
	_, err := graph.LoadSQLite(context.Background(), filepath.Join(t.TempDir(), "empty.db"), "edges", false)
	assert.Error(t, err)
}

func TestBuilder_NodeLimit(t *testing.T) {
	b := graph.NewBuilder(graph.WithMaxNodes(10), graph.Undirected())
	require.NoError(t, b.AddEdge(0, 9))
	assert.ErrorIs(t, b.AddEdge(3, 10), graph.ErrNodeLimit)
	assert.ErrorIs(t, b.AddEdge(4294967295, 0), graph.ErrNodeLimit)

	// rejected edges leave no trace
	g := b.Build()
	assert.Equal(t, 10, g.NumNodes())
	assert.Equal(t, 2, g.NumEdges())

	assert.Panics(t, func() { graph.NewBuilder(graph.WithMaxNodes(4), graph.WithNodes(5)) })
}

func TestReadEdgeList_NodeLimit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		opts  []graph.BuilderOption
	}{
		{"default limit", "0 1\n0 4294967295\n", nil},
		{"explicit limit", "0 1\n0 50000000\n", []graph.BuilderOption{graph.WithMaxNodes(1000)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := graph.ReadEdgeList(strings.NewReader(tt.input), false, tt.opts...)
			assert.ErrorIs(t, err, graph.ErrNodeLimit)
			assert.ErrorContains(t, err, "line 2")
		})
	}

	g, err := graph.ReadEdgeList(strings.NewReader("0 999\n"), true, graph.WithMaxNodes(1000))
	require.NoError(t, err)
	assert.Equal(t, 1000, g.NumNodes())
}

func TestLoadSQLite_NodeLimit(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "edges.db")
	b := graph.NewBuilder()
	require.NoError(t, b.AddEdge(0, 500))
	require.NoError(t, graph.SaveSQLite(ctx, path, "edges", b.Build()))

	_, err := graph.LoadSQLite(ctx, path, "edges", false, graph.WithMaxNodes(100))
	assert.ErrorIs(t, err, graph.ErrNodeLimit)

	g, err := graph.LoadSQLite(ctx, path, "edges", false, graph.WithMaxNodes(501))
	require.NoError(t, err)
	assert.Equal(t, 501, g.NumNodes())
}
