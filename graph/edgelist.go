package graph

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrMalformedEdge is returned for an edge-list line that is not two node ids.
	ErrMalformedEdge = errors.New("graph: malformed edge")
	// ErrInvalidTable is returned when a SQLite table name is not a plain identifier.
	ErrInvalidTable = errors.New("graph: invalid table name")
	// ErrNodeLimit is returned for an edge whose node id is beyond the builder's limit.
	ErrNodeLimit = errors.New("graph: node id exceeds limit")
)

// ReadEdgeList parses lines of the form "src dst". Blank lines and lines starting
// with '#' are skipped; extra fields after dst (weights) are ignored.
// opts configure the builder, for example WithMaxNodes.
func ReadEdgeList(r io.Reader, undirected bool, opts ...BuilderOption) (*CSR, error) {
	if undirected {
		opts = append(opts[:len(opts):len(opts)], Undirected())
	}
	b := NewBuilder(opts...)

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: line %d: %q", ErrMalformedEdge, line, text)
		}
		u, err := parseNode(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedEdge, line, err)
		}
		v, err := parseNode(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedEdge, line, err)
		}
		if err := b.AddEdge(u, v); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("graph: read edge list: %w", err)
	}
	return b.Build(), nil
}

func parseNode(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}

// WriteEdgeList writes g as one "src dst" line per edge.
func WriteEdgeList(w io.Writer, g *CSR) error {
	bw := bufio.NewWriter(w)
	for u, v := range g.Edges() {
		if _, err := fmt.Fprintf(bw, "%d %d\n", u, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}
