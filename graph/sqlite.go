package graph

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "modernc.org/sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func checkTable(table string) error {
	if !identRe.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return nil
}

func openDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("graph: open %s: %w", path, err)
	}
	return db, nil
}

// LoadSQLite reads the integer columns src and dst of table. opts configure the builder.
func LoadSQLite(ctx context.Context, path, table string, undirected bool, opts ...BuilderOption) (*CSR, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT src, dst FROM "+table)
	if err != nil {
		return nil, fmt.Errorf("graph: query %s: %w", table, err)
	}
	defer rows.Close()

	if undirected {
		opts = append(opts[:len(opts):len(opts)], Undirected())
	}
	b := NewBuilder(opts...)
	for rows.Next() {
		var src, dst int64
		if err := rows.Scan(&src, &dst); err != nil {
			return nil, fmt.Errorf("graph: scan %s: %w", table, err)
		}
		if src < 0 || dst < 0 || src > 1<<32-1 || dst > 1<<32-1 {
			return nil, fmt.Errorf("%w: %d -> %d out of node range", ErrMalformedEdge, src, dst)
		}
		if err := b.AddEdge(uint32(src), uint32(dst)); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("graph: read %s: %w", table, err)
	}
	return b.Build(), nil
}

// SaveSQLite writes every edge of g into table, creating it if needed.
// Edges already present are left untouched.
func SaveSQLite(ctx context.Context, path, table string, g *CSR) error {
	if err := checkTable(table); err != nil {
		return err
	}
	db, err := openDB(path)
	if err != nil {
		return err
	}
	defer db.Close()

	ddl := `CREATE TABLE IF NOT EXISTS ` + table + ` (
		src INTEGER NOT NULL,
		dst INTEGER NOT NULL,
		PRIMARY KEY (src, dst)
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("graph: create %s: %w", table, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO "+table+" (src, dst) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("graph: prepare insert: %w", err)
	}
	defer stmt.Close()

	for u, v := range g.Edges() {
		if _, err := stmt.ExecContext(ctx, int64(u), int64(v)); err != nil {
			return fmt.Errorf("graph: insert %d -> %d: %w", u, v, err)
		}
	}
	return tx.Commit()
}
