// Package duckdb persists derived facets and fetched sequences in DuckDB.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/marcboeker/go-duckdb"
)

// Store manages a DuckDB connection.
type Store struct {
	db   *sqlx.DB
	path string
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sqlx.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db.DB
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS polymer_facets (
			id VARCHAR,
			gene_length BIGINT,
			exon_count BIGINT,
			intron_count BIGINT,
			coding VARCHAR,
			noncoding VARCHAR,
			transcript VARCHAR,
			messenger VARCHAR,
			protein VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS facet_errors (
			id VARCHAR,
			facet VARCHAR,
			message VARCHAR
		)`,
		`CREATE TABLE IF NOT EXISTS fetched_sequences (
			accession VARCHAR PRIMARY KEY,
			name VARCHAR,
			description VARCHAR,
			alphabet VARCHAR,
			symbols VARCHAR,
			fetched_at TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS derive_runs (
			path VARCHAR,
			size BIGINT,
			mod_time VARCHAR,
			records BIGINT,
			created_at TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
