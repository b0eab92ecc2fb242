package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/biogo/biogo/seq/linear"

	"github.com/inodb/biopolymer/internal/polymer"
)

// StoreSequence caches a fetched record under accession, replacing any
// earlier copy.
func (s *Store) StoreSequence(accession string, ls *linear.Seq) error {
	seq, err := polymer.FromLinear(ls)
	if err != nil {
		return fmt.Errorf("store sequence %s: %w", accession, err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO fetched_sequences
		(accession, name, description, alphabet, symbols, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		accession, seq.ID(), seq.Description(), seq.Alphabet().String(), seq.String(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store sequence %s: %w", accession, err)
	}
	return nil
}

// sequenceRow is the fetched_sequences column layout.
type sequenceRow struct {
	Name        string `db:"name"`
	Description string `db:"description"`
	Alphabet    string `db:"alphabet"`
	Symbols     string `db:"symbols"`
}

// LookupSequence returns the cached record for accession, or nil, nil.
func (s *Store) LookupSequence(accession string) (*linear.Seq, error) {
	var row sequenceRow
	err := s.db.Get(&row, `SELECT name, description, alphabet, symbols
		FROM fetched_sequences WHERE accession = ?`, accession)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup sequence %s: %w", accession, err)
	}

	a, err := polymer.ParseAlphabet(row.Alphabet)
	if err != nil {
		return nil, fmt.Errorf("lookup sequence %s: %w", accession, err)
	}
	seq, err := polymer.NewSequence(a, row.Name, row.Symbols)
	if err != nil {
		return nil, fmt.Errorf("lookup sequence %s: %w", accession, err)
	}
	return seq.WithDescription(row.Description).ToLinear(), nil
}

// SequenceCount returns the number of cached records.
func (s *Store) SequenceCount() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM fetched_sequences").Scan(&count); err != nil {
		return 0, fmt.Errorf("count sequences: %w", err)
	}
	return count, nil
}
