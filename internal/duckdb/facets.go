package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/biopolymer/internal/derive"
)

// WriteFacets batch-inserts derived facets using the Appender API.
// Rows already stored under the same ID are replaced; within the batch the
// last entry for an ID wins.
func (s *Store) WriteFacets(facets []*derive.Facets) error {
	if len(facets) == 0 {
		return nil
	}

	// Deduplicate by ID, keeping input order of first appearance.
	latest := make(map[string]*derive.Facets, len(facets))
	order := make([]string, 0, len(facets))
	for _, f := range facets {
		if _, ok := latest[f.ID]; !ok {
			order = append(order, f.ID)
		}
		latest[f.ID] = f
	}

	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	// The appender uses the connection's open transaction, so a failed append
	// rolls back the deletes with it.
	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION"); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := replaceFacets(ctx, conn, order, latest); err != nil {
		if _, rbErr := conn.ExecContext(ctx, "ROLLBACK"); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("commit facets: %w", err)
	}
	return nil
}

func replaceFacets(ctx context.Context, conn *sql.Conn, order []string, latest map[string]*derive.Facets) error {
	for _, id := range order {
		if _, err := conn.ExecContext(ctx, `DELETE FROM polymer_facets WHERE id = ?`, id); err != nil {
			return fmt.Errorf("replace facets %q: %w", id, err)
		}
		if _, err := conn.ExecContext(ctx, `DELETE FROM facet_errors WHERE id = ?`, id); err != nil {
			return fmt.Errorf("replace facet errors %q: %w", id, err)
		}
	}

	if err := appendRows(conn, "polymer_facets", order, func(a *goduckdb.Appender, id string) error {
		f := latest[id]
		return a.AppendRow(
			f.ID, int64(f.GeneLength), int64(f.ExonCount), int64(f.IntronCount),
			f.Coding, f.NonCoding, f.Transcript, f.Messenger, f.Protein,
		)
	}); err != nil {
		return err
	}

	return appendRows(conn, "facet_errors", order, func(a *goduckdb.Appender, id string) error {
		f := latest[id]
		names := make([]string, 0, len(f.Errors))
		for name := range f.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := a.AppendRow(f.ID, name, f.Errors[name]); err != nil {
				return err
			}
		}
		return nil
	})
}

// appendRows runs fn for each id against an appender on table.
func appendRows(conn *sql.Conn, table string, ids []string, fn func(*goduckdb.Appender, string) error) error {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return fmt.Errorf("create %s appender: %w", table, err)
	}
	defer appender.Close()

	for _, id := range ids {
		if err := fn(appender, id); err != nil {
			return fmt.Errorf("append %s row: %w", table, err)
		}
	}
	return appender.Flush()
}

// ClearFacets removes all stored facets.
func (s *Store) ClearFacets() error {
	if _, err := s.db.Exec("DELETE FROM polymer_facets"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM facet_errors")
	return err
}

// FacetCount returns the number of stored records.
func (s *Store) FacetCount() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM polymer_facets").Scan(&count); err != nil {
		return 0, fmt.Errorf("count facets: %w", err)
	}
	return count, nil
}

// LookupFacets returns the stored facets for id, or nil if none.
func (s *Store) LookupFacets(id string) (*derive.Facets, error) {
	results, err := s.queryFacets(`WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

// SearchByProtein returns every stored record whose protein equals protein.
func (s *Store) SearchByProtein(protein string) ([]*derive.Facets, error) {
	return s.queryFacets(`WHERE protein = ? ORDER BY id`, protein)
}

// facetRow is the polymer_facets column layout.
type facetRow struct {
	ID          string `db:"id"`
	GeneLength  int64  `db:"gene_length"`
	ExonCount   int64  `db:"exon_count"`
	IntronCount int64  `db:"intron_count"`
	Coding      string `db:"coding"`
	NonCoding   string `db:"noncoding"`
	Transcript  string `db:"transcript"`
	Messenger   string `db:"messenger"`
	Protein     string `db:"protein"`
}

type facetErrorRow struct {
	Facet   string `db:"facet"`
	Message string `db:"message"`
}

func (s *Store) queryFacets(where string, args ...any) ([]*derive.Facets, error) {
	var rows []facetRow
	if err := s.db.Select(&rows, `SELECT
		id, gene_length, exon_count, intron_count,
		coding, noncoding, transcript, messenger, protein
		FROM polymer_facets `+where, args...); err != nil {
		return nil, fmt.Errorf("query facets: %w", err)
	}

	results := make([]*derive.Facets, 0, len(rows))
	for _, r := range rows {
		f := &derive.Facets{
			ID:          r.ID,
			GeneLength:  int(r.GeneLength),
			ExonCount:   int(r.ExonCount),
			IntronCount: int(r.IntronCount),
			Coding:      r.Coding,
			NonCoding:   r.NonCoding,
			Transcript:  r.Transcript,
			Messenger:   r.Messenger,
			Protein:     r.Protein,
		}
		if err := s.loadErrors(f); err != nil {
			return nil, err
		}
		results = append(results, f)
	}
	return results, nil
}

func (s *Store) loadErrors(f *derive.Facets) error {
	var rows []facetErrorRow
	if err := s.db.Select(&rows, `SELECT facet, message FROM facet_errors WHERE id = ?`, f.ID); err != nil {
		return fmt.Errorf("query facet errors: %w", err)
	}
	for _, r := range rows {
		if f.Errors == nil {
			f.Errors = make(map[string]string)
		}
		f.Errors[r.Facet] = r.Message
	}
	return nil
}
