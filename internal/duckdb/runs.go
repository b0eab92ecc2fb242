package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint identifies one version of a derive input by path, size
// and modification time.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile fingerprints the file at path.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{Path: path, Size: info.Size(), ModTime: info.ModTime()}, nil
}

// modTime is the stored form of ModTime; DuckDB timestamps drop nanoseconds.
func (fp FileFingerprint) modTime() string {
	return fp.ModTime.UTC().Format(time.RFC3339Nano)
}

// RecordRun notes that the file fp was derived into records facets.
func (s *Store) RecordRun(fp FileFingerprint, records int) error {
	if _, err := s.db.Exec(`DELETE FROM derive_runs WHERE path = ?`, fp.Path); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	_, err := s.db.Exec(`INSERT INTO derive_runs (path, size, mod_time, records, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		fp.Path, fp.Size, fp.modTime(), int64(records), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// HasRun reports whether fp was already derived with its current size and
// modification time, returning the number of records from that run.
func (s *Store) HasRun(fp FileFingerprint) (bool, int, error) {
	var records int64
	err := s.db.Get(&records, `SELECT records FROM derive_runs
		WHERE path = ? AND size = ? AND mod_time = ?`,
		fp.Path, fp.Size, fp.modTime())
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("check run: %w", err)
	}
	return true, int(records), nil
}
