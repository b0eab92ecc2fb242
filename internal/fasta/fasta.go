// Package fasta reads and writes FASTA sequence records.
package fasta

import (
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
)

// DefaultWidth is the line width used when writing FASTA.
const DefaultWidth = 60

// Read parses every record in r using alpha as the sequence alphabet.
func Read(r io.Reader, alpha alphabet.Alphabet) ([]*linear.Seq, error) {
	fr := fasta.NewReader(r, linear.NewSeq("", nil, alpha))

	var records []*linear.Seq
	for {
		s, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read FASTA record %d: %w", len(records)+1, err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("read FASTA record %d: unexpected sequence type %T", len(records)+1, s)
		}
		records = append(records, ls)
	}
	return records, nil
}

// Find returns the first record whose accession matches id, or nil.
func Find(records []*linear.Seq, id string) *linear.Seq {
	for _, r := range records {
		if Accession(r.Name()) == id || r.Name() == id {
			return r
		}
	}
	return nil
}

// Write writes records to w wrapped at width symbols per line.
func Write(w io.Writer, width int, records ...*linear.Seq) error {
	if width <= 0 {
		width = DefaultWidth
	}
	fw := fasta.NewWriter(w, width)
	for _, r := range records {
		if _, err := fw.Write(r); err != nil {
			return fmt.Errorf("write FASTA record %q: %w", r.Name(), err)
		}
	}
	return nil
}

// Accession extracts the record accession from a FASTA identifier.
// Handles UniProt, GENCODE and plain versioned identifiers:
//
//	sp|P69905|HBA_HUMAN                        -> P69905
//	ENST00000456328.2|ENSG00000290825.1|...    -> ENST00000456328
//	ENST00000311936.8                          -> ENST00000311936
//	NM_000546.6                                -> NM_000546
func Accession(id string) string {
	id = strings.TrimPrefix(strings.TrimSpace(id), ">")
	if i := strings.IndexAny(id, " \t"); i != -1 {
		id = id[:i]
	}

	fields := strings.Split(id, "|")
	switch {
	case len(fields) >= 2 && (fields[0] == "sp" || fields[0] == "tr"):
		return fields[1]
	case len(fields) >= 1:
		return StripVersion(fields[0])
	}
	return id
}

// StripVersion removes a numeric version suffix from a transcript or
// protein accession, e.g. "ENST00000456328.2" -> "ENST00000456328" and
// "NM_000546.6" -> "NM_000546". IDs whose last dot is not followed by
// digits only are returned unchanged.
func StripVersion(id string) string {
	idx := strings.LastIndex(id, ".")
	if idx <= 0 || idx == len(id)-1 {
		return id
	}
	for _, c := range id[idx+1:] {
		if c < '0' || c > '9' {
			return id
		}
	}
	return id[:idx]
}
