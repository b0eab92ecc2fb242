// Package output provides facet output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/biopolymer/internal/derive"
)

// TabWriter writes derived facets in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#ID",
			"Gene_length",
			"Exons",
			"Introns",
			"Coding",
			"NonCoding",
			"Transcript",
			"Messenger",
			"Protein",
			"Errors",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes the facets of a single record.
func (tw *TabWriter) Write(f *derive.Facets) error {
	values := []string{
		orDash(f.ID),
		strconv.Itoa(f.GeneLength),
		strconv.Itoa(f.ExonCount),
		strconv.Itoa(f.IntronCount),
		orDash(f.Coding),
		orDash(f.NonCoding),
		orDash(f.Transcript),
		orDash(f.Messenger),
		orDash(f.Protein),
		orDash(f.ErrorSummary()),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
