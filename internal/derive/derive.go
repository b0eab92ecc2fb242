// Package derive computes every facet of a batch of gene records.
package derive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/biogo/biogo/seq/linear"
	"go.uber.org/zap"

	"github.com/inodb/biopolymer/internal/annotation"
	"github.com/inodb/biopolymer/internal/fasta"
	"github.com/inodb/biopolymer/internal/polymer"
)

// Facet names, in the order they are derived.
const (
	FacetCoding     = "coding"
	FacetNonCoding  = "noncoding"
	FacetTranscript = "transcript"
	FacetMessenger  = "messenger"
	FacetProtein    = "protein"
)

// Facets holds the derived sequences of one record. A facet that could not
// be derived is empty and its error text is kept in Errors.
type Facets struct {
	ID          string
	GeneLength  int
	ExonCount   int
	IntronCount int
	Coding      string
	NonCoding   string
	Transcript  string
	Messenger   string
	Protein     string
	Errors      map[string]string
}

// ErrorSummary joins facet errors as "facet: message" in facet-name order.
func (f *Facets) ErrorSummary() string {
	if len(f.Errors) == 0 {
		return ""
	}
	names := make([]string, 0, len(f.Errors))
	for name := range f.Errors {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + f.Errors[name]
	}
	return strings.Join(parts, "; ")
}

func (f *Facets) fail(facet string, err error) {
	if f.Errors == nil {
		f.Errors = make(map[string]string)
	}
	f.Errors[facet] = err.Error()
}

// Collect reads every facet of p.
func Collect[T fmt.Stringer](p *polymer.BioPolymer[T]) *Facets {
	gene := p.GeneSequence()
	f := &Facets{
		ID:          p.ID(),
		GeneLength:  gene.Len(),
		ExonCount:   len(gene.Exons()),
		IntronCount: len(gene.Introns()),
	}

	if s, err := p.CodingSequence(); err != nil {
		f.fail(FacetCoding, err)
	} else {
		f.Coding = s.String()
	}
	if s, err := p.NonCodingSequence(); err != nil {
		f.fail(FacetNonCoding, err)
	} else {
		f.NonCoding = s.String()
	}
	if s, err := p.TranscriptSequence(); err != nil {
		f.fail(FacetTranscript, err)
	} else {
		f.Transcript = s.String()
	}
	if s, err := p.MessengerSequence(); err != nil {
		f.fail(FacetMessenger, err)
	} else {
		f.Messenger = s.String()
	}
	if s, err := p.ProteinSequence(); err != nil {
		f.fail(FacetProtein, err)
	} else {
		f.Protein = s.String()
	}
	return f
}

// AnnotationLookup finds the exon/intron structure for a record ID.
type AnnotationLookup interface {
	Lookup(id string) (polymer.Annotations, bool)
}

// RecordIndex adapts GTF records to AnnotationLookup. IDs are matched by
// accession with the version stripped the same way the GTF loader strips
// it, so "NM_000546.6" and "ENST00000311936.8" resolve. Spans assume the
// record is in transcript orientation; reverse-strand genes must be supplied
// reverse-complemented.
type RecordIndex map[string]*annotation.Record

func (ri RecordIndex) Lookup(id string) (polymer.Annotations, bool) {
	r, ok := ri[fasta.Accession(id)]
	if !ok {
		return polymer.Annotations{}, false
	}
	return r.Annotations, true
}

// Deriver builds a BioPolymer for each record and collects its facets.
type Deriver struct {
	lookup            AnnotationLookup
	requireAnnotation bool
	logger            *zap.Logger
}

// NewDeriver creates a deriver. A nil lookup treats every record as an
// unspliced single-exon gene.
func NewDeriver(lookup AnnotationLookup) *Deriver {
	return &Deriver{
		lookup: lookup,
		logger: zap.NewNop(),
	}
}

// SetRequireAnnotation makes records without an annotation fail instead of
// being treated as single-exon genes.
func (d *Deriver) SetRequireAnnotation(require bool) {
	d.requireAnnotation = require
}

// SetLogger sets the logger for warning and info messages.
func (d *Deriver) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Derive builds the BioPolymer for s and collects its facets. The error is
// non-nil only when the polymer itself cannot be constructed.
func (d *Deriver) Derive(s *linear.Seq) (*Facets, error) {
	ann, ok := polymer.Annotations{}, false
	if d.lookup != nil {
		ann, ok = d.lookup.Lookup(s.Name())
	}
	if !ok {
		if d.requireAnnotation {
			return nil, fmt.Errorf("no annotation for %q", s.Name())
		}
		ann = polymer.WholeGene(s.Len())
	}

	p, err := polymer.From(s, ann)
	if err != nil {
		return nil, fmt.Errorf("build %q: %w", s.Name(), err)
	}

	f := Collect(p)
	if len(f.Errors) > 0 {
		d.logger.Debug("facet derivation incomplete",
			zap.String("id", f.ID),
			zap.String("errors", f.ErrorSummary()))
	}
	return f, nil
}
