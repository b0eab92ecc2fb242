package polymer

import (
	"fmt"
	"sync"
)

// GeneticPolymer is the set of molecular facets every BioPolymer derives
// from its source gene.
type GeneticPolymer interface {
	CodingSequence() (CodingSequence, error)
	NonCodingSequence() (NonCodingSequence, error)
	IntronSequence() (IntronSequence, error)
	ExonSequence() (ExonSequence, error)
	TranscriptSequence() (TranscriptSequence, error)
	GeneSequence() GeneSequence
	MessengerSequence() (Sequence, error)
	ProteinSequence() (Sequence, error)
}

// BioPolymer wraps one source sequence of type T and derives its facets.
// The DNA symbols are read from T's String method; when T also has a
// Name (or ID) method it supplies the sequence ID.
//
// A BioPolymer is immutable after From returns. Transcript, messenger and
// protein are computed at most once and are safe for concurrent readers.
type BioPolymer[T fmt.Stringer] struct {
	source T
	gene   GeneSequence

	transcript func() (TranscriptSequence, error)
	messenger  func() (Sequence, error)
	protein    func() (Sequence, error)
}

var _ GeneticPolymer = (*BioPolymer[Sequence])(nil)

// From builds a BioPolymer from source and its exon/intron annotation. It
// fails with a *SequenceFormatError if the source is empty, holds symbols
// outside the DNA alphabet, or the spans do not tile the gene exactly.
func From[T fmt.Stringer](source T, ann Annotations) (*BioPolymer[T], error) {
	var id string
	switch named := any(source).(type) {
	case interface{ Name() string }:
		id = named.Name()
	case interface{ ID() string }:
		id = named.ID()
	}

	dna, err := NewSequence(DNA, id, source.String())
	if err != nil {
		return nil, err
	}
	if dna.Len() == 0 {
		return nil, formatError("from", "empty source sequence %q", id)
	}
	if described, ok := any(source).(interface{ Description() string }); ok {
		dna.desc = described.Description()
	}

	regions, err := partition(dna.Len(), ann)
	if err != nil {
		return nil, err
	}

	p := &BioPolymer[T]{
		source: source,
		gene:   GeneSequence{Sequence: dna, regions: regions},
	}
	p.transcript = sync.OnceValues(p.deriveTranscript)
	p.messenger = sync.OnceValues(p.deriveMessenger)
	p.protein = sync.OnceValues(p.deriveProtein)
	return p, nil
}

// Source returns the original source value, unmodified.
func (p *BioPolymer[T]) Source() T { return p.source }

// ID returns the identifier taken from the source, if any.
func (p *BioPolymer[T]) ID() string { return p.gene.id }

// GeneSequence returns the full DNA span as stored.
func (p *BioPolymer[T]) GeneSequence() GeneSequence { return p.gene }

// CodingSequence returns every exon concatenated in genomic order.
func (p *BioPolymer[T]) CodingSequence() (CodingSequence, error) {
	s, n := p.join(true)
	if n == 0 {
		return Sequence{}, formatError("coding sequence", "no exon annotation")
	}
	return s, nil
}

// NonCodingSequence returns every intron concatenated in genomic order. An
// intron-less gene yields a zero-length sequence, not an error.
func (p *BioPolymer[T]) NonCodingSequence() (NonCodingSequence, error) {
	s, _ := p.join(false)
	return s, nil
}

func (p *BioPolymer[T]) join(exon bool) (Sequence, int) {
	var buf []byte
	n := 0
	for _, r := range p.gene.regions {
		if r.exon == exon {
			buf = append(buf, p.gene.symbols[r.Start:r.End]...)
			n++
		}
	}
	return Sequence{alpha: DNA, id: p.gene.id, symbols: string(buf)}, n
}

// Exons returns every exon in genomic order.
func (p *BioPolymer[T]) Exons() []ExonSequence {
	var out []ExonSequence
	for _, sp := range p.gene.Exons() {
		out = append(out, ExonSequence{Sequence: p.gene.slice(sp), Span: sp, Number: len(out) + 1})
	}
	return out
}

// Introns returns every intron in genomic order.
func (p *BioPolymer[T]) Introns() []IntronSequence {
	var out []IntronSequence
	for _, sp := range p.gene.Introns() {
		out = append(out, IntronSequence{Sequence: p.gene.slice(sp), Span: sp, Number: len(out) + 1})
	}
	return out
}

// ExonSequence returns the first exon.
func (p *BioPolymer[T]) ExonSequence() (ExonSequence, error) {
	return p.ExonAt(0)
}

// ExonAt returns the i-th exon (0-based, genomic order).
func (p *BioPolymer[T]) ExonAt(i int) (ExonSequence, error) {
	exons := p.Exons()
	if i < 0 || i >= len(exons) {
		return ExonSequence{}, formatError("exon sequence", "exon %d requested, gene has %d", i, len(exons))
	}
	return exons[i], nil
}

// IntronSequence returns the first intron, or a zero-length intron when the
// gene has none.
func (p *BioPolymer[T]) IntronSequence() (IntronSequence, error) {
	introns := p.Introns()
	if len(introns) == 0 {
		return IntronSequence{Sequence: Sequence{alpha: DNA, id: p.gene.id}}, nil
	}
	return introns[0], nil
}

// IntronAt returns the i-th intron (0-based, genomic order).
func (p *BioPolymer[T]) IntronAt(i int) (IntronSequence, error) {
	introns := p.Introns()
	if i < 0 || i >= len(introns) {
		return IntronSequence{}, formatError("intron sequence", "intron %d requested, gene has %d", i, len(introns))
	}
	return introns[i], nil
}

// TranscriptSequence returns the gene with introns spliced out.
func (p *BioPolymer[T]) TranscriptSequence() (TranscriptSequence, error) {
	return p.transcript()
}

// MessengerSequence returns the transcript transcribed into RNA.
func (p *BioPolymer[T]) MessengerSequence() (Sequence, error) {
	return p.messenger()
}

// ProteinSequence returns the translation of the messenger sequence.
func (p *BioPolymer[T]) ProteinSequence() (Sequence, error) {
	return p.protein()
}

func (p *BioPolymer[T]) deriveTranscript() (TranscriptSequence, error) {
	exons := p.gene.Exons()
	s, err := Splice(p.gene.Sequence, exons)
	if err != nil {
		return TranscriptSequence{}, err
	}
	return TranscriptSequence{Sequence: s, Exons: exons}, nil
}

func (p *BioPolymer[T]) deriveMessenger() (Sequence, error) {
	t, err := p.transcript()
	if err != nil {
		return Sequence{}, err
	}
	return Transcribe(t.Sequence)
}

func (p *BioPolymer[T]) deriveProtein() (Sequence, error) {
	m, err := p.messenger()
	if err != nil {
		return Sequence{}, err
	}
	return Translate(m)
}
