package polymer

// GeneSequence is the full genomic DNA of one product, partitioned into
// exons and introns.
type GeneSequence struct {
	Sequence
	regions []region
}

// Exons returns the exon spans in genomic order.
func (g GeneSequence) Exons() []Span { return g.spans(true) }

// Introns returns the intron spans in genomic order.
func (g GeneSequence) Introns() []Span { return g.spans(false) }

func (g GeneSequence) spans(exon bool) []Span {
	var out []Span
	for _, r := range g.regions {
		if r.exon == exon {
			out = append(out, r.Span)
		}
	}
	return out
}

// ExonSequence is one exon: a DNA sub-sequence retained after splicing.
type ExonSequence struct {
	Sequence
	Span   Span
	Number int // 1-based, genomic order
}

// IntronSequence is one intron: a DNA sub-sequence removed by splicing.
// The zero-length IntronSequence stands in for an intron-less gene.
type IntronSequence struct {
	Sequence
	Span   Span
	Number int // 1-based, genomic order; 0 when the gene has no introns
}

// TranscriptSequence is the spliced gene: exons concatenated in genomic
// order, still in the DNA alphabet.
type TranscriptSequence struct {
	Sequence
	Exons []Span
}

// CodingSequence is the union of every exon span of a gene.
type CodingSequence = Sequence

// NonCodingSequence is the union of every intron span of a gene.
type NonCodingSequence = Sequence
