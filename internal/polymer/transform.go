package polymer

import (
	"strings"
)

// Splice removes everything outside the given exon spans from gene and
// concatenates the exons in the order given.
func Splice(gene Sequence, exons []Span) (Sequence, error) {
	const op = "splice"
	if gene.alpha != DNA {
		return Sequence{}, formatError(op, "alphabet is %s, want DNA", gene.alpha)
	}

	var b strings.Builder
	for _, sp := range exons {
		if sp.Start < 0 || sp.End > gene.Len() || sp.Start > sp.End {
			return Sequence{}, formatError(op, "exon %s outside gene of length %d", sp, gene.Len())
		}
		b.WriteString(gene.symbols[sp.Start:sp.End])
	}
	if b.Len() == 0 {
		return Sequence{}, formatError(op, "exons have zero total length")
	}
	return Sequence{alpha: DNA, id: gene.id, symbols: b.String()}, nil
}

// Transcribe maps a DNA sequence onto RNA, replacing every T with U.
func Transcribe(dna Sequence) (Sequence, error) {
	const op = "transcribe"
	if dna.alpha != DNA {
		return Sequence{}, formatError(op, "alphabet is %s, want DNA", dna.alpha)
	}
	if i := DNA.firstInvalid(dna.symbols); i >= 0 {
		return Sequence{}, symbolError(op, DNA, dna.symbols, i)
	}
	return Sequence{
		alpha:   RNA,
		id:      dna.id,
		symbols: strings.ReplaceAll(dna.symbols, "T", "U"),
	}, nil
}

// Translate reads mRNA from the first AUG to the first in-frame stop codon
// and returns the encoded protein, stop excluded.
func Translate(mrna Sequence) (Sequence, error) {
	const op = "translate"
	if mrna.alpha != RNA {
		return Sequence{}, formatError(op, "alphabet is %s, want RNA", mrna.alpha)
	}

	s := mrna.symbols
	start := strings.Index(s, startCodon)
	if start < 0 {
		return Sequence{}, formatError(op, "no start codon %s", startCodon)
	}

	var b strings.Builder
	b.Grow((len(s) - start) / 3)
	for i := start; i+3 <= len(s); i += 3 {
		aa := TranslateCodon(s[i : i+3])
		if aa == '*' {
			return Sequence{alpha: Protein, id: mrna.id, symbols: b.String()}, nil
		}
		b.WriteByte(aa)
	}

	if rem := (len(s) - start) % 3; rem != 0 {
		return Sequence{}, formatError(op, "no in-frame stop codon after start at %d; %d trailing symbols do not form a codon", start, rem)
	}
	return Sequence{}, formatError(op, "no in-frame stop codon after start at %d", start)
}
