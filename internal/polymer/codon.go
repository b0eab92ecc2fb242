package polymer

import "strings"

// Standard genetic code: mRNA codon to amino acid (single letter), '*' for stop.
var codonTable = map[string]byte{
	"UUU": 'F', "UUC": 'F', "UUA": 'L', "UUG": 'L',
	"UCU": 'S', "UCC": 'S', "UCA": 'S', "UCG": 'S',
	"UAU": 'Y', "UAC": 'Y', "UAA": '*', "UAG": '*',
	"UGU": 'C', "UGC": 'C', "UGA": '*', "UGG": 'W',

	"CUU": 'L', "CUC": 'L', "CUA": 'L', "CUG": 'L',
	"CCU": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
	"CAU": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGU": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',

	"AUU": 'I', "AUC": 'I', "AUA": 'I', "AUG": 'M',
	"ACU": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
	"AAU": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
	"AGU": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',

	"GUU": 'V', "GUC": 'V', "GUA": 'V', "GUG": 'V',
	"GCU": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
	"GAU": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
	"GGU": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
}

const startCodon = "AUG"

// normalizeCodon upper-cases a codon and maps DNA T to RNA U so that DNA
// and RNA codons share one table.
func normalizeCodon(codon string) string {
	return strings.ReplaceAll(strings.ToUpper(codon), "T", "U")
}

// TranslateCodon translates a DNA or RNA codon to its amino acid.
// Returns 'X' for unknown codons and '*' for stop codons.
func TranslateCodon(codon string) byte {
	if len(codon) != 3 {
		return 'X'
	}
	if aa, ok := codonTable[normalizeCodon(codon)]; ok {
		return aa
	}
	return 'X'
}

// IsStopCodon returns true for UAA, UAG and UGA (or their DNA forms).
func IsStopCodon(codon string) bool {
	return TranslateCodon(codon) == '*'
}

// IsStartCodon returns true for AUG (or ATG).
func IsStartCodon(codon string) bool {
	return len(codon) == 3 && normalizeCodon(codon) == startCodon
}

// ReverseComplement returns the reverse complement of a DNA sequence.
func ReverseComplement(s Sequence) (Sequence, error) {
	if s.alpha != DNA {
		return Sequence{}, formatError("reverse complement", "alphabet is %s, want DNA", s.alpha)
	}
	n := len(s.symbols)
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = complement(s.symbols[n-1-i])
	}
	return Sequence{alpha: DNA, id: s.id, desc: s.desc, symbols: string(buf)}, nil
}

func complement(base byte) byte {
	switch base {
	case 'A':
		return 'T'
	case 'T':
		return 'A'
	case 'G':
		return 'C'
	case 'C':
		return 'G'
	default:
		return 'N'
	}
}
