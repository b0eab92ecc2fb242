// Package polymer models a genetic biopolymer: one DNA source sequence and the
// molecular facets derived from it (coding partition, transcript, mRNA, protein).
package polymer

import (
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
)

// Alphabet identifies the symbol set a Sequence is drawn from.
type Alphabet uint8

const (
	DNA Alphabet = iota + 1
	RNA
	Protein
)

var alphabetSymbols = [...]string{
	DNA:     "ACGT",
	RNA:     "ACGU",
	Protein: "ACDEFGHIKLMNPQRSTVWYBZXUO*",
}

// validSymbol[a][c] is true when c belongs to alphabet a.
var validSymbol [len(alphabetSymbols)][256]bool

func init() {
	for a, symbols := range alphabetSymbols {
		for i := 0; i < len(symbols); i++ {
			validSymbol[a][symbols[i]] = true
		}
	}
}

func (a Alphabet) String() string {
	switch a {
	case DNA:
		return "DNA"
	case RNA:
		return "RNA"
	case Protein:
		return "protein"
	default:
		return "unknown"
	}
}

// ParseAlphabet is the inverse of Alphabet.String, ignoring case.
func ParseAlphabet(name string) (Alphabet, error) {
	for _, a := range []Alphabet{DNA, RNA, Protein} {
		if strings.EqualFold(name, a.String()) {
			return a, nil
		}
	}
	return 0, formatError("parse alphabet", "unknown alphabet %q", name)
}

// Symbols returns the upper-case symbols accepted by the alphabet.
func (a Alphabet) Symbols() string {
	if !a.known() {
		return ""
	}
	return alphabetSymbols[a]
}

// Valid reports whether c is a member of the alphabet.
func (a Alphabet) Valid(c byte) bool {
	return a.known() && validSymbol[a][c]
}

func (a Alphabet) known() bool {
	return a >= DNA && a <= Protein
}

// firstInvalid returns the index of the first symbol of s outside the
// alphabet, or -1.
func (a Alphabet) firstInvalid(s string) int {
	for i := 0; i < len(s); i++ {
		if !a.Valid(s[i]) {
			return i
		}
	}
	return -1
}

// Biogo returns the biogo alphabet used when handing sequences to biogo.
func (a Alphabet) Biogo() alphabet.Alphabet {
	switch a {
	case DNA:
		return alphabet.DNA
	case RNA:
		return alphabet.RNA
	default:
		return alphabet.Protein
	}
}

// alphabetOf maps a biogo alphabet onto an Alphabet by molecule type.
func alphabetOf(a alphabet.Alphabet) (Alphabet, bool) {
	if a == nil {
		return 0, false
	}
	switch a.Moltype() {
	case feat.DNA:
		return DNA, true
	case feat.RNA:
		return RNA, true
	case feat.Protein:
		return Protein, true
	}
	return 0, false
}
