package polymer

import (
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
)

// Sequence is an immutable run of symbols drawn from one Alphabet, with
// optional identifier metadata taken from the source header.
type Sequence struct {
	alpha   Alphabet
	id      string
	desc    string
	symbols string
}

// NewSequence validates symbols against alpha and returns the sequence.
// Lower-case input (soft-masked FASTA) is upper-cased.
func NewSequence(alpha Alphabet, id, symbols string) (Sequence, error) {
	if !alpha.known() {
		return Sequence{}, formatError("new sequence", "unknown alphabet %d", alpha)
	}
	s := strings.ToUpper(symbols)
	if i := alpha.firstInvalid(s); i >= 0 {
		return Sequence{}, symbolError("new sequence", alpha, s, i)
	}
	return Sequence{alpha: alpha, id: id, symbols: s}, nil
}

// FromLinear converts a biogo sequence, keeping its name and description.
func FromLinear(ls *linear.Seq) (Sequence, error) {
	if ls == nil {
		return Sequence{}, formatError("from linear", "nil sequence")
	}
	alpha, ok := alphabetOf(ls.Alphabet())
	if !ok {
		return Sequence{}, formatError("from linear", "unsupported alphabet for %q", ls.Name())
	}
	s, err := NewSequence(alpha, ls.Name(), string(alphabet.LettersToBytes(ls.Seq)))
	if err != nil {
		return Sequence{}, err
	}
	s.desc = ls.Description()
	return s, nil
}

// ToLinear returns a fresh biogo sequence holding a copy of the symbols.
func (s Sequence) ToLinear() *linear.Seq {
	ls := linear.NewSeq(s.id, alphabet.BytesToLetters([]byte(s.symbols)), s.alpha.Biogo())
	ls.Desc = s.desc
	return ls
}

// WithDescription returns a copy of s carrying the given description.
func (s Sequence) WithDescription(desc string) Sequence {
	s.desc = desc
	return s
}

func (s Sequence) Alphabet() Alphabet { return s.alpha }
func (s Sequence) ID() string { return s.id }
func (s Sequence) Description() string { return s.desc }
func (s Sequence) Len() int { return len(s.symbols) }
func (s Sequence) String() string { return s.symbols }
func (s Sequence) At(i int) byte { return s.symbols[i] }
func (s Sequence) Equal(o Sequence) bool { return s.alpha == o.alpha && s.symbols == o.symbols }

// slice returns the symbols covered by sp as a sequence of the same alphabet.
func (s Sequence) slice(sp Span) Sequence {
	return Sequence{alpha: s.alpha, id: s.id, symbols: s.symbols[sp.Start:sp.End]}
}
