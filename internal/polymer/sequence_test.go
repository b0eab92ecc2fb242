package polymer

import (
	"testing"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSequence(t *testing.T) {
	tests := []struct {
		name    string
		alpha   Alphabet
		in      string
		want    string
		wantPos int
	}{
		{"dna", DNA, "ACGT", "ACGT", -1},
		{"soft-masked dna", DNA, "acgT", "ACGT", -1},
		{"u in dna", DNA, "ACGU", "", 3},
		{"n in dna", DNA, "ANGT", "", 1},
		{"rna", RNA, "ACGU", "ACGU", -1},
		{"t in rna", RNA, "ACGT", "", 3},
		{"protein with stop", Protein, "MKV*", "MKV*", -1},
		{"protein ambiguity codes", Protein, "BZXUO", "BZXUO", -1},
		{"digit in protein", Protein, "MK1", "", 2},
		{"empty", DNA, "", "", -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSequence(tt.alpha, "id", tt.in)
			if tt.wantPos >= 0 {
				var fe *SequenceFormatError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.wantPos, fe.Pos)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.String())
			assert.Equal(t, tt.alpha, s.Alphabet())
			assert.Equal(t, "id", s.ID())
		})
	}

	_, err := NewSequence(Alphabet(0), "", "A")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestLinearConversion(t *testing.T) {
	s, err := NewSequence(Protein, "P69905", "MVLSPADKTNVKAAW")
	require.NoError(t, err)
	s = s.WithDescription("Hemoglobin subunit alpha")

	ls := s.ToLinear()
	assert.Equal(t, "P69905", ls.Name())
	assert.Equal(t, "Hemoglobin subunit alpha", ls.Description())
	assert.Equal(t, s.Len(), ls.Len())

	back, err := FromLinear(ls)
	require.NoError(t, err)
	assert.True(t, s.Equal(back))
	assert.Equal(t, s.Description(), back.Description())

	rna, err := FromLinear(linear.NewSeq("m", alphabet.BytesToLetters([]byte("AUG")), alphabet.RNA))
	require.NoError(t, err)
	assert.Equal(t, RNA, rna.Alphabet())

	_, err = FromLinear(nil)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestAlphabetBiogoMapping(t *testing.T) {
	for _, a := range []Alphabet{DNA, RNA, Protein} {
		got, ok := alphabetOf(a.Biogo())
		require.True(t, ok)
		assert.Equal(t, a, got)
	}
	assert.Equal(t, "DNA", DNA.String())
	assert.Equal(t, "", Alphabet(9).Symbols())
	assert.False(t, Alphabet(9).Valid('A'))
}

func TestParseAlphabet(t *testing.T) {
	for _, a := range []Alphabet{DNA, RNA, Protein} {
		got, err := ParseAlphabet(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	got, err := ParseAlphabet("dna")
	require.NoError(t, err)
	assert.Equal(t, DNA, got)

	_, err = ParseAlphabet("xna")
	assert.ErrorIs(t, err, ErrFormat)
}
