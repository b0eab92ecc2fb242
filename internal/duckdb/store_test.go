package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/biopolymer/internal/derive"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
	assert.Equal(t, "", s.Path())
}

func TestOpenCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "facets.duckdb")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

// --- Facet tests ---

func TestWriteAndLookupFacets(t *testing.T) {
	s := openInMemory(t)

	facets := []*derive.Facets{
		{
			ID: "gene1", GeneLength: 9, ExonCount: 1,
			Coding: "ATGAAATAG", Transcript: "ATGAAATAG",
			Messenger: "AUGAAAUAG", Protein: "MK",
		},
		{
			ID: "nostop", GeneLength: 6, ExonCount: 1,
			Coding: "ATGAAA", Transcript: "ATGAAA", Messenger: "AUGAAA",
			Errors: map[string]string{derive.FacetProtein: "translate: no in-frame stop codon after start at 0"},
		},
	}
	require.NoError(t, s.WriteFacets(facets))

	got, err := s.LookupFacets("gene1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, facets[0], got)

	got, err = s.LookupFacets("nostop")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "", got.Protein)
	assert.Equal(t, facets[1].Errors, got.Errors)

	got, err = s.LookupFacets("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	count, err := s.FacetCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestWriteFacetsReplaces(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteFacets([]*derive.Facets{
		{ID: "g", Protein: "MK", Errors: map[string]string{derive.FacetNonCoding: "stale"}},
	}))
	require.NoError(t, s.WriteFacets([]*derive.Facets{
		{ID: "g", Protein: "MA"},
		{ID: "g", Protein: "MKP"},
	}))

	count, err := s.FacetCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	got, err := s.LookupFacets("g")
	require.NoError(t, err)
	assert.Equal(t, "MKP", got.Protein)
	assert.Empty(t, got.Errors)
}

func TestWriteFacetsKeepsOldRowsOnFailure(t *testing.T) {
	s := openInMemory(t)

	require.NoError(t, s.WriteFacets([]*derive.Facets{{ID: "g", Protein: "MK"}}))

	// Without facet_errors the replace fails after the polymer_facets row
	// for "g" has already been deleted.
	_, err := s.DB().Exec("DROP TABLE facet_errors")
	require.NoError(t, err)

	err = s.WriteFacets([]*derive.Facets{{ID: "g", Protein: "MKP"}, {ID: "h", Protein: "M"}})
	require.Error(t, err)

	var proteins []string
	require.NoError(t, s.db.Select(&proteins, "SELECT protein FROM polymer_facets ORDER BY id"))
	assert.Equal(t, []string{"MK"}, proteins)
}

func TestSearchByProtein(t *testing.T) {
	s := openInMemory(t)
	require.NoError(t, s.WriteFacets([]*derive.Facets{
		{ID: "b", Protein: "MK"},
		{ID: "a", Protein: "MK"},
		{ID: "c", Protein: "MKP"},
	}))

	results, err := s.SearchByProtein("MK")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a", results[0].ID)
	assert.Equal(t, "b", results[1].ID)

	require.NoError(t, s.ClearFacets())
	count, err := s.FacetCount()
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestWriteFacetsEmpty(t *testing.T) {
	s := openInMemory(t)
	assert.NoError(t, s.WriteFacets(nil))
}

// --- Fetched sequence tests ---

func TestStoreAndLookupSequence(t *testing.T) {
	s := openInMemory(t)

	ls := linear.NewSeq("sp|P69905|HBA_HUMAN", alphabet.BytesToLetters([]byte("MVLSPADKTNVKAAW")), alphabet.Protein)
	ls.Desc = "Hemoglobin subunit alpha"
	require.NoError(t, s.StoreSequence("P69905", ls))

	got, err := s.LookupSequence("P69905")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "sp|P69905|HBA_HUMAN", got.Name())
	assert.Equal(t, "Hemoglobin subunit alpha", got.Description())
	assert.Equal(t, "MVLSPADKTNVKAAW", got.String())

	// Re-storing replaces the row.
	require.NoError(t, s.StoreSequence("P69905", ls))
	count, err := s.SequenceCount()
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	got, err = s.LookupSequence("Q99999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStoreSequenceRejectsInvalid(t *testing.T) {
	s := openInMemory(t)
	ls := linear.NewSeq("bad", alphabet.BytesToLetters([]byte("MK12")), alphabet.Protein)
	assert.Error(t, s.StoreSequence("bad", ls))
}

// --- Derive run tests ---

func TestRecordRun(t *testing.T) {
	s := openInMemory(t)

	path := filepath.Join(t.TempDir(), "genes.fa")
	require.NoError(t, os.WriteFile(path, []byte(">g\nATGTAA\n"), 0644))
	fp, err := StatFile(path)
	require.NoError(t, err)

	ok, _, err := s.HasRun(fp)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RecordRun(fp, 1))
	ok, n, err := s.HasRun(fp)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	changed := fp
	changed.ModTime = fp.ModTime.Add(time.Second)
	ok, _, err = s.HasRun(changed)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = StatFile(filepath.Join(t.TempDir(), "missing.fa"))
	assert.Error(t, err)
}
