package annotation

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/biopolymer/internal/polymer"
)

const sampleGTF = `##description: test
chr1	HAVANA	transcript	101	118	.	+	.	gene_id "ENSG00000000001.1"; transcript_id "ENST00000000001.2"; gene_name "FWD"; tag "basic"; tag "Ensembl_canonical";
chr1	HAVANA	exon	101	106	.	+	.	gene_id "ENSG00000000001.1"; transcript_id "ENST00000000001.2"; exon_number 1;
chr1	HAVANA	exon	113	118	.	+	.	gene_id "ENSG00000000001.1"; transcript_id "ENST00000000001.2"; exon_number 2;
chr2	HAVANA	transcript	201	218	.	-	.	gene_id "ENSG00000000002.1"; transcript_id "ENST00000000002.1"; gene_name "REV";
chr2	HAVANA	exon	213	218	.	-	.	gene_id "ENSG00000000002.1"; transcript_id "ENST00000000002.1"; exon_number 1;
chr2	HAVANA	exon	201	206	.	-	.	gene_id "ENSG00000000002.1"; transcript_id "ENST00000000002.1"; exon_number 2;
chr3	HAVANA	exon	301	309	.	+	.	gene_id "ENSG00000000003.1"; transcript_id "ENST00000000003.1"; exon_number 1;
chr3	HAVANA	gene	301	309	.	+	.	gene_id "ENSG00000000003.1";
malformed line
chr4	HAVANA	transcript	401	420	.	+	.	gene_id "ENSG00000000004.1"; transcript_id "ENST00000000004.1";
`

func TestParse(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleGTF))
	require.NoError(t, err)

	// ENST4 has no exons and is dropped.
	require.Len(t, records, 3)

	fwd := records["ENST00000000001"]
	require.NotNil(t, fwd)
	assert.Equal(t, "FWD", fwd.GeneName)
	assert.Equal(t, "ENSG00000000001", fwd.GeneID)
	assert.Equal(t, "1", fwd.Chrom)
	assert.Equal(t, int8(1), fwd.Strand)
	assert.Equal(t, 18, fwd.Len())
	assert.Equal(t, []polymer.Span{{Start: 0, End: 6}, {Start: 12, End: 18}}, fwd.Annotations.Exons)
	assert.Equal(t, []polymer.Span{{Start: 6, End: 12}}, fwd.Annotations.Introns)

	rev := records["ENST00000000002"]
	require.NotNil(t, rev)
	assert.Equal(t, int8(-1), rev.Strand)
	assert.Equal(t, []polymer.Span{{Start: 0, End: 6}, {Start: 12, End: 18}}, rev.Annotations.Exons)
	assert.Equal(t, []polymer.Span{{Start: 6, End: 12}}, rev.Annotations.Introns)

	single := records["ENST00000000003"]
	require.NotNil(t, single)
	assert.Equal(t, int64(301), single.Start)
	assert.Equal(t, int64(309), single.End)
	assert.Equal(t, polymer.WholeGene(9), single.Annotations)
}

func TestParseGeneRegionFallback(t *testing.T) {
	gtf := `chr5	HAVANA	gene	501	520	.	+	.	gene_id "ENSG00000000005.2"; gene_name "GENEONLY";
chr5	HAVANA	exon	503	508	.	+	.	gene_id "ENSG00000000005.2"; transcript_id "NM_000005.3"; exon_number 1;
chr5	HAVANA	exon	513	516	.	+	.	gene_id "ENSG00000000005.2"; transcript_id "NM_000005.3"; exon_number 2;
chr6	HAVANA	gene	601	605	.	+	.	gene_id "ENSG00000000006.1";
chr6	HAVANA	exon	601	610	.	+	.	gene_id "ENSG00000000006.1"; transcript_id "NM_000006.1"; exon_number 1;
`
	records, err := Parse(strings.NewReader(gtf))
	require.NoError(t, err)
	require.Len(t, records, 2)

	r := records["NM_000005"]
	require.NotNil(t, r)
	assert.Equal(t, int64(501), r.Start)
	assert.Equal(t, int64(520), r.End)
	assert.Equal(t, []polymer.Span{{Start: 2, End: 8}, {Start: 12, End: 16}}, r.Annotations.Exons)
	assert.Equal(t, []polymer.Span{{Start: 0, End: 2}, {Start: 8, End: 12}, {Start: 16, End: 20}}, r.Annotations.Introns)

	// A gene line that does not cover the exons is ignored.
	narrow := records["NM_000006"]
	require.NotNil(t, narrow)
	assert.Equal(t, int64(601), narrow.Start)
	assert.Equal(t, int64(610), narrow.End)
	assert.Equal(t, polymer.WholeGene(10), narrow.Annotations)
}

func TestParsedAnnotationsBuildPolymer(t *testing.T) {
	records, err := Parse(strings.NewReader(sampleGTF))
	require.NoError(t, err)

	gene, err := polymer.NewSequence(polymer.DNA, "ENST00000000001", "ATGAAGGTAAGTCCCTAG")
	require.NoError(t, err)

	p, err := polymer.From(gene, records["ENST00000000001"].Annotations)
	require.NoError(t, err)

	prot, err := p.ProteinSequence()
	require.NoError(t, err)
	assert.Equal(t, "MKP", prot.String())
}

func TestInferIntrons(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		exons   []polymer.Span
		introns []polymer.Span
	}{
		{"single exon", 9, []polymer.Span{{Start: 0, End: 9}}, nil},
		{"leading and trailing", 10, []polymer.Span{{Start: 2, End: 5}}, []polymer.Span{{Start: 0, End: 2}, {Start: 5, End: 10}}},
		{"unsorted", 10, []polymer.Span{{Start: 6, End: 10}, {Start: 0, End: 3}}, []polymer.Span{{Start: 3, End: 6}}},
		{"overlapping exons", 10, []polymer.Span{{Start: 0, End: 6}, {Start: 4, End: 10}}, nil},
		{"no exons", 4, nil, []polymer.Span{{Start: 0, End: 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ann := InferIntrons(tt.n, tt.exons)
			assert.Equal(t, tt.introns, ann.Introns)
			assert.Len(t, ann.Exons, len(tt.exons))
		})
	}
}

func TestParseAttributes(t *testing.T) {
	attrs := parseAttributes(`gene_id "ENSG1.1"; tag "basic"; tag "MANE_Select"; exon_number 3;`)
	assert.Equal(t, "ENSG1.1", attrs["gene_id"])
	assert.Equal(t, "basic,MANE_Select", attrs["tag"])
	assert.Equal(t, "3", attrs["exon_number"])
}

func TestGTFLoader_LoadGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.gtf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleGTF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := NewGTFLoader(path).Load()
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = NewGTFLoader(filepath.Join(t.TempDir(), "missing.gtf")).Load()
	assert.Error(t, err)
}
