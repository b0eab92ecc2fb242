// Package annotation loads exon/intron structure for genes from GTF files.
package annotation

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/biopolymer/internal/fasta"
	"github.com/inodb/biopolymer/internal/input"
	"github.com/inodb/biopolymer/internal/polymer"
)

// Region is the genomic extent of one transcript.
type Region struct {
	TranscriptID string
	GeneID       string
	GeneName     string
	Chrom        string
	Start        int64 // 1-based
	End          int64 // 1-based, inclusive
	Strand       int8  // +1 or -1
}

// Len returns the number of bases in the region.
func (r Region) Len() int {
	return int(r.End - r.Start + 1)
}

// Record pairs a region with exon/intron spans relative to it. Spans are
// 0-based half-open offsets into the region read in transcript orientation,
// so reverse-strand spans index the reverse complement.
type Record struct {
	Region
	Annotations polymer.Annotations
}

// GTFLoader loads transcript structure from GENCODE/Ensembl GTF files,
// plain or compressed.
type GTFLoader struct {
	path string
}

// NewGTFLoader creates a new GTF loader.
func NewGTFLoader(path string) *GTFLoader {
	return &GTFLoader{path: path}
}

// Load parses the GTF file and returns records keyed by transcript ID
// (version suffix stripped).
func (l *GTFLoader) Load() (map[string]*Record, error) {
	f, err := input.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// gtfFeature represents a parsed GTF line.
type gtfFeature struct {
	chrom       string
	featureType string
	start       int64
	end         int64
	strand      string
	attributes  map[string]string
}

// Parse reads GTF content. Exon features give the structure; the transcript
// feature, or failing that the gene feature, supplies the region. Malformed
// lines are skipped.
func Parse(reader io.Reader) (map[string]*Record, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	regions := make(map[string]*Region)
	exonsByTranscript := make(map[string][][2]int64)
	genes := make(map[string][2]int64)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		feat, err := parseLine(line)
		if err != nil {
			continue
		}

		if feat.featureType == "gene" {
			if id := fasta.StripVersion(feat.attributes["gene_id"]); id != "" {
				genes[id] = [2]int64{feat.start, feat.end}
			}
			continue
		}

		transcriptID := fasta.StripVersion(feat.attributes["transcript_id"])
		if transcriptID == "" {
			continue
		}

		r, ok := regions[transcriptID]
		if !ok {
			r = &Region{
				TranscriptID: transcriptID,
				GeneID:       fasta.StripVersion(feat.attributes["gene_id"]),
				GeneName:     feat.attributes["gene_name"],
				Chrom:        feat.chrom,
				Strand:       parseStrand(feat.strand),
			}
			regions[transcriptID] = r
		}

		switch feat.featureType {
		case "transcript":
			r.Start, r.End = feat.start, feat.end
		case "exon":
			exonsByTranscript[transcriptID] = append(exonsByTranscript[transcriptID], [2]int64{feat.start, feat.end})
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	records := make(map[string]*Record, len(regions))
	for id, r := range regions {
		exons := exonsByTranscript[id]
		if len(exons) == 0 {
			continue
		}

		if r.Start == 0 && r.End == 0 {
			lo, hi := exons[0][0], exons[0][1]
			for _, e := range exons[1:] {
				lo = min(lo, e[0])
				hi = max(hi, e[1])
			}
			// Without a transcript line the gene bounds the region when it
			// covers every exon, else the exons do.
			if g, ok := genes[r.GeneID]; ok && g[0] <= lo && hi <= g[1] {
				lo, hi = g[0], g[1]
			}
			r.Start, r.End = lo, hi
		}

		spans := make([]polymer.Span, 0, len(exons))
		for _, e := range exons {
			spans = append(spans, relativeSpan(*r, e[0], e[1]))
		}
		records[id] = &Record{Region: *r, Annotations: InferIntrons(r.Len(), spans)}
	}

	return records, nil
}

// relativeSpan converts a 1-based inclusive genomic interval into a 0-based
// half-open span in transcript orientation.
func relativeSpan(r Region, start, end int64) polymer.Span {
	if r.Strand == -1 {
		return polymer.Span{Start: int(r.End - end), End: int(r.End - start + 1)}
	}
	return polymer.Span{Start: int(start - r.Start), End: int(end - r.Start + 1)}
}

// InferIntrons sorts exons and annotates every gap between them, and
// between them and the ends of a gene of length n, as an intron.
// Overlapping exons are left for polymer.From to reject.
func InferIntrons(n int, exons []polymer.Span) polymer.Annotations {
	sorted := append([]polymer.Span(nil), exons...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var introns []polymer.Span
	next := 0
	for _, e := range sorted {
		if e.Start > next {
			introns = append(introns, polymer.Span{Start: next, End: e.Start})
		}
		next = max(next, e.End)
	}
	if next < n {
		introns = append(introns, polymer.Span{Start: next, End: n})
	}
	return polymer.Annotations{Exons: sorted, Introns: introns}
}

// parseLine parses a single GTF line.
func parseLine(line string) (*gtfFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}

	return &gtfFeature{
		chrom:       strings.TrimPrefix(fields[0], "chr"),
		featureType: fields[2],
		start:       start,
		end:         end,
		strand:      fields[6],
		attributes:  parseAttributes(fields[8]),
	}, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, ok := strings.Cut(part, " ")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), "\"")

		// Repeated keys (tag) accumulate.
		if prev, seen := attrs[key]; seen {
			value = prev + "," + value
		}
		attrs[key] = value
	}

	return attrs
}

func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}
