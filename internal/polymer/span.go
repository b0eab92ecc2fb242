package polymer

import (
	"fmt"
	"sort"
)

// Span is a half-open [Start, End) range of 0-based gene coordinates.
type Span struct {
	Start int
	End   int
}

func (s Span) Len() int { return s.End - s.Start }

func (s Span) String() string { return fmt.Sprintf("[%d,%d)", s.Start, s.End) }

// Annotations lists the exon and intron spans of a gene.
type Annotations struct {
	Exons   []Span
	Introns []Span
}

// WholeGene annotates an unspliced gene of length n as a single exon.
func WholeGene(n int) Annotations {
	return Annotations{Exons: []Span{{0, n}}}
}

// region is one annotated span tagged with its kind.
type region struct {
	Span
	exon bool
}

func (r region) kind() string {
	if r.exon {
		return "exon"
	}
	return "intron"
}

// partition checks that the annotated spans tile [0, n) exactly and returns
// them in genomic order.
func partition(n int, ann Annotations) ([]region, error) {
	const op = "partition"

	regions := make([]region, 0, len(ann.Exons)+len(ann.Introns))
	for _, sp := range ann.Exons {
		regions = append(regions, region{Span: sp, exon: true})
	}
	for _, sp := range ann.Introns {
		regions = append(regions, region{Span: sp})
	}
	if len(regions) == 0 {
		return nil, formatError(op, "no exon or intron annotation for a gene of length %d", n)
	}

	for _, r := range regions {
		if r.Start < 0 || r.End > n || r.Start >= r.End {
			return nil, formatError(op, "%s %s is empty or outside gene of length %d", r.kind(), r.Span, n)
		}
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Start < regions[j].Start
	})

	next := 0
	for i, r := range regions {
		switch {
		case r.Start < next:
			prev := regions[i-1]
			return nil, formatError(op, "%s %s overlaps %s %s", r.kind(), r.Span, prev.kind(), prev.Span)
		case r.Start > next:
			return nil, formatError(op, "gap [%d,%d) is neither exon nor intron", next, r.Start)
		}
		next = r.End
	}
	if next != n {
		return nil, formatError(op, "gap [%d,%d) is neither exon nor intron", next, n)
	}
	return regions, nil
}
