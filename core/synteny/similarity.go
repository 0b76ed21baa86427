// core/synteny/similarity.go
package synteny

import (
	"strings"

	"genoscope-core/genes"
)

// GeneSimilarity scores how likely two genes are the same functional unit
// based on their descriptive labels:
//
//	1.0  identical normalized labels
//	0.8  one label contains the other
//	0.5  any shared word token longer than 3 characters
//	0.0  otherwise
func GeneSimilarity(a, b genes.Gene) float64 {
	la := genes.NormalizeLabel(a.Label())
	lb := genes.NormalizeLabel(b.Label())
	if la == "" || lb == "" {
		return 0
	}
	if la == lb {
		return 1.0
	}
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return 0.8
	}
	ta := genes.Tokens(la)
	tb := genes.Tokens(lb)
	for _, x := range ta {
		if len(x) <= 3 {
			continue
		}
		for _, y := range tb {
			if x == y {
				return 0.5
			}
		}
	}
	return 0
}

// SimilarityMatrix builds the full query×reference similarity matrix
// (rows = query genes) for heatmap display.
func SimilarityMatrix(query, reference []genes.Gene) [][]float64 {
	m := make([][]float64, len(query))
	for i := range query {
		row := make([]float64, len(reference))
		for j := range reference {
			row[j] = GeneSimilarity(query[i], reference[j])
		}
		m[i] = row
	}
	return m
}
