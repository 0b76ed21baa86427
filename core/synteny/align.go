// core/synteny/align.go
package synteny

import (
	"errors"

	"genoscope-core/genes"
)

// ErrNoGenes is returned when either gene list is empty: synteny without
// genes is meaningless, so this is a hard precondition failure.
var ErrNoGenes = errors.New("synteny: empty gene list")

// Block is one conserved gene-order segment. Index ranges are inclusive
// gene-list indices; bp ranges are forward-strand base-pair coordinates
// derived from the bounding genes.
type Block struct {
	QueryStartIdx int     `json:"query_start_idx"`
	QueryEndIdx   int     `json:"query_end_idx"`
	RefStartIdx   int     `json:"ref_start_idx"`
	RefEndIdx     int     `json:"ref_end_idx"`
	QueryStartBp  int     `json:"query_start_bp"`
	QueryEndBp    int     `json:"query_end_bp"`
	RefStartBp    int     `json:"ref_start_bp"`
	RefEndBp      int     `json:"ref_end_bp"`
	Score         float64 `json:"score"`
	Orientation   string  `json:"orientation"` // "same" | "inverted"
}

// Result is one alignment run.
type Result struct {
	Blocks      []Block     `json:"blocks"`
	Matrix      [][]float64 `json:"matrix"` // rows = query genes
	GlobalScore float64     `json:"global_score"`
	DTWDistance float64     `json:"dtw_distance"`

	QueryCoverageBp   int     `json:"query_coverage_bp"`
	RefCoverageBp     int     `json:"ref_coverage_bp"`
	QueryCoverageFrac float64 `json:"query_coverage_frac"`
	RefCoverageFrac   float64 `json:"ref_coverage_frac"`
}

// maxChainGap bounds how far the reference index may jump between
// consecutive query genes inside one block.
const maxChainGap = 5

// Align runs the order-aware, similarity-weighted alignment between two
// ordered gene lists.
func Align(query, reference []genes.Gene) (Result, error) {
	if len(query) == 0 || len(reference) == 0 {
		return Result{}, ErrNoGenes
	}

	matrix := SimilarityMatrix(query, reference)

	// Best reference match per query gene.
	best := make([]match, len(query))
	for i := range query {
		best[i] = match{ref: -1}
		for j := range reference {
			if s := matrix[i][j]; s > best[i].sim {
				best[i] = match{ref: j, sim: s}
			}
		}
	}

	// Chain consecutive matches into collinear runs. Direction is fixed by
	// the first two members; a flip, a gap beyond maxChainGap, or an
	// unmatched gene ends the run.
	var blocks []Block
	runStart := -1
	dir := 0 // +1 same, -1 inverted, 0 undecided
	flush := func(endIdx int) {
		if runStart < 0 {
			return
		}
		if endIdx-runStart+1 >= 2 {
			refLo, refHi := refRange(best, runStart, endIdx)
			blocks = append(blocks, makeBlock(query, reference, refLo, refHi, runStart, endIdx, dirLabel(dir), blockScore(best, runStart, endIdx)))
		}
		runStart = -1
		dir = 0
	}
	for i := range query {
		if best[i].ref < 0 {
			flush(i - 1)
			continue
		}
		if runStart < 0 {
			runStart = i
			continue
		}
		prev := best[i-1].ref
		cur := best[i].ref
		step := cur - prev
		switch {
		case step == 0:
			// Two query genes mapping to the same reference gene breaks
			// collinearity.
			flush(i - 1)
			runStart = i
		case dir == 0:
			if abs(step) > maxChainGap {
				flush(i - 1)
				runStart = i
			} else if step > 0 {
				dir = 1
			} else {
				dir = -1
			}
		case (dir > 0) != (step > 0) || abs(step) > maxChainGap:
			flush(i - 1)
			runStart = i
		}
	}
	flush(len(query) - 1)

	dtw := DTWDistance(matrix)

	global := 0.0
	for _, b := range blocks {
		global += b.Score
	}
	denom := len(query)
	if len(reference) > denom {
		denom = len(reference)
	}
	global /= float64(denom)

	res := Result{
		Blocks:      blocks,
		Matrix:      matrix,
		GlobalScore: global,
		DTWDistance: dtw,
	}
	fillCoverage(&res, query, reference)
	return res, nil
}

// match pairs a query gene with its best-scoring reference gene.
type match struct {
	ref int
	sim float64
}

// blockScore is the summed pair similarity across the run, i.e. mean
// similarity weighted by span length.
func blockScore(best []match, start, end int) float64 {
	s := 0.0
	for i := start; i <= end; i++ {
		s += best[i].sim
	}
	return s
}

func refRange(best []match, start, end int) (lo, hi int) {
	lo, hi = best[start].ref, best[start].ref
	for i := start + 1; i <= end; i++ {
		if best[i].ref < lo {
			lo = best[i].ref
		}
		if best[i].ref > hi {
			hi = best[i].ref
		}
	}
	return lo, hi
}

func makeBlock(query, reference []genes.Gene, refLo, refHi, qStart, qEnd int, orientation string, score float64) Block {
	return Block{
		QueryStartIdx: qStart,
		QueryEndIdx:   qEnd,
		RefStartIdx:   refLo,
		RefEndIdx:     refHi,
		QueryStartBp:  minInt(query[qStart].Start, query[qEnd].Start),
		QueryEndBp:    maxInt(query[qStart].End, query[qEnd].End),
		RefStartBp:    minInt(reference[refLo].Start, reference[refHi].Start),
		RefEndBp:      maxInt(reference[refLo].End, reference[refHi].End),
		Score:         score,
		Orientation:   orientation,
	}
}

func dirLabel(dir int) string {
	if dir < 0 {
		return "inverted"
	}
	return "same"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
