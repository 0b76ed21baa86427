// core/synteny/coverage.go
package synteny

import (
	"sort"

	"genoscope-core/genes"
)

type interval struct{ start, end int }

// mergeIntervals coalesces overlapping/adjacent ranges and returns the
// total covered length.
func mergeIntervals(ivs []interval) int {
	if len(ivs) == 0 {
		return 0
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })
	covered := 0
	curStart, curEnd := ivs[0].start, ivs[0].end
	for _, iv := range ivs[1:] {
		if iv.start <= curEnd {
			if iv.end > curEnd {
				curEnd = iv.end
			}
			continue
		}
		covered += curEnd - curStart
		curStart, curEnd = iv.start, iv.end
	}
	covered += curEnd - curStart
	return covered
}

// fillCoverage computes the fraction of each genome's annotated span
// explained by synteny blocks, independent of block count.
func fillCoverage(res *Result, query, reference []genes.Gene) {
	qIvs := make([]interval, 0, len(res.Blocks))
	rIvs := make([]interval, 0, len(res.Blocks))
	for _, b := range res.Blocks {
		qIvs = append(qIvs, interval{b.QueryStartBp, b.QueryEndBp})
		rIvs = append(rIvs, interval{b.RefStartBp, b.RefEndBp})
	}
	res.QueryCoverageBp = mergeIntervals(qIvs)
	res.RefCoverageBp = mergeIntervals(rIvs)

	if span := annotatedSpan(query); span > 0 {
		res.QueryCoverageFrac = float64(res.QueryCoverageBp) / float64(span)
	}
	if span := annotatedSpan(reference); span > 0 {
		res.RefCoverageFrac = float64(res.RefCoverageBp) / float64(span)
	}
}

func annotatedSpan(gs []genes.Gene) int {
	if len(gs) == 0 {
		return 0
	}
	lo, hi := gs[0].Start, gs[0].End
	for _, g := range gs[1:] {
		if g.Start < lo {
			lo = g.Start
		}
		if g.End > hi {
			hi = g.End
		}
	}
	return hi - lo
}
