// core/seqmatch/match.go
package seqmatch

import (
	"bytes"

	"genoscope-core/dna"
)

/* ----------------------- types --------------------- */

// Strand selects which strand(s) a scan covers.
type Strand string

const (
	StrandPlus  Strand = "+"
	StrandMinus Strand = "-"
	StrandBoth  Strand = "both"
)

// Hit is one pattern occurrence in forward-strand coordinates.
// For minus-strand hits Pos still indexes the forward strand: the reported
// range [Pos, Pos+Length) covers the site whose reverse complement matched.
type Hit struct {
	Pos         int
	Length      int
	Strand      Strand
	Mismatches  int
	MismatchIdx []int // 0-based positions in the pattern (5'→3') that mismatched
}

/* --------------------------- FindMatches (cap) -------------------------- */

// FindMatches scans seq for pattern allowing up to maxMM mismatches.
// capHits == 0 ⇒ unlimited. IUPAC codes in the pattern are expanded into
// character classes; genome-side non-ACGT bytes are hard mismatches.
func FindMatches(seq, pattern []byte, maxMM, capHits int) []Hit {
	pl := len(pattern)
	if pl == 0 || len(seq) < pl {
		return nil
	}

	// Exact-match fast path: SIMD'd bytes.Index jump scanning.
	if maxMM == 0 && dna.IsUnambiguous(pattern) {
		out := make([]Hit, 0, 8)
		for i := 0; ; {
			j := bytes.Index(seq[i:], pattern)
			if j < 0 {
				break
			}
			pos := i + j
			out = append(out, Hit{Pos: pos, Length: pl, Strand: StrandPlus})
			if capHits > 0 && len(out) >= capHits {
				break
			}
			i = pos + 1
		}
		return out
	}

	end := len(seq) - pl
	out := make([]Hit, 0, 8)

window:
	for pos := 0; pos <= end; pos++ {
		mm := 0
		var idx []int
		for j := 0; j < pl; j++ {
			if !dna.BaseMatch(seq[pos+j], pattern[j]) {
				mm++
				idx = append(idx, j)
				if mm > maxMM {
					continue window
				}
			}
		}
		out = append(out, Hit{Pos: pos, Length: pl, Strand: StrandPlus, Mismatches: mm, MismatchIdx: idx})
		if capHits > 0 && len(out) >= capHits {
			break // early stop to cap memory
		}
	}
	return out
}

/* ------------------------- stranded scanning ----------------------------- */

// Scan runs FindMatches on the requested strand(s) and remaps minus-strand
// hits into forward coordinates. The cap applies to the combined result.
func Scan(seq, pattern []byte, maxMM, capHits int, strand Strand) []Hit {
	if strand == "" {
		strand = StrandBoth
	}
	var out []Hit

	if strand == StrandPlus || strand == StrandBoth {
		out = append(out, FindMatches(seq, pattern, maxMM, capHits)...)
	}
	if strand == StrandMinus || strand == StrandBoth {
		left := 0
		if capHits > 0 {
			left = capHits - len(out)
			if left <= 0 {
				return out[:capHits]
			}
		}
		rc := dna.RevComp(seq)
		for _, h := range FindMatches(rc, pattern, maxMM, left) {
			// Position h.Pos on the reverse complement corresponds to the
			// forward-strand site ending at len(seq)-h.Pos.
			fwd := len(seq) - h.Pos - h.Length
			out = append(out, Hit{
				Pos:         fwd,
				Length:      h.Length,
				Strand:      StrandMinus,
				Mismatches:  h.Mismatches,
				MismatchIdx: flip(h.Length, h.MismatchIdx),
			})
		}
	}
	if capHits > 0 && len(out) > capHits {
		out = out[:capHits]
	}
	return out
}

// flip mirrors mismatch indices so they refer to forward-strand offsets.
func flip(n int, idx []int) []int {
	if len(idx) == 0 {
		return nil
	}
	out := make([]int, len(idx))
	for i, v := range idx {
		out[i] = n - 1 - v
	}
	return out
}
