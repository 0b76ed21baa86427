// core/dna/dna.go
package dna

import "bytes"

/* -------------------------- complement table ----------------------------- */

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['R'] = 'Y'
	complement['Y'] = 'R'
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['K'] = 'M'
	complement['M'] = 'K'
	complement['B'] = 'V'
	complement['V'] = 'B'
	complement['D'] = 'H'
	complement['H'] = 'D'
	complement['N'] = 'N'
}

// RevComp returns the reverse complement of seq. Unknown bytes map to 'N'.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}

/* -------------------------- IUPAC lookup table --------------------------- */

var iupacMask [256]byte // bit0=A bit1=C bit2=G bit3=T

func init() {
	set := func(c byte, bits byte) { iupacMask[c] = bits }
	set('A', 1)       // 0001
	set('C', 2)       // 0010
	set('G', 4)       // 0100
	set('T', 8)       // 1000
	set('R', 1|4)     // A/G
	set('Y', 2|8)     // C/T
	set('S', 2|4)     // C/G
	set('W', 1|8)     // A/T
	set('K', 4|8)     // G/T
	set('M', 1|2)     // A/C
	set('B', 2|4|8)   // C/G/T
	set('D', 1|4|8)   // A/G/T
	set('H', 1|2|8)   // A/C/T
	set('V', 1|2|4)   // A/C/G
	set('N', 1|2|4|8) // any (pattern side only)
}

// BaseMatch returns true if pattern base `p` can pair with genome base `g`
// according to the IUPAC ambiguity codes *and* g ∈ {A,C,G,T}.
//
// A genome base of 'N' (or any non-ACGT byte) is treated as a HARD mismatch.
// This prevents large N-blocks from producing thousands of spurious hits.
func BaseMatch(g, p byte) bool {
	if g != 'A' && g != 'C' && g != 'G' && g != 'T' {
		return false
	}
	return iupacMask[p]&iupacMask[g] != 0
}

// IsUnambiguous reports whether p contains only plain A/C/G/T.
func IsUnambiguous(p []byte) bool {
	for _, c := range p {
		if c != 'A' && c != 'C' && c != 'G' && c != 'T' {
			return false
		}
	}
	return true
}

// IsIUPAC reports whether every byte of p is a recognized IUPAC code.
func IsIUPAC(p []byte) bool {
	for _, c := range p {
		if iupacMask[c] == 0 {
			return false
		}
	}
	return len(p) > 0
}

/* ----------------------------- normalization ----------------------------- */

// Normalize uppercases seq and maps anything outside the IUPAC alphabet to
// 'N'. The result is a fresh buffer; the input is never modified.
func Normalize(seq []byte) []byte {
	out := bytes.ToUpper(seq) // always a fresh copy
	for i, c := range out {
		if iupacMask[c] == 0 {
			out[i] = 'N'
		}
	}
	return out
}

// Base index helpers shared by the window metrics.
// BaseIndex returns 0..3 for A/C/G/T and -1 otherwise.
func BaseIndex(c byte) int {
	switch c {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	}
	return -1
}
