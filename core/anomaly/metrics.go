// core/anomaly/metrics.go
package anomaly

import (
	"math"

	"genoscope-core/dna"
)

// Metric indices. Order is fixed: the heatmap, z-score vectors, and the
// covariance matrix all use this layout.
const (
	MetricGC = iota
	MetricGCSkew
	MetricATSkew
	MetricEntropy
	MetricCompression
	MetricKL
	MetricDinucDev
	MetricCodonDev
	NumMetrics
)

// MetricNames maps metric index to its reporting key.
var MetricNames = [NumMetrics]string{
	"gc_content",
	"gc_skew",
	"at_skew",
	"entropy",
	"compression",
	"kl_divergence",
	"dinucleotide_dev",
	"codon_dev",
}

const freqEpsilon = 1e-9

// background holds whole-genome frequency vectors the per-window deviation
// metrics compare against.
type background struct {
	bases [4]float64
	dinuc [16]float64
	codon [64]float64
}

func computeBackground(seq []byte) background {
	var bg background
	baseCounts(seq, &bg.bases)
	dinucFreq(seq, &bg.dinuc)
	codonFreq(seq, &bg.codon)
	return bg
}

func baseCounts(seq []byte, out *[4]float64) {
	var n [4]int
	total := 0
	for _, c := range seq {
		if i := dna.BaseIndex(c); i >= 0 {
			n[i]++
			total++
		}
	}
	if total == 0 {
		return
	}
	for i := range out {
		out[i] = float64(n[i]) / float64(total)
	}
}

func dinucFreq(seq []byte, out *[16]float64) {
	var n [16]int
	total := 0
	for i := 0; i+1 < len(seq); i++ {
		a, b := dna.BaseIndex(seq[i]), dna.BaseIndex(seq[i+1])
		if a < 0 || b < 0 {
			continue
		}
		n[a*4+b]++
		total++
	}
	if total == 0 {
		return
	}
	for i := range out {
		out[i] = float64(n[i]) / float64(total)
	}
}

func codonFreq(seq []byte, out *[64]float64) {
	var n [64]int
	total := 0
	for i := 0; i+2 < len(seq); i += 3 {
		a, b, c := dna.BaseIndex(seq[i]), dna.BaseIndex(seq[i+1]), dna.BaseIndex(seq[i+2])
		if a < 0 || b < 0 || c < 0 {
			continue
		}
		n[a*16+b*4+c]++
		total++
	}
	if total == 0 {
		return
	}
	for i := range out {
		out[i] = float64(n[i]) / float64(total)
	}
}

// windowMetrics fills one NumMetrics-wide row for seq[start:end].
func windowMetrics(win []byte, bg background, row []float64) {
	var counts [4]int
	total := 0
	for _, c := range win {
		if i := dna.BaseIndex(c); i >= 0 {
			counts[i]++
			total++
		}
	}
	a, c, g, t := float64(counts[0]), float64(counts[1]), float64(counts[2]), float64(counts[3])

	if total > 0 {
		row[MetricGC] = (g + c) / float64(total)
	}
	if g+c > 0 {
		row[MetricGCSkew] = (g - c) / (g + c)
	}
	if a+t > 0 {
		row[MetricATSkew] = (a - t) / (a + t)
	}

	// Shannon entropy over the four bases, in bits.
	if total > 0 {
		h := 0.0
		for _, n := range counts {
			if n == 0 {
				continue
			}
			p := float64(n) / float64(total)
			h -= p * math.Log2(p)
		}
		row[MetricEntropy] = h
	}

	row[MetricCompression] = compressionRatio(win)
	row[MetricKL] = klDivergence(counts, total, bg.bases)

	var dn [16]float64
	dinucFreq(win, &dn)
	row[MetricDinucDev] = l2dist16(dn, bg.dinuc)

	var cd [64]float64
	codonFreq(win, &cd)
	row[MetricCodonDev] = l2dist64(cd, bg.codon)
}

// compressionRatio is a cheap compressibility proxy: the fraction of
// distinct 4-mers out of the maximum this window could contain. Repetitive
// sequence scores low, random sequence approaches 1.
func compressionRatio(win []byte) float64 {
	const k = 4
	if len(win) < k {
		return 0
	}
	seen := make(map[uint16]struct{}, 256)
	valid := 0
scan:
	for i := 0; i+k <= len(win); i++ {
		var key uint16
		for j := 0; j < k; j++ {
			b := dna.BaseIndex(win[i+j])
			if b < 0 {
				continue scan
			}
			key = key<<2 | uint16(b)
		}
		valid++
		seen[key] = struct{}{}
	}
	if valid == 0 {
		return 0
	}
	max := valid
	if max > 256 { // 4^4 possible 4-mers
		max = 256
	}
	return float64(len(seen)) / float64(max)
}

// klDivergence compares the window base distribution against the genome
// background (natural log, frequencies floored to avoid log(0)).
func klDivergence(counts [4]int, total int, bg [4]float64) float64 {
	if total == 0 {
		return 0
	}
	kl := 0.0
	for i, n := range counts {
		p := float64(n) / float64(total)
		if p < freqEpsilon {
			continue
		}
		q := bg[i]
		if q < freqEpsilon {
			q = freqEpsilon
		}
		kl += p * math.Log(p/q)
	}
	return kl
}

func l2dist16(a, b [16]float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}

func l2dist64(a, b [64]float64) float64 {
	s := 0.0
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return math.Sqrt(s)
}
