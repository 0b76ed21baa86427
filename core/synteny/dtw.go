// core/synteny/dtw.go
package synteny

import "math"

// DTWDistance computes the dynamic-time-warping distance between the two
// gene-order sequences, with per-cell cost 1−similarity. It tolerates local
// stretching/compression, so two genomes differing only by tandem
// duplications still score near zero.
func DTWDistance(matrix [][]float64) float64 {
	n := len(matrix)
	if n == 0 {
		return 0
	}
	m := len(matrix[0])
	if m == 0 {
		return 0
	}

	// Two-row DP keeps memory at O(m).
	prev := make([]float64, m)
	cur := make([]float64, m)

	prev[0] = 1 - matrix[0][0]
	for j := 1; j < m; j++ {
		prev[j] = prev[j-1] + (1 - matrix[0][j])
	}

	for i := 1; i < n; i++ {
		cur[0] = prev[0] + (1 - matrix[i][0])
		for j := 1; j < m; j++ {
			best := math.Min(prev[j], math.Min(prev[j-1], cur[j-1]))
			cur[j] = best + (1 - matrix[i][j])
		}
		prev, cur = cur, prev
	}
	return prev[m-1]
}
