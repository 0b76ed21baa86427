// core/anomaly/project.go
package anomaly

import "math"

// project reduces the per-window z-score vectors to two dimensions via
// power iteration on the metric covariance matrix, deflating once to get
// the second component.
//
// The iteration seed is derived from the component index through fixed
// constants so runs are reproducible. Eigenvector sign and ordering are
// whatever the iteration converges to; they are not normalized to textbook
// PCA conventions.
func project(z [][]float64) Scatter {
	n := len(z)
	out := Scatter{X: make([]float64, n), Y: make([]float64, n)}
	if n < 2 {
		return out
	}

	var cov [NumMetrics][NumMetrics]float64
	for a := 0; a < NumMetrics; a++ {
		for b := a; b < NumMetrics; b++ {
			s := 0.0
			for i := 0; i < n; i++ {
				s += z[i][a] * z[i][b]
			}
			s /= float64(n - 1)
			cov[a][b] = s
			cov[b][a] = s
		}
	}

	trace := 0.0
	for a := 0; a < NumMetrics; a++ {
		trace += cov[a][a]
	}
	if trace < stdFloor {
		return out
	}

	v1, l1 := powerIterate(&cov, 0)
	deflate(&cov, v1, l1)
	v2, l2 := powerIterate(&cov, 1)

	for i := 0; i < n; i++ {
		out.X[i] = dot(z[i], v1)
		out.Y[i] = dot(z[i], v2)
	}
	out.Explained = [2]float64{l1 / trace, l2 / trace}
	return out
}

const (
	powerIterations = 100
	powerTolerance  = 1e-10
)

// powerIterate finds the dominant eigenvector/value of m starting from a
// deterministic pseudo-random vector keyed by k.
func powerIterate(m *[NumMetrics][NumMetrics]float64, k int) ([NumMetrics]float64, float64) {
	var v [NumMetrics]float64
	for j := 0; j < NumMetrics; j++ {
		s := math.Sin(float64(j+1)*12.9898+float64(k)*78.233) * 43758.5453
		v[j] = s - math.Floor(s)
	}
	normalize(&v)

	var next [NumMetrics]float64
	for it := 0; it < powerIterations; it++ {
		matVec(m, &v, &next)
		if !normalize(&next) {
			return v, 0
		}
		delta := 0.0
		for j := 0; j < NumMetrics; j++ {
			d := next[j] - v[j]
			delta += d * d
		}
		v = next
		if delta < powerTolerance {
			break
		}
	}

	// Rayleigh quotient for the eigenvalue.
	matVec(m, &v, &next)
	lambda := 0.0
	for j := 0; j < NumMetrics; j++ {
		lambda += v[j] * next[j]
	}
	return v, lambda
}

// deflate removes the found component: m -= λ·v·vᵀ.
func deflate(m *[NumMetrics][NumMetrics]float64, v [NumMetrics]float64, lambda float64) {
	for a := 0; a < NumMetrics; a++ {
		for b := 0; b < NumMetrics; b++ {
			m[a][b] -= lambda * v[a] * v[b]
		}
	}
}

func matVec(m *[NumMetrics][NumMetrics]float64, v, out *[NumMetrics]float64) {
	for a := 0; a < NumMetrics; a++ {
		s := 0.0
		for b := 0; b < NumMetrics; b++ {
			s += m[a][b] * v[b]
		}
		out[a] = s
	}
}

func normalize(v *[NumMetrics]float64) bool {
	s := 0.0
	for _, x := range v {
		s += x * x
	}
	norm := math.Sqrt(s)
	if norm < stdFloor {
		return false
	}
	for j := range v {
		v[j] /= norm
	}
	return true
}

func dot(z []float64, v [NumMetrics]float64) float64 {
	s := 0.0
	for j := 0; j < NumMetrics; j++ {
		s += z[j] * v[j]
	}
	return s
}
