// core/anomaly/scan.go
package anomaly

import (
	"context"
	"math"
	"sort"
)

// Options controls the sliding-window scan.
type Options struct {
	Window int // window size in bp (default 500)
	Step   int // stride between window starts (default 250)
}

func (o Options) withDefaults() Options {
	if o.Window <= 0 {
		o.Window = 500
	}
	if o.Step <= 0 {
		o.Step = 250
	}
	return o
}

// Driver is one metric's contribution to a window's score.
type Driver struct {
	Metric string  `json:"metric"`
	Z      float64 `json:"z"`
}

// Window is one scored scan window. Immutable once produced.
type Window struct {
	Start      int                `json:"start"`
	End        int                `json:"end"`
	Score      float64            `json:"score"` // 0..100
	Type       string             `json:"type"`  // composition | low-complexity | coding | mixed
	ZScores    map[string]float64 `json:"z_scores"`
	TopDrivers []Driver           `json:"top_drivers"`
	Anomalous  bool               `json:"anomalous"`
}

// Heatmap is the metric×window matrix flattened metric-major for display.
type Heatmap struct {
	Metrics []string  `json:"metrics"`
	Windows int       `json:"windows"`
	Values  []float64 `json:"values"` // len = len(Metrics)*Windows
}

// Scatter is the 2-D projection of the per-window z-score vectors.
type Scatter struct {
	X         []float64  `json:"x"`
	Y         []float64  `json:"y"`
	Explained [2]float64 `json:"explained"` // variance fraction per axis
}

// Summary aggregates one scan run.
type Summary struct {
	Threshold    float64 `json:"threshold"`
	AnomalyCount int     `json:"anomaly_count"`
	TopWindows   []int   `json:"top_windows"` // indices of the 5 highest scores
}

// Result is one full analysis run.
type Result struct {
	Windows []Window `json:"windows"`
	Heatmap Heatmap  `json:"heatmap"`
	Scatter Scatter  `json:"scatter"`
	Summary Summary  `json:"summary"`
}

const (
	stdFloor      = 1e-9
	extremeZ      = 2.0 // classification cutoff
	boostZ        = 2.5 // per-metric composite boost cutoff
	scoreBoost    = 2.0
	minThreshold  = 60.0
	topWindowKeep = 5
)

// Scan runs the full anomaly analysis over seq.
func Scan(seq []byte, opts Options) Result {
	r, _ := ScanCtx(context.Background(), seq, opts)
	return r
}

// ScanCtx is the cancelable variant; cancellation is checked once per
// window pass. A sequence shorter than one window yields an empty result.
func ScanCtx(ctx context.Context, seq []byte, opts Options) (Result, error) {
	opts = opts.withDefaults()

	empty := Result{
		Windows: []Window{},
		Heatmap: Heatmap{Metrics: MetricNames[:], Windows: 0, Values: []float64{}},
		Scatter: Scatter{X: []float64{}, Y: []float64{}},
	}
	if len(seq) < opts.Window {
		return empty, nil
	}

	bg := computeBackground(seq)

	// Raw metric rows, one per window.
	type span struct{ start, end int }
	var spans []span
	for start := 0; start+opts.Window <= len(seq); start += opts.Step {
		spans = append(spans, span{start, start + opts.Window})
	}
	n := len(spans)
	raw := make([][]float64, n)
	for i, sp := range spans {
		if err := ctx.Err(); err != nil {
			return empty, err
		}
		raw[i] = make([]float64, NumMetrics)
		windowMetrics(seq[sp.start:sp.end], bg, raw[i])
	}

	// Mean and sample standard deviation per metric.
	mean := make([]float64, NumMetrics)
	std := make([]float64, NumMetrics)
	for m := 0; m < NumMetrics; m++ {
		s := 0.0
		for i := 0; i < n; i++ {
			s += raw[i][m]
		}
		mean[m] = s / float64(n)
		if n > 1 {
			ss := 0.0
			for i := 0; i < n; i++ {
				d := raw[i][m] - mean[m]
				ss += d * d
			}
			std[m] = math.Sqrt(ss / float64(n-1))
		}
		if std[m] < stdFloor {
			std[m] = stdFloor
		}
	}

	z := make([][]float64, n)
	for i := 0; i < n; i++ {
		z[i] = make([]float64, NumMetrics)
		for m := 0; m < NumMetrics; m++ {
			z[i][m] = (raw[i][m] - mean[m]) / std[m]
		}
	}

	windows := make([]Window, n)
	scores := make([]float64, n)
	for i := 0; i < n; i++ {
		w := Window{
			Start:   spans[i].start,
			End:     spans[i].end,
			ZScores: make(map[string]float64, NumMetrics),
		}
		sumAbs := 0.0
		boost := 0.0
		drivers := make([]Driver, NumMetrics)
		for m := 0; m < NumMetrics; m++ {
			az := math.Abs(z[i][m])
			sumAbs += az
			if az > boostZ {
				boost += scoreBoost
			}
			w.ZScores[MetricNames[m]] = z[i][m]
			drivers[m] = Driver{Metric: MetricNames[m], Z: z[i][m]}
		}
		score := (sumAbs/NumMetrics)/3*100 + boost
		if score < 0 {
			score = 0
		}
		if score > 100 {
			score = 100
		}
		w.Score = score
		w.Type = classify(z[i])

		sort.SliceStable(drivers, func(a, b int) bool {
			return math.Abs(drivers[a].Z) > math.Abs(drivers[b].Z)
		})
		w.TopDrivers = drivers[:3]

		windows[i] = w
		scores[i] = score
	}

	threshold := math.Max(minThreshold, percentile(scores, 0.85))
	anomalies := 0
	for i := range windows {
		if windows[i].Score >= threshold {
			windows[i].Anomalous = true
			anomalies++
		}
	}

	// Heatmap: metric-major raw values.
	hm := Heatmap{Metrics: MetricNames[:], Windows: n, Values: make([]float64, NumMetrics*n)}
	for m := 0; m < NumMetrics; m++ {
		for i := 0; i < n; i++ {
			hm.Values[m*n+i] = raw[i][m]
		}
	}

	scatter := project(z)

	// Top-5 windows by score.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return scores[order[a]] > scores[order[b]] })
	top := order
	if len(top) > topWindowKeep {
		top = top[:topWindowKeep]
	}

	return Result{
		Windows: windows,
		Heatmap: hm,
		Scatter: scatter,
		Summary: Summary{
			Threshold:    threshold,
			AnomalyCount: anomalies,
			TopWindows:   append([]int(nil), top...),
		},
	}, nil
}

// classify applies the first-match rule over the window's z-scores.
func classify(z []float64) string {
	abs := func(m int) float64 { return math.Abs(z[m]) }
	switch {
	case abs(MetricCompression) > extremeZ || abs(MetricEntropy) > extremeZ:
		return "low-complexity"
	case abs(MetricKL) > extremeZ || abs(MetricDinucDev) > extremeZ:
		return "composition"
	case abs(MetricCodonDev) > extremeZ || abs(MetricGCSkew) > extremeZ:
		return "coding"
	}
	return "mixed"
}

// percentile returns the p-quantile (0..1) with linear interpolation.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	if len(s) == 1 {
		return s[0]
	}
	rank := p * float64(len(s)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return s[lo]
	}
	frac := rank - float64(lo)
	return s[lo]*(1-frac) + s[hi]*frac
}
