package merit

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/dataset"
)

// Matrix lazily computes and caches symmetric attribute correlations in
// [0,1]. It is safe for concurrent use.
//
// numeric/numeric pairs use |Pearson r|, nominal/numeric pairs the
// correlation ratio eta, nominal/nominal pairs Cramér's V. Rows with a
// missing cell in either column are skipped. Degenerate columns correlate 0.
type Matrix struct {
	ds *dataset.Dataset
	n  int

	mu   sync.RWMutex
	vals []float64 // n*n, NaN until computed
}

// NewMatrix returns an empty cache over ds.
func NewMatrix(ds *dataset.Dataset) *Matrix {
	n := ds.NumAttributes()
	vals := make([]float64, n*n)
	for i := range vals {
		vals[i] = math.NaN()
	}
	for i := 0; i < n; i++ {
		vals[i*n+i] = 1
	}
	return &Matrix{ds: ds, n: n, vals: vals}
}

// At returns the correlation between attributes i and j.
func (m *Matrix) At(i, j int) float64 {
	m.mu.RLock()
	v := m.vals[i*m.n+j]
	m.mu.RUnlock()
	if !math.IsNaN(v) {
		return v
	}

	v = correlate(m.ds, i, j)
	m.mu.Lock()
	m.vals[i*m.n+j] = v
	m.vals[j*m.n+i] = v
	m.mu.Unlock()
	return v
}

// Warm computes every pair up front with at most workers goroutines.
func (m *Matrix) Warm(ctx context.Context, workers int) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < m.n; i++ {
		g.Go(func() error {
			for j := i + 1; j < m.n; j++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				m.At(i, j)
			}
			return nil
		})
	}
	return g.Wait()
}

func correlate(ds *dataset.Dataset, i, j int) float64 {
	x, y := completePairs(ds.Column(i), ds.Column(j))
	if len(x) < 2 {
		return 0
	}
	ai, aj := ds.Attributes[i], ds.Attributes[j]

	var v float64
	switch {
	case ai.Kind == dataset.Numeric && aj.Kind == dataset.Numeric:
		v = math.Abs(stat.Correlation(x, y, nil))
	case ai.Kind == dataset.Nominal && aj.Kind == dataset.Nominal:
		v = cramersV(x, y, len(ai.Values), len(aj.Values))
	case ai.Kind == dataset.Nominal:
		v = correlationRatio(x, y, len(ai.Values))
	default:
		v = correlationRatio(y, x, len(aj.Values))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Min(v, 1)
}

// completePairs drops rows where either value is missing.
func completePairs(x, y []float64) ([]float64, []float64) {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for r := range x {
		if math.IsNaN(x[r]) || math.IsNaN(y[r]) {
			continue
		}
		xs = append(xs, x[r])
		ys = append(ys, y[r])
	}
	return xs, ys
}

// correlationRatio is eta = sqrt(SS_between / SS_total) of numeric y
// grouped by nominal g.
func correlationRatio(g, y []float64, levels int) float64 {
	mean := stat.Mean(y, nil)
	var total float64
	for _, v := range y {
		total += (v - mean) * (v - mean)
	}
	if total == 0 {
		return 0
	}

	sums := make([]float64, levels)
	counts := make([]float64, levels)
	for r, v := range y {
		sums[int(g[r])] += v
		counts[int(g[r])]++
	}
	var between float64
	for k := range sums {
		if counts[k] == 0 {
			continue
		}
		d := sums[k]/counts[k] - mean
		between += counts[k] * d * d
	}
	return math.Sqrt(between / total)
}

// cramersV measures association between two nominal columns.
func cramersV(x, y []float64, rows, cols int) float64 {
	table := make([]float64, rows*cols)
	rowTot := make([]float64, rows)
	colTot := make([]float64, cols)
	for r := range x {
		a, b := int(x[r]), int(y[r])
		table[a*cols+b]++
		rowTot[a]++
		colTot[b]++
	}

	// Only levels that occur take part; empty levels would give zero
	// expected counts.
	var obs, exp []float64
	usedRows, usedCols := 0, 0
	for _, t := range rowTot {
		if t > 0 {
			usedRows++
		}
	}
	for _, t := range colTot {
		if t > 0 {
			usedCols++
		}
	}
	if usedRows < 2 || usedCols < 2 {
		return 0
	}
	n := float64(len(x))
	for a := 0; a < rows; a++ {
		if rowTot[a] == 0 {
			continue
		}
		for b := 0; b < cols; b++ {
			if colTot[b] == 0 {
				continue
			}
			obs = append(obs, table[a*cols+b])
			exp = append(exp, rowTot[a]*colTot[b]/n)
		}
	}
	chi2 := stat.ChiSquare(obs, exp)
	k := math.Min(float64(usedRows), float64(usedCols)) - 1
	return math.Sqrt(chi2 / (n * k))
}
