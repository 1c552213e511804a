package merit

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/dataset"
)

// synthetic has a perfect predictor (a), an exact copy of it (b), a column
// orthogonal to the class (noise) and a numeric class (y).
func synthetic() *dataset.Dataset {
	y := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	noise := []float64{1, -1, -1, 1, 1, -1, -1, 1}
	ds := &dataset.Dataset{
		Relation: "synthetic",
		Attributes: []dataset.Attribute{
			{Name: "a"}, {Name: "b"}, {Name: "noise"}, {Name: "y"},
		},
		ClassIndex: 3,
	}
	for r := range y {
		ds.Rows = append(ds.Rows, []float64{y[r] * 2, y[r]*2 + 1, noise[r], y[r]})
	}
	return ds
}

func subset(t *testing.T, n int, idx ...int) *annealing.FeatureSet {
	t.Helper()
	fs, err := annealing.FeatureSetOf(n, idx...)
	require.NoError(t, err)
	return fs
}

func TestCFS(t *testing.T) {
	cfs, err := NewCFS(synthetic())
	require.NoError(t, err)
	assert.Equal(t, annealing.Capabilities{SubsetCapable: true, LabelAware: true}, cfs.Capabilities())

	score := func(idx ...int) float64 {
		v, err := cfs.EvaluateSubset(subset(t, 4, idx...))
		require.NoError(t, err)
		return v
	}

	assert.Zero(t, score())
	assert.InDelta(t, 1.0, score(0), 1e-9)
	assert.InDelta(t, 1.0, score(0, 1), 1e-9)
	assert.InDelta(t, 1/math.Sqrt2, score(0, 2), 1e-9)
	assert.InDelta(t, 0.0, score(2), 1e-9)
	assert.InDelta(t, score(0), score(0, 3), 1e-12, "class column is ignored")
}

func TestCFSRequiresClass(t *testing.T) {
	ds := synthetic()
	ds.ClassIndex = annealing.NoLabel
	_, err := NewCFS(ds)
	require.ErrorIs(t, err, ErrNoClass)
}

func TestEvaluateSubsetLengthMismatch(t *testing.T) {
	cfs, err := NewCFS(synthetic())
	require.NoError(t, err)
	_, err = cfs.EvaluateSubset(subset(t, 3, 0))
	require.Error(t, err)

	_, err = NewRedundancy(synthetic()).EvaluateSubset(subset(t, 5, 0))
	require.Error(t, err)
}

func TestRedundancy(t *testing.T) {
	r := NewRedundancy(synthetic())
	assert.Equal(t, annealing.Capabilities{SubsetCapable: true}, r.Capabilities())

	redundant, err := r.EvaluateSubset(subset(t, 4, 0, 1))
	require.NoError(t, err)
	diverse, err := r.EvaluateSubset(subset(t, 4, 0, 2))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, redundant, 1e-9)
	assert.InDelta(t, math.Sqrt2, diverse, 1e-9)
}

func TestNominalCorrelations(t *testing.T) {
	ds := &dataset.Dataset{
		Attributes: []dataset.Attribute{
			{Name: "g", Kind: dataset.Nominal, Values: []string{"lo", "hi"}},
			{Name: "h", Kind: dataset.Nominal, Values: []string{"x", "y", "z"}},
			{Name: "v"},
			{Name: "flat"},
		},
		ClassIndex: annealing.NoLabel,
		Rows: [][]float64{
			{0, 1, 1, 3},
			{0, 1, 1, 3},
			{1, 0, 5, 3},
			{1, 0, 5, 3},
			{1, math.NaN(), 5, 3},
		},
	}
	m := NewMatrix(ds)

	assert.InDelta(t, 1.0, m.At(0, 1), 1e-9, "Cramér's V")
	assert.InDelta(t, 1.0, m.At(0, 2), 1e-9, "eta")
	assert.InDelta(t, 1.0, m.At(2, 0), 1e-9, "symmetric")
	assert.Zero(t, m.At(2, 3), "constant column")
	assert.Equal(t, 1.0, m.At(3, 3))
}

func TestMatrixWarm(t *testing.T) {
	ds := synthetic()
	warm := NewMatrix(ds)
	require.NoError(t, warm.Warm(context.Background(), 2))

	lazy := NewMatrix(ds)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			assert.Equal(t, lazy.At(i, j), warm.At(i, j))
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, NewMatrix(ds).Warm(ctx, 1), context.Canceled)
}

func TestNew(t *testing.T) {
	ev, err := New("cfs", synthetic())
	require.NoError(t, err)
	assert.IsType(t, &CFS{}, ev)

	ev, err = New("redundancy", synthetic())
	require.NoError(t, err)
	assert.IsType(t, &Redundancy{}, ev)

	_, err = New("wrapper", synthetic())
	require.ErrorIs(t, err, ErrUnknownEvaluator)
}

func TestSearchWithCFS(t *testing.T) {
	ds := synthetic()
	cfs, err := NewCFS(ds)
	require.NoError(t, err)

	p := annealing.DefaultParams()
	p.Iterations = 4
	res, err := annealing.Search(context.Background(), cfs, cfs.Capabilities(), ds.Descriptor(), p)
	require.NoError(t, err)

	assert.NotContains(t, res.Subset, 3)
	assert.NotContains(t, res.Subset, 2)
	assert.InDelta(t, 1.0, res.Merit, 1e-9)
}
