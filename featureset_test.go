package annealing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeatureSetIndicesRoundTrip(t *testing.T) {
	want := []int{0, 3, 4, 9, 63, 64, 70}
	fs, err := FeatureSetOf(71, want...)
	require.NoError(t, err)
	assert.Equal(t, want, fs.Indices())

	rebuilt := NewFeatureSet(71)
	for _, i := range fs.Indices() {
		rebuilt.Set(i)
	}
	assert.True(t, fs.Equal(rebuilt))
	assert.Equal(t, len(want), rebuilt.Count())
}

func TestFeatureSetEmpty(t *testing.T) {
	fs := NewFeatureSet(5)
	idx := fs.Indices()
	assert.NotNil(t, idx)
	assert.Empty(t, idx)
	assert.Equal(t, "", fs.String())

	zero := NewFeatureSet(0)
	assert.Empty(t, zero.Indices())
	assert.False(t, zero.Has(0))
}

func TestFeatureSetFlipAndClone(t *testing.T) {
	fs := NewFeatureSet(8)
	fs.Flip(2)
	assert.True(t, fs.Has(2))

	c := fs.Clone()
	c.Flip(2)
	c.Flip(5)
	assert.True(t, fs.Has(2), "clone must not alias the original")
	assert.False(t, fs.Has(5))
	assert.Equal(t, []int{5}, c.Indices())

	fs.Clear(2)
	assert.Zero(t, fs.Count())
	assert.False(t, fs.Has(-1))
	assert.False(t, fs.Has(8))
}

func TestFeatureSetOfOutOfRange(t *testing.T) {
	_, err := FeatureSetOf(3, 0, 3)
	require.Error(t, err)
	_, err = FeatureSetOf(3, -1)
	require.Error(t, err)
}

func TestFeatureSetString(t *testing.T) {
	fs, err := FeatureSetOf(10, 0, 4, 9)
	require.NoError(t, err)
	assert.Equal(t, "1,5,10", fs.String())
}
