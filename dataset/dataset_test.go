package dataset

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
)

func TestLoadJSONFile(t *testing.T) {
	ds, err := LoadJSONFile(filepath.Join("testdata", "weather.json"))
	require.NoError(t, err)

	assert.Equal(t, "weather", ds.Relation)
	assert.Equal(t, []string{"outlook", "temperature", "humidity", "windy", "play"}, ds.Names())
	assert.Equal(t, 14, ds.NumRows())
	assert.Equal(t, 4, ds.ClassIndex)
	assert.Equal(t, annealing.Descriptor{NumAttributes: 5, LabelIndex: 4}, ds.Descriptor())

	assert.Equal(t, Nominal, ds.Attributes[0].Kind)
	assert.Equal(t, Numeric, ds.Attributes[1].Kind)
	assert.Equal(t, Nominal, ds.Attributes[3].Kind)
	assert.Equal(t, []string{"false", "true"}, ds.Attributes[3].Values)

	// rainy, 71, 91, true, no from the object row
	assert.Equal(t, []float64{2, 71, 91, 1, 1}, ds.Rows[13])
}

func TestLoadJSONInference(t *testing.T) {
	ds, err := LoadJSON(`{
		"attributes": ["a", "b", "c"],
		"data": [[1, "x", null], [2.5, "y", "?"], ["3", "x", 4]]
	}`)
	require.NoError(t, err)

	assert.Equal(t, Numeric, ds.Attributes[0].Kind)
	assert.Equal(t, Nominal, ds.Attributes[1].Kind)
	assert.Equal(t, Numeric, ds.Attributes[2].Kind)
	assert.Equal(t, []string{"x", "y"}, ds.Attributes[1].Values)
	assert.Equal(t, 3.0, ds.Rows[2][0])
	assert.True(t, math.IsNaN(ds.Rows[0][2]))
	assert.True(t, math.IsNaN(ds.Rows[1][2]))
	assert.False(t, ds.HasClass())
}

func TestLoadJSONErrors(t *testing.T) {
	tests := map[string]string{
		"invalid":          `{"attributes": [`,
		"no attributes":    `{"data": []}`,
		"duplicate":        `{"attributes": ["a", "a"], "data": []}`,
		"unknown type":     `{"attributes": [{"name": "a", "type": "date"}], "data": []}`,
		"short row":        `{"attributes": ["a", "b"], "data": [[1]]}`,
		"undeclared value": `{"attributes": [{"name": "a", "values": ["x"]}], "data": [["y"]]}`,
		"bad number":       `{"attributes": [{"name": "a", "type": "numeric"}], "data": [["x"]]}`,
		"bad class":        `{"class": "z", "attributes": ["a"], "data": [[1]]}`,
		"empty":            `{"attributes": [], "data": []}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadJSON(doc)
			require.Error(t, err)
		})
	}
}

func TestLoadCSVFile(t *testing.T) {
	ds, err := LoadFile(filepath.Join("testdata", "weather.csv"))
	require.NoError(t, err)

	assert.Equal(t, "weather", ds.Relation)
	assert.Equal(t, 14, ds.NumRows())
	assert.False(t, ds.HasClass())
	assert.Equal(t, Nominal, ds.Attributes[0].Kind)
	assert.Equal(t, Numeric, ds.Attributes[2].Kind)
	assert.Equal(t, []string{"sunny", "overcast", "rainy"}, ds.Attributes[0].Values)
	assert.True(t, math.IsNaN(ds.Rows[12][2]))

	require.NoError(t, ds.SetClass("last"))
	assert.Equal(t, 4, ds.ClassIndex)
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(strings.NewReader(""), "x")
	require.Error(t, err)
	_, err = LoadCSV(strings.NewReader("a,b\n1\n"), "x")
	require.Error(t, err)
	_, err = LoadCSV(strings.NewReader("a,a\n1,2\n"), "x")
	require.Error(t, err)
}

func TestLoadFileUnsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.arff")
	require.NoError(t, os.WriteFile(path, []byte("@relation x"), 0o600))
	_, err := LoadFile(path)
	require.Error(t, err)
}

func TestSetClass(t *testing.T) {
	ds, err := LoadJSON(`{"attributes": ["a", "b", "c"], "data": [[1, 2, 3]]}`)
	require.NoError(t, err)

	for ref, want := range map[string]int{"b": 1, "first": 0, "LAST": 2, "3": 2, "": annealing.NoLabel} {
		require.NoError(t, ds.SetClass(ref), ref)
		assert.Equal(t, want, ds.ClassIndex, ref)
	}
	require.ErrorIs(t, ds.SetClass("4"), ErrUnknownAttribute)
	require.ErrorIs(t, ds.SetClass("nope"), ErrUnknownAttribute)
}

func TestColumn(t *testing.T) {
	ds, err := LoadJSON(`{"attributes": ["a", "b"], "data": [[1, 2], [3, 4]]}`)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, ds.Column(1))
	assert.Equal(t, 1, ds.AttributeIndex("b"))
	assert.Equal(t, -1, ds.AttributeIndex("z"))
}
