package annealing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 0.1, p.Temperature)
	assert.Equal(t, 0.4, p.Coefficient)
	assert.Equal(t, 0.0005, p.Threshold)
	assert.Equal(t, 5, p.Iterations)
	assert.Equal(t, 10, p.MinSteps)
	assert.Equal(t, int64(1), p.Seed)
	assert.False(t, p.Conservative)
	assert.False(t, p.Debug)
	assert.Empty(t, p.StartSet)
	require.NoError(t, p.Validate())
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Params)
		field string
	}{
		{"zero temperature", func(p *Params) { p.Temperature = 0 }, "temperature"},
		{"nan temperature", func(p *Params) { p.Temperature = math.NaN() }, "temperature"},
		{"negative coefficient", func(p *Params) { p.Coefficient = -0.1 }, "coefficient"},
		{"negative threshold", func(p *Params) { p.Threshold = -1 }, "threshold"},
		{"no iterations", func(p *Params) { p.Iterations = 0 }, "iterations"},
		{"negative min steps", func(p *Params) { p.MinSteps = -1 }, "min-steps"},
		{"negative workers", func(p *Params) { p.Workers = -2 }, "workers"},
		{"bad start set", func(p *Params) { p.StartSet = "1,x" }, "start-set"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mod(&p)
			err := p.Validate()
			require.ErrorIs(t, err, ErrInvalidOption)

			var pe *ParamError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestParamsValidateStartSetCause(t *testing.T) {
	p := DefaultParams()
	p.StartSet = "4-2"
	err := p.Validate()
	require.ErrorIs(t, err, ErrInvalidOption)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestParseOptions(t *testing.T) {
	p, err := ParseOptions([]string{"-C", "-D", "-P", "1,3", "-T", "0.25", "-A", "0.5", "-S", "0.001", "-I", "7", "-R", "42", "--min-steps", "20"})
	require.NoError(t, err)

	assert.True(t, p.Conservative)
	assert.True(t, p.Debug)
	assert.Equal(t, "1,3", p.StartSet)
	assert.Equal(t, 0.25, p.Temperature)
	assert.Equal(t, 0.5, p.Coefficient)
	assert.Equal(t, 0.001, p.Threshold)
	assert.Equal(t, 7, p.Iterations)
	assert.Equal(t, int64(42), p.Seed)
	assert.Equal(t, 20, p.MinSteps)
}

func TestParseOptionsMalformed(t *testing.T) {
	for _, args := range [][]string{
		{"-T", "hot"},
		{"-A", "0.x"},
		{"-S", ""},
		{"-I", "1.5"},
		{"-R", "seed"},
		{"-I", "0"},
		{"stray"},
	} {
		_, err := ParseOptions(args)
		require.ErrorIs(t, err, ErrInvalidOption, "args %v", args)
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, []string{"-R", "1", "-T", "0.1", "-I", "5", "-A", "0.4", "-S", "0.0005"}, p.Options())

	p.Conservative = true
	p.StartSet = "2-4"
	p.Seed = 9
	p.MinSteps = 3
	p.Workers = 4

	back, err := ParseOptions(p.Options())
	require.NoError(t, err)
	assert.Equal(t, p, back)
}
