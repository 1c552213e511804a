package annealing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		spec string
		n    int
		want []int
	}{
		{"", 5, nil},
		{"1", 5, []int{0}},
		{"1,3,5-7", 10, []int{0, 2, 4, 5, 6}},
		{"first-3,last", 6, []int{0, 1, 2, 5}},
		{" 2 , 2-3 ", 4, []int{1, 2}},
		{"last-last", 3, []int{2}},
		{"first-last", 3, []int{0, 1, 2}},
		{"LAST", 2, []int{1}},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := ParseRange(tt.spec, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRangeErrors(t *testing.T) {
	for _, spec := range []string{"0", "a", "1,,2", "3-1", "-2", "1-", "11"} {
		t.Run(spec, func(t *testing.T) {
			_, err := ParseRange(spec, 10)
			require.ErrorIs(t, err, ErrInvalidRange)
		})
	}

	_, err := ParseRange("last", 0)
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestValidateRange(t *testing.T) {
	require.NoError(t, ValidateRange(""))
	require.NoError(t, ValidateRange("1,3,5-7,last"))
	require.NoError(t, ValidateRange("100-last"))
	require.ErrorIs(t, ValidateRange("5-2"), ErrInvalidRange)
	require.ErrorIs(t, ValidateRange("x"), ErrInvalidRange)
}
