package annealing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// FeatureSet is a fixed-size inclusion vector over attribute indices.
// Bit i set means attribute i is part of the subset.
type FeatureSet struct {
	bits *bitset.BitSet
	n    int
}

// NewFeatureSet returns an empty subset over n attributes.
func NewFeatureSet(n int) *FeatureSet {
	if n < 0 {
		n = 0
	}
	return &FeatureSet{bits: bitset.New(uint(n)), n: n}
}

// FeatureSetOf returns a subset over n attributes with the given indices set.
func FeatureSetOf(n int, indices ...int) (*FeatureSet, error) {
	fs := NewFeatureSet(n)
	for _, i := range indices {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("attribute index %d out of range [0,%d)", i, n)
		}
		fs.Set(i)
	}
	return fs, nil
}

// Len returns the number of attributes the subset ranges over.
func (f *FeatureSet) Len() int { return f.n }

// Count returns the number of included attributes.
func (f *FeatureSet) Count() int { return int(f.bits.Count()) }

// Has reports whether attribute i is included.
func (f *FeatureSet) Has(i int) bool {
	if i < 0 || i >= f.n {
		return false
	}
	return f.bits.Test(uint(i))
}

func (f *FeatureSet) Set(i int)   { f.bits.Set(uint(i)) }
func (f *FeatureSet) Clear(i int) { f.bits.Clear(uint(i)) }
func (f *FeatureSet) Flip(i int)  { f.bits.Flip(uint(i)) }

// Clone returns an independent copy.
func (f *FeatureSet) Clone() *FeatureSet {
	return &FeatureSet{bits: f.bits.Clone(), n: f.n}
}

// Equal reports whether both subsets have the same length and membership.
func (f *FeatureSet) Equal(o *FeatureSet) bool {
	if o == nil {
		return false
	}
	return f.n == o.n && f.bits.Equal(o.bits)
}

// Indices returns the included attribute indices in ascending order.
// The empty subset yields an empty, non-nil slice.
func (f *FeatureSet) Indices() []int {
	out := make([]int, 0, f.bits.Count())
	for i, ok := f.bits.NextSet(0); ok && int(i) < f.n; i, ok = f.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// String lists the members 1-based, the way attributes are numbered for users.
func (f *FeatureSet) String() string {
	return oneBased(f.Indices())
}

func oneBased(indices []int) string {
	parts := make([]string, len(indices))
	for i, idx := range indices {
		parts[i] = strconv.Itoa(idx + 1)
	}
	return strings.Join(parts, ",")
}
