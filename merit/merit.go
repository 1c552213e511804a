// Package merit provides subset evaluators over a dataset.
package merit

import (
	"errors"
	"fmt"
	"math"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
	"github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection/dataset"
)

var (
	// ErrNoClass is returned when a supervised evaluator gets a dataset
	// without a label column.
	ErrNoClass = errors.New("dataset has no class attribute")

	// ErrUnknownEvaluator is returned by New for unregistered names.
	ErrUnknownEvaluator = errors.New("unknown evaluator")
)

// Evaluator is a subset evaluator that knows its own capabilities.
type Evaluator interface {
	annealing.SubsetEvaluator
	Capabilities() annealing.Capabilities
}

// New returns the evaluator registered under name ("cfs" or "redundancy").
func New(name string, ds *dataset.Dataset) (Evaluator, error) {
	switch name {
	case "", "cfs":
		return NewCFS(ds)
	case "redundancy":
		return NewRedundancy(ds), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluator, name)
}

// ── CFS ─────────────────────────────────────────────────────────────

// CFS scores a subset by correlation-based feature selection: features
// should correlate with the class and not with each other.
//
//	merit = k * mean(r_cf) / sqrt(k + k(k-1) * mean(r_ff))
type CFS struct {
	ds    *dataset.Dataset
	class int
	corr  *Matrix
}

// NewCFS builds a CFS evaluator; ds must have a class attribute.
func NewCFS(ds *dataset.Dataset) (*CFS, error) {
	if !ds.HasClass() {
		return nil, ErrNoClass
	}
	return &CFS{ds: ds, class: ds.ClassIndex, corr: NewMatrix(ds)}, nil
}

// Capabilities reports a label-aware subset evaluator.
func (c *CFS) Capabilities() annealing.Capabilities {
	return annealing.Capabilities{SubsetCapable: true, LabelAware: true}
}

// Matrix exposes the correlation cache, e.g. to warm it.
func (c *CFS) Matrix() *Matrix { return c.corr }

// EvaluateSubset implements annealing.SubsetEvaluator. The class attribute
// is ignored if present. The empty subset scores 0.
func (c *CFS) EvaluateSubset(s *annealing.FeatureSet) (float64, error) {
	feats, err := members(s, c.ds, c.class)
	if err != nil {
		return 0, err
	}
	k := float64(len(feats))
	if k == 0 {
		return 0, nil
	}

	var rcf float64
	for _, f := range feats {
		rcf += c.corr.At(f, c.class)
	}
	return k * (rcf / k) / math.Sqrt(k+k*(k-1)*meanInter(c.corr, feats)), nil
}

// ── Redundancy ──────────────────────────────────────────────────────

// Redundancy is an unsupervised merit that rewards subset size and
// penalizes correlation among members:
//
//	merit = k / sqrt(k + k(k-1) * mean(r_ff))
//
// It ignores any class attribute, so every column is a candidate.
type Redundancy struct {
	ds   *dataset.Dataset
	corr *Matrix
}

// NewRedundancy builds a Redundancy evaluator.
func NewRedundancy(ds *dataset.Dataset) *Redundancy {
	return &Redundancy{ds: ds, corr: NewMatrix(ds)}
}

// Capabilities reports a subset evaluator without a label.
func (r *Redundancy) Capabilities() annealing.Capabilities {
	return annealing.Capabilities{SubsetCapable: true}
}

// Matrix exposes the correlation cache.
func (r *Redundancy) Matrix() *Matrix { return r.corr }

// EvaluateSubset implements annealing.SubsetEvaluator.
func (r *Redundancy) EvaluateSubset(s *annealing.FeatureSet) (float64, error) {
	feats, err := members(s, r.ds, annealing.NoLabel)
	if err != nil {
		return 0, err
	}
	k := float64(len(feats))
	if k == 0 {
		return 0, nil
	}
	return k / math.Sqrt(k+k*(k-1)*meanInter(r.corr, feats)), nil
}

// ── helpers ─────────────────────────────────────────────────────────

func members(s *annealing.FeatureSet, ds *dataset.Dataset, skip int) ([]int, error) {
	if s.Len() != ds.NumAttributes() {
		return nil, fmt.Errorf("subset covers %d attributes, dataset has %d", s.Len(), ds.NumAttributes())
	}
	idx := s.Indices()
	out := idx[:0]
	for _, i := range idx {
		if i != skip {
			out = append(out, i)
		}
	}
	return out, nil
}

// meanInter is the mean pairwise correlation among feats, 0 for fewer than
// two members.
func meanInter(m *Matrix, feats []int) float64 {
	if len(feats) < 2 {
		return 0
	}
	var sum float64
	pairs := 0
	for a := 0; a < len(feats); a++ {
		for b := a + 1; b < len(feats); b++ {
			sum += m.At(feats[a], feats[b])
			pairs++
		}
	}
	return sum / float64(pairs)
}
