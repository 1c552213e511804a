// Package dataset holds tabular data for attribute selection and loads it
// from JSON or CSV.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
)

// ErrUnknownAttribute is returned when a class reference names no attribute.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Kind is the value type of an attribute.
type Kind int

const (
	Numeric Kind = iota
	Nominal
)

func (k Kind) String() string {
	if k == Nominal {
		return "nominal"
	}
	return "numeric"
}

// Attribute describes one column. Nominal values are stored in rows as the
// index into Values.
type Attribute struct {
	Name   string
	Kind   Kind
	Values []string
}

// Dataset is a row-major table of float64 cells. Missing cells are NaN.
type Dataset struct {
	Relation   string
	Attributes []Attribute
	// ClassIndex is the label column, or annealing.NoLabel.
	ClassIndex int
	Rows       [][]float64
}

// NumAttributes returns the column count.
func (d *Dataset) NumAttributes() int { return len(d.Attributes) }

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return len(d.Rows) }

// HasClass reports whether a label column is set.
func (d *Dataset) HasClass() bool { return d.ClassIndex != annealing.NoLabel }

// Descriptor returns the structural facts the search needs.
func (d *Dataset) Descriptor() annealing.Descriptor {
	return annealing.Descriptor{NumAttributes: d.NumAttributes(), LabelIndex: d.ClassIndex}
}

// Names returns the attribute names in column order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Attributes))
	for i := range d.Attributes {
		out[i] = d.Attributes[i].Name
	}
	return out
}

// Column copies column j.
func (d *Dataset) Column(j int) []float64 {
	out := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[j]
	}
	return out
}

// AttributeIndex returns the column named name, or -1.
func (d *Dataset) AttributeIndex(name string) int {
	for i := range d.Attributes {
		if d.Attributes[i].Name == name {
			return i
		}
	}
	return -1
}

// SetClass selects the label column by name, 1-based position, "first" or
// "last". An empty ref clears it.
func (d *Dataset) SetClass(ref string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		d.ClassIndex = annealing.NoLabel
		return nil
	}
	n := d.NumAttributes()
	if n == 0 {
		return fmt.Errorf("%w: %q in empty dataset", ErrUnknownAttribute, ref)
	}
	switch strings.ToLower(ref) {
	case "first":
		d.ClassIndex = 0
		return nil
	case "last":
		d.ClassIndex = n - 1
		return nil
	}
	if i := d.AttributeIndex(ref); i >= 0 {
		d.ClassIndex = i
		return nil
	}
	if pos, err := strconv.Atoi(ref); err == nil && pos >= 1 && pos <= n {
		d.ClassIndex = pos - 1
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAttribute, ref)
}

// Validate checks that every row matches the attribute list and that
// nominal cells address a declared value.
func (d *Dataset) Validate() error {
	n := d.NumAttributes()
	if n == 0 {
		return errors.New("dataset has no attributes")
	}
	if d.ClassIndex != annealing.NoLabel && (d.ClassIndex < 0 || d.ClassIndex >= n) {
		return fmt.Errorf("class index %d out of range [0,%d)", d.ClassIndex, n)
	}
	for r, row := range d.Rows {
		if len(row) != n {
			return fmt.Errorf("row %d: %d values, want %d", r+1, len(row), n)
		}
		for j, v := range row {
			a := &d.Attributes[j]
			if a.Kind != Nominal || math.IsNaN(v) {
				continue
			}
			if v < 0 || int(v) >= len(a.Values) || v != math.Trunc(v) {
				return fmt.Errorf("row %d: %s value index %v out of range", r+1, a.Name, v)
			}
		}
	}
	return nil
}

// ── Building ────────────────────────────────────────────────────────

// builder accumulates rows whose cells arrive as text or numbers, growing
// nominal value lists as new labels appear.
type builder struct {
	ds      *Dataset
	nominal []map[string]int
}

func newBuilder(relation string, attrs []Attribute) *builder {
	b := &builder{
		ds:      &Dataset{Relation: relation, Attributes: attrs, ClassIndex: annealing.NoLabel},
		nominal: make([]map[string]int, len(attrs)),
	}
	for j := range attrs {
		if attrs[j].Kind != Nominal {
			continue
		}
		m := make(map[string]int, len(attrs[j].Values))
		for i, v := range attrs[j].Values {
			m[v] = i
		}
		b.nominal[j] = m
	}
	return b
}

// nominalIndex maps a label to its value index, declaring it when the
// attribute's values were not listed up front.
func (b *builder) nominalIndex(j int, label string, declared bool) (float64, error) {
	if i, ok := b.nominal[j][label]; ok {
		return float64(i), nil
	}
	if declared {
		return 0, fmt.Errorf("%s: undeclared value %q", b.ds.Attributes[j].Name, label)
	}
	a := &b.ds.Attributes[j]
	i := len(a.Values)
	a.Values = append(a.Values, label)
	b.nominal[j][label] = i
	return float64(i), nil
}

func isMissing(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || s == "?"
}
