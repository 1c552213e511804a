package dataset

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// kindUnknown marks attributes whose kind is inferred from the data.
const kindUnknown Kind = -1

// LoadJSON parses a dataset document of the form
//
//	{
//	  "relation": "weather",
//	  "class": "play",
//	  "attributes": [
//	    {"name": "outlook", "type": "nominal", "values": ["sunny", "overcast", "rainy"]},
//	    "temperature",
//	    {"name": "play", "type": "nominal"}
//	  ],
//	  "data": [["sunny", 85, "no"], {"outlook": "rainy", "temperature": 70, "play": "yes"}]
//	}
//
// Attributes given as plain names, or without a type, are numeric unless a
// cell holds non-numeric text. Nominal values not listed are declared in
// order of appearance. null, "" and "?" are missing. "class" takes an
// attribute name, a 1-based position, "first" or "last".
func LoadJSON(doc string) (*Dataset, error) {
	if !gjson.Valid(doc) {
		return nil, errors.New("dataset: invalid JSON")
	}
	root := gjson.Parse(doc)

	attrs, declared, err := parseAttributes(root.Get("attributes"))
	if err != nil {
		return nil, err
	}
	data := root.Get("data")
	inferKinds(attrs, data)

	b := newBuilder(root.Get("relation").String(), attrs)
	var rowErr error
	data.ForEach(func(_, row gjson.Result) bool {
		vals, err := b.jsonRow(row, declared)
		if err != nil {
			rowErr = fmt.Errorf("dataset: row %d: %w", len(b.ds.Rows)+1, err)
			return false
		}
		b.ds.Rows = append(b.ds.Rows, vals)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}

	if class := root.Get("class"); class.Exists() && class.Type != gjson.Null {
		if err := b.ds.SetClass(class.String()); err != nil {
			return nil, fmt.Errorf("dataset: class: %w", err)
		}
	}
	if err := b.ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return b.ds, nil
}

// LoadJSONFile reads and parses a JSON dataset file.
func LoadJSONFile(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return LoadJSON(string(raw))
}

func parseAttributes(v gjson.Result) ([]Attribute, []bool, error) {
	if !v.IsArray() {
		return nil, nil, errors.New("dataset: \"attributes\" must be an array")
	}
	var attrs []Attribute
	var declared []bool
	var err error
	seen := make(map[string]bool)
	v.ForEach(func(_, a gjson.Result) bool {
		attr := Attribute{Kind: kindUnknown}
		switch {
		case a.Type == gjson.String:
			attr.Name = a.String()
		case a.IsObject():
			attr.Name = a.Get("name").String()
			switch t := strings.ToLower(a.Get("type").String()); t {
			case "numeric", "real", "integer":
				attr.Kind = Numeric
			case "nominal":
				attr.Kind = Nominal
			case "":
			default:
				err = fmt.Errorf("dataset: attribute %q: unknown type %q", attr.Name, t)
				return false
			}
			attr.Values = readStringSlice(a.Get("values"))
		default:
			err = fmt.Errorf("dataset: attribute %d: want a name or an object", len(attrs)+1)
			return false
		}
		if attr.Name == "" {
			err = fmt.Errorf("dataset: attribute %d has no name", len(attrs)+1)
			return false
		}
		if seen[attr.Name] {
			err = fmt.Errorf("dataset: duplicate attribute %q", attr.Name)
			return false
		}
		seen[attr.Name] = true
		if len(attr.Values) > 0 {
			attr.Kind = Nominal
		}
		attrs = append(attrs, attr)
		declared = append(declared, len(attr.Values) > 0)
		return true
	})
	if err != nil {
		return nil, nil, err
	}
	return attrs, declared, nil
}

// inferKinds resolves attributes of unknown kind: any non-numeric text makes
// a column nominal.
func inferKinds(attrs []Attribute, data gjson.Result) {
	nominal := make([]bool, len(attrs))
	data.ForEach(func(_, row gjson.Result) bool {
		for j, cell := range rowCells(row, attrs) {
			if j >= len(attrs) || attrs[j].Kind != kindUnknown {
				continue
			}
			switch cell.Type {
			case gjson.String:
				if s := cell.String(); !isMissing(s) {
					if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
						nominal[j] = true
					}
				}
			case gjson.True, gjson.False:
				nominal[j] = true
			}
		}
		return true
	})
	for j := range attrs {
		if attrs[j].Kind != kindUnknown {
			continue
		}
		if nominal[j] {
			attrs[j].Kind = Nominal
		} else {
			attrs[j].Kind = Numeric
		}
	}
}

// rowCells returns a row's cells in attribute order. Object rows are looked
// up by attribute name; absent keys come back as missing.
func rowCells(row gjson.Result, attrs []Attribute) []gjson.Result {
	if row.IsObject() {
		m := row.Map()
		out := make([]gjson.Result, len(attrs))
		for j := range attrs {
			out[j] = m[attrs[j].Name]
		}
		return out
	}
	return row.Array()
}

func (b *builder) jsonRow(row gjson.Result, declared []bool) ([]float64, error) {
	attrs := b.ds.Attributes
	if !row.IsArray() && !row.IsObject() {
		return nil, errors.New("want an array or an object")
	}
	cells := rowCells(row, attrs)
	if len(cells) != len(attrs) {
		return nil, fmt.Errorf("%d values, want %d", len(cells), len(attrs))
	}

	vals := make([]float64, len(attrs))
	for j, cell := range cells {
		v, err := b.jsonCell(j, cell, declared[j])
		if err != nil {
			return nil, err
		}
		vals[j] = v
	}
	return vals, nil
}

func (b *builder) jsonCell(j int, cell gjson.Result, declared bool) (float64, error) {
	a := &b.ds.Attributes[j]
	switch cell.Type {
	case gjson.Null:
		return math.NaN(), nil
	case gjson.String:
		s := strings.TrimSpace(cell.String())
		if isMissing(s) {
			return math.NaN(), nil
		}
		if a.Kind == Nominal {
			return b.nominalIndex(j, s, declared)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not numeric", a.Name, s)
		}
		return v, nil
	case gjson.Number:
		if a.Kind == Nominal {
			return b.nominalIndex(j, cell.Raw, declared)
		}
		return cell.Float(), nil
	case gjson.True, gjson.False:
		if a.Kind == Nominal {
			return b.nominalIndex(j, cell.Raw, declared)
		}
		if cell.Bool() {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%s: unsupported value %s", a.Name, cell.Raw)
}

func readStringSlice(v gjson.Result) []string {
	if !v.Exists() || !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]string, len(arr))
	for i, item := range arr {
		out[i] = item.String()
	}
	return out
}
