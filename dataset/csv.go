package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// LoadCSV reads a table whose first record names the attributes. Columns
// holding any non-numeric, non-missing text are nominal, with values in
// order of appearance.
func LoadCSV(r io.Reader, relation string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("dataset: empty CSV")
	}

	header := records[0]
	attrs := make([]Attribute, len(header))
	seen := make(map[string]bool, len(header))
	for j, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("dataset: column %d has no name", j+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("dataset: duplicate attribute %q", name)
		}
		seen[name] = true
		attrs[j] = Attribute{Name: name, Kind: Numeric}
	}
	rows := records[1:]
	for _, rec := range rows {
		for j, cell := range rec {
			if j >= len(attrs) || attrs[j].Kind == Nominal || isMissing(cell) {
				continue
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
				attrs[j].Kind = Nominal
			}
		}
	}

	b := newBuilder(relation, attrs)
	for i, rec := range rows {
		vals := make([]float64, len(attrs))
		for j, cell := range rec {
			cell = strings.TrimSpace(cell)
			switch {
			case isMissing(cell):
				vals[j] = math.NaN()
			case attrs[j].Kind == Nominal:
				v, err := b.nominalIndex(j, cell, false)
				if err != nil {
					return nil, fmt.Errorf("dataset: row %d: %w", i+1, err)
				}
				vals[j] = v
			default:
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("dataset: row %d: %w", i+1, err)
				}
				vals[j] = v
			}
		}
		b.ds.Rows = append(b.ds.Rows, vals)
	}
	if err := b.ds.Validate(); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return b.ds, nil
}

// LoadCSVFile reads a CSV dataset; the relation is the file's base name.
func LoadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()
	return LoadCSV(f, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
}

// LoadFile picks the loader from the file extension (.json or .csv).
func LoadFile(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSONFile(path)
	case ".csv":
		return LoadCSVFile(path)
	}
	return nil, fmt.Errorf("dataset: unsupported file type %q", filepath.Ext(path))
}
