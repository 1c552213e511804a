package annealing

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ValidateRange checks the syntax of a start-set range such as "1,3,5-7" or
// "first-3,last". Bounds against a dataset are checked by ParseRange.
func ValidateRange(spec string) error {
	_, err := parseRange(spec, -1)
	return err
}

// ParseRange resolves a 1-based range list against n attributes and returns
// the selected 0-based indices in ascending order without duplicates.
func ParseRange(spec string, n int) ([]int, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative attribute count %d", ErrInvalidRange, n)
	}
	return parseRange(spec, n)
}

// parseRange does both jobs; n < 0 means the upper bound is unknown and
// only syntax is checked.
func parseRange(spec string, n int) ([]int, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var out []int
	for _, tok := range strings.Split(spec, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return nil, fmt.Errorf("%w: empty element in %q", ErrInvalidRange, spec)
		}

		lo, hi := tok, tok
		if i := strings.Index(tok, "-"); i >= 0 {
			lo, hi = strings.TrimSpace(tok[:i]), strings.TrimSpace(tok[i+1:])
		}
		a, err := rangeBound(lo, n)
		if err != nil {
			return nil, err
		}
		b, err := rangeBound(hi, n)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			// "last" is unknown until n is; only compare plain numbers.
			if a > 0 && b > 0 && a > b {
				return nil, fmt.Errorf("%w: descending range %q", ErrInvalidRange, tok)
			}
			continue
		}
		if a > b {
			return nil, fmt.Errorf("%w: descending range %q", ErrInvalidRange, tok)
		}
		for i := a; i <= b; i++ {
			out = append(out, i-1)
		}
	}

	slices.Sort(out)
	return slices.Compact(out), nil
}

// rangeBound parses one endpoint. With an unknown n, "last" returns 0.
func rangeBound(s string, n int) (int, error) {
	switch strings.ToLower(s) {
	case "first":
		return 1, nil
	case "last":
		if n < 0 {
			return 0, nil
		}
		if n == 0 {
			return 0, fmt.Errorf("%w: \"last\" with no attributes", ErrInvalidRange)
		}
		return n, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an index", ErrInvalidRange, s)
	}
	if v < 1 {
		return 0, fmt.Errorf("%w: index %d must be at least 1", ErrInvalidRange, v)
	}
	if n >= 0 && v > n {
		return 0, fmt.Errorf("%w: index %d exceeds %d attributes", ErrInvalidRange, v, n)
	}
	return v, nil
}
