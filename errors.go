package annealing

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompatibleEvaluator is returned when the evaluator cannot score
	// arbitrary attribute subsets.
	ErrIncompatibleEvaluator = errors.New("evaluator is not a subset evaluator")

	// ErrNoDescriptor is returned when Search is called without a dataset
	// descriptor and no earlier call supplied one.
	ErrNoDescriptor = errors.New("no dataset descriptor configured")

	// ErrTooFewAttributes is returned when the dataset leaves no attribute
	// that a move could flip.
	ErrTooFewAttributes = errors.New("too few attributes")

	// ErrLabelOutOfRange is returned when the label index does not address
	// an attribute of the dataset.
	ErrLabelOutOfRange = errors.New("label index out of range")

	// ErrInvalidOption is returned for malformed or out-of-domain options.
	ErrInvalidOption = errors.New("invalid option")

	// ErrInvalidRange is returned for malformed start-set ranges.
	ErrInvalidRange = errors.New("invalid range")
)

// ParamError reports a configuration value that cannot be used.
//
// It matches ErrInvalidOption with errors.Is.
type ParamError struct {
	Field  string
	Value  any
	Reason string
	cause  error
}

func (e *ParamError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("invalid %s %v: %s: %v", e.Field, e.Value, e.Reason, e.cause)
	}
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() []error {
	if e.cause != nil {
		return []error{ErrInvalidOption, e.cause}
	}
	return []error{ErrInvalidOption}
}
