package annealing

// Params holds the annealing controls. A Searcher never modifies them.
type Params struct {
	// Temperature is the starting temperature of every iteration.
	Temperature float64 `json:"temperature" yaml:"temperature"`
	// Coefficient multiplies the temperature after each step's acceptance test.
	Coefficient float64 `json:"coefficient" yaml:"coefficient"`
	// Threshold is the average absolute merit change below which a walk converges.
	Threshold float64 `json:"threshold" yaml:"threshold"`
	// Iterations is the number of independent restarts.
	Iterations int `json:"iterations" yaml:"iterations"`
	// MinSteps is the step count a walk must exceed before it may converge.
	MinSteps int `json:"minSteps" yaml:"minSteps"`
	// Seed seeds the random stream; equal seeds give equal searches.
	Seed int64 `json:"seed" yaml:"seed"`
	// Conservative also accepts moves that leave the merit unchanged.
	Conservative bool `json:"conservative" yaml:"conservative"`
	// Debug logs every accepted move.
	Debug bool `json:"debug" yaml:"debug"`
	// StartSet seeds the first iteration, e.g. "1,3,5-7" (1-based). Empty means random.
	StartSet string `json:"startSet,omitempty" yaml:"startSet,omitempty"`
	// Workers runs iterations concurrently when greater than one.
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty"`
}

// DefaultParams returns the stock annealing configuration.
func DefaultParams() Params {
	return Params{
		Temperature: 0.1,
		Coefficient: 0.4,
		Threshold:   0.0005,
		Iterations:  5,
		MinSteps:    10,
		Seed:        1,
		Workers:     1,
	}
}

// Validate reports the first unusable value.
//
// A zero threshold is accepted even though a noise-free evaluator may then
// never converge; bounding such runs is left to the caller's context.
func (p Params) Validate() error {
	switch {
	case !(p.Temperature > 0):
		return &ParamError{Field: "temperature", Value: p.Temperature, Reason: "must be positive"}
	case !(p.Coefficient > 0):
		return &ParamError{Field: "coefficient", Value: p.Coefficient, Reason: "must be positive"}
	case !(p.Threshold >= 0):
		return &ParamError{Field: "threshold", Value: p.Threshold, Reason: "must not be negative"}
	case p.Iterations < 1:
		return &ParamError{Field: "iterations", Value: p.Iterations, Reason: "must be at least 1"}
	case p.MinSteps < 0:
		return &ParamError{Field: "min-steps", Value: p.MinSteps, Reason: "must not be negative"}
	case p.Workers < 0:
		return &ParamError{Field: "workers", Value: p.Workers, Reason: "must not be negative"}
	}
	if err := ValidateRange(p.StartSet); err != nil {
		return &ParamError{Field: "start-set", Value: p.StartSet, Reason: "malformed range", cause: err}
	}
	return nil
}
