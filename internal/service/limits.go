package service

import (
	"fmt"
	"runtime"
	"time"

	annealing "github.com/itay955/Weka.Simulated-Annealing-Based-Attribute-Selection"
)

// Limits bounds what one request may ask of a shared server. Zero fields
// impose no bound.
type Limits struct {
	// Timeout ends a search that runs longer, e.g. with a threshold it
	// never reaches.
	Timeout time.Duration
	// MaxWorkers lowers larger Workers values.
	MaxWorkers int
	// MaxIterations rejects requests asking for more restarts.
	MaxIterations int
}

// DefaultLimits returns the limits used by attrsel serve and the Lambda
// handler unless configured otherwise.
func DefaultLimits() Limits {
	return Limits{
		Timeout:       time.Minute,
		MaxWorkers:    runtime.GOMAXPROCS(0),
		MaxIterations: 1000,
	}
}

// Apply resolves the annealing configuration of req and bounds it. The
// returned request carries the result in Params.
func (l Limits) Apply(req Request) (Request, error) {
	p, err := req.ResolveParams()
	if err != nil {
		return Request{}, err
	}
	if l.MaxIterations > 0 && p.Iterations > l.MaxIterations {
		return Request{}, &annealing.ParamError{
			Field:  "iterations",
			Value:  p.Iterations,
			Reason: fmt.Sprintf("exceeds the limit of %d", l.MaxIterations),
		}
	}
	if l.MaxWorkers > 0 && p.Workers > l.MaxWorkers {
		p.Workers = l.MaxWorkers
	}
	req.Params, req.Options = &p, nil
	return req, nil
}
