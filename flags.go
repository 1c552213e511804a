package annealing

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
)

// Flag names shared by the CLI, config files and ParseOptions.
const (
	FlagConservative = "conservative"
	FlagDebug        = "debug"
	FlagStartSet     = "start-set"
	FlagIterations   = "iterations"
	FlagTemperature  = "temperature"
	FlagCoefficient  = "coefficient"
	FlagSeed         = "seed"
	FlagThreshold    = "threshold"
	FlagMinSteps     = "min-steps"
	FlagWorkers      = "workers"
)

// RegisterFlags binds p's fields to fs, using p's current values as defaults.
// Single-letter shorthands follow the classic option letters.
func (p *Params) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&p.Conservative, FlagConservative, "C", p.Conservative, "accept moves that keep the merit unchanged")
	fs.BoolVarP(&p.Debug, FlagDebug, "D", p.Debug, "log every accepted move")
	fs.StringVarP(&p.StartSet, FlagStartSet, "P", p.StartSet, "starting attributes for the first iteration, e.g. 1,3,5-7")
	fs.IntVarP(&p.Iterations, FlagIterations, "I", p.Iterations, "number of random restarts")
	fs.Float64VarP(&p.Temperature, FlagTemperature, "T", p.Temperature, "start temperature")
	fs.Float64VarP(&p.Coefficient, FlagCoefficient, "A", p.Coefficient, "cooling coefficient applied every step")
	fs.Int64VarP(&p.Seed, FlagSeed, "R", p.Seed, "random seed")
	fs.Float64VarP(&p.Threshold, FlagThreshold, "S", p.Threshold, "convergence threshold on the average merit change")
	fs.IntVar(&p.MinSteps, FlagMinSteps, p.MinSteps, "steps a walk must exceed before it may converge")
	fs.IntVar(&p.Workers, FlagWorkers, p.Workers, "iterations run concurrently (1 keeps a single random stream)")
}

// ParseOptions builds Params from an option list such as
// "-C -T 0.2 -I 10". Unset options keep their defaults. Malformed values
// fail here rather than at search time.
func ParseOptions(args []string) (Params, error) {
	p := DefaultParams()
	fs := pflag.NewFlagSet("annealing", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	p.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Params{}, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}
	if fs.NArg() > 0 {
		return Params{}, fmt.Errorf("%w: unexpected argument %q", ErrInvalidOption, fs.Arg(0))
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Options renders p as an option list that ParseOptions reads back.
func (p Params) Options() []string {
	var opts []string
	if p.Conservative {
		opts = append(opts, "-C")
	}
	if p.Debug {
		opts = append(opts, "-D")
	}
	if p.StartSet != "" {
		opts = append(opts, "-P", p.StartSet)
	}
	opts = append(opts,
		"-R", strconv.FormatInt(p.Seed, 10),
		"-T", formatFloat(p.Temperature),
		"-I", strconv.Itoa(p.Iterations),
		"-A", formatFloat(p.Coefficient),
		"-S", formatFloat(p.Threshold),
	)
	def := DefaultParams()
	if p.MinSteps != def.MinSteps {
		opts = append(opts, "--"+FlagMinSteps, strconv.Itoa(p.MinSteps))
	}
	if p.Workers != def.Workers {
		opts = append(opts, "--"+FlagWorkers, strconv.Itoa(p.Workers))
	}
	return opts
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
