// Package annealing selects attribute subsets by simulated annealing.
//
// A Searcher runs several independent random-restart walks. Each walk flips
// one attribute per step, keeps improving moves, sometimes keeps worsening
// ones while the temperature is high, and stops once the average merit change
// settles below a threshold. The best subset over all walks is returned.
package annealing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"golang.org/x/sync/errgroup"
)

// NoLabel marks a dataset without a label attribute.
const NoLabel = -1

// SubsetEvaluator scores a candidate subset; higher is better.
// Implementations must not modify the subset.
type SubsetEvaluator interface {
	EvaluateSubset(subset *FeatureSet) (float64, error)
}

// EvaluatorFunc adapts a function to SubsetEvaluator.
type EvaluatorFunc func(subset *FeatureSet) (float64, error)

func (f EvaluatorFunc) EvaluateSubset(subset *FeatureSet) (float64, error) { return f(subset) }

// Capabilities describes what an evaluator can do. It travels next to the
// evaluator instead of being discovered from its type.
type Capabilities struct {
	// SubsetCapable evaluators can score arbitrary subsets. Search refuses
	// anything else.
	SubsetCapable bool
	// LabelAware evaluators treat Descriptor.LabelIndex as the label, which
	// is then never selected. Otherwise every attribute is a candidate.
	LabelAware bool
}

// Descriptor carries the dataset structure the search needs.
type Descriptor struct {
	NumAttributes int
	LabelIndex    int // NoLabel when the dataset has none
}

// IterationResult reports one restart.
type IterationResult struct {
	Iteration int     `json:"iteration" yaml:"iteration"`
	Initial   []int   `json:"initial" yaml:"initial"`
	Subset    []int   `json:"subset" yaml:"subset"`
	Merit     float64 `json:"merit" yaml:"merit"`
	Steps     int     `json:"steps" yaml:"steps"`
}

// Result is the outcome of a search.
type Result struct {
	Subset     []int             `json:"subset" yaml:"subset"`
	Merit      float64           `json:"merit" yaml:"merit"`
	Iterations []IterationResult `json:"iterations" yaml:"iterations"`
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithLogger sets the logger for progress and debug output.
// A nil logger discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(s *Searcher) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		s.logger = l
	}
}

// WithObserver registers an observer for step and iteration events.
func WithObserver(o Observer) Option {
	return func(s *Searcher) {
		if o == nil {
			o = nopObserver{}
		}
		s.observer = o
	}
}

// ── Searcher ────────────────────────────────────────────────────────

// Searcher runs annealing searches with a fixed configuration. It remembers
// the last descriptor so it can be re-run without describing the dataset
// again. A Searcher is not safe for concurrent calls to Search.
type Searcher struct {
	params   Params
	logger   *slog.Logger
	observer Observer

	desc     *Descriptor
	starting []int // start set resolved by the last search, label removed
	resolved bool
	result   Result
}

// New validates p and returns a Searcher.
func New(p Params, opts ...Option) (*Searcher, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s := &Searcher{
		params:   p,
		logger:   slog.New(slog.DiscardHandler),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search is a one-shot helper around New and (*Searcher).Search.
func Search(ctx context.Context, eval SubsetEvaluator, caps Capabilities, desc Descriptor, p Params, opts ...Option) (Result, error) {
	s, err := New(p, opts...)
	if err != nil {
		return Result{}, err
	}
	if _, err := s.Search(ctx, eval, caps, &desc); err != nil {
		return Result{}, err
	}
	return s.Result(), nil
}

// Params returns the configuration.
func (s *Searcher) Params() Params { return s.params }

// BestMerit returns the merit of the subset found by the last search.
func (s *Searcher) BestMerit() float64 { return s.result.Merit }

// Result returns a copy of the last search's outcome.
func (s *Searcher) Result() Result {
	r := Result{
		Subset:     slices.Clone(s.result.Subset),
		Merit:      s.result.Merit,
		Iterations: make([]IterationResult, len(s.result.Iterations)),
	}
	for i, it := range s.result.Iterations {
		it.Initial = slices.Clone(it.Initial)
		it.Subset = slices.Clone(it.Subset)
		r.Iterations[i] = it
	}
	return r
}

// Search returns the best subset found as ascending attribute indices.
//
// A nil desc reuses the descriptor of the previous call. Per-run state is
// reset on every call, so equal inputs give equal outputs. The context is
// checked once per step; without a deadline a threshold that is never met
// keeps the walk going.
func (s *Searcher) Search(ctx context.Context, eval SubsetEvaluator, caps Capabilities, desc *Descriptor) ([]int, error) {
	s.result = Result{}
	s.starting, s.resolved = nil, false

	if eval == nil || !caps.SubsetCapable {
		return nil, ErrIncompatibleEvaluator
	}
	if desc != nil {
		d := *desc
		s.desc = &d
	}
	if s.desc == nil {
		return nil, ErrNoDescriptor
	}

	r, err := s.prepare(eval, caps)
	if err != nil {
		return nil, err
	}

	s.logger.Info("search started",
		"attributes", r.n, "label", r.label, "iterations", s.params.Iterations,
		"workers", s.params.Workers, "start", s.startSetText())

	var res Result
	if s.params.Workers > 1 {
		res, err = r.runParallel(ctx, s.params.Workers)
	} else {
		res, err = r.runSequential(ctx)
	}
	if err != nil {
		return nil, err
	}
	s.result = res

	s.logger.Info("search done", "subset", oneBased(res.Subset), "merit", res.Merit)
	return slices.Clone(res.Subset), nil
}

func (s *Searcher) prepare(eval SubsetEvaluator, caps Capabilities) (*run, error) {
	n := s.desc.NumAttributes
	label := NoLabel
	if caps.LabelAware {
		label = s.desc.LabelIndex
	}

	if n < 1 {
		return nil, fmt.Errorf("%w: %d attributes", ErrTooFewAttributes, n)
	}
	if label != NoLabel {
		if label < 0 || label >= n {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrLabelOutOfRange, label, n)
		}
		if n < 2 {
			return nil, fmt.Errorf("%w: only the label attribute is present", ErrTooFewAttributes)
		}
	}

	start, err := ParseRange(s.params.StartSet, n)
	if err != nil {
		return nil, fmt.Errorf("start set: %w", err)
	}
	if start != nil {
		start = slices.DeleteFunc(start, func(i int) bool { return i == label })
		s.starting, s.resolved = start, true
	}

	return &run{
		params:   s.params,
		eval:     eval,
		n:        n,
		label:    label,
		start:    start,
		hasStart: start != nil,
		logger:   s.logger,
		observer: s.observer,
	}, nil
}

// ── Run ─────────────────────────────────────────────────────────────

// run is the per-search state shared read-only by all iterations.
type run struct {
	params   Params
	eval     SubsetEvaluator
	n        int
	label    int
	start    []int
	hasStart bool

	logger   *slog.Logger
	observer Observer
}

func (r *run) runSequential(ctx context.Context) (Result, error) {
	rng := rand.New(rand.NewSource(r.params.Seed))
	var best Result
	for it := 0; it < r.params.Iterations; it++ {
		ir, err := r.walk(ctx, rng, it, r.initial(it, rng))
		if err != nil {
			return Result{}, fmt.Errorf("iteration %d: %w", it, err)
		}
		r.fold(&best, ir)
	}
	return best, nil
}

// runParallel gives every iteration its own stream seeded with Seed+iteration
// and folds the results in iteration order. Output is reproducible for a
// fixed seed, but differs from the sequential single-stream run.
func (r *run) runParallel(ctx context.Context, workers int) (Result, error) {
	results := make([]IterationResult, r.params.Iterations)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for it := range r.params.Iterations {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(r.params.Seed + int64(it)))
			ir, err := r.walk(gctx, rng, it, r.initial(it, rng))
			if err != nil {
				return fmt.Errorf("iteration %d: %w", it, err)
			}
			results[it] = ir
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var best Result
	for _, ir := range results {
		r.fold(&best, ir)
	}
	return best, nil
}

// fold merges one iteration into the global best. Only a strictly greater
// merit replaces it, so the earliest of equal results wins.
func (r *run) fold(best *Result, ir IterationResult) {
	improved := len(best.Iterations) == 0 || ir.Merit > best.Merit
	if improved {
		best.Subset = slices.Clone(ir.Subset)
		best.Merit = ir.Merit
	}
	best.Iterations = append(best.Iterations, ir)

	r.logger.Info("iteration done",
		"iteration", ir.Iteration, "steps", ir.Steps, "merit", ir.Merit,
		"best", best.Merit, "improved", improved)
	r.observer.OnIteration(IterationEvent{
		Iteration: ir.Iteration,
		Result:    ir,
		BestMerit: best.Merit,
		Improved:  improved,
	})
}

// initial returns the starting subset of an iteration: the start set for the
// first one when configured, a random sample otherwise.
func (r *run) initial(it int, rng *rand.Rand) *FeatureSet {
	if it == 0 && r.hasStart {
		fs := NewFeatureSet(r.n)
		for _, i := range r.start {
			fs.Set(i)
		}
		return fs
	}
	return sampleSubset(r.n, r.label, rng)
}

// ── Walk ────────────────────────────────────────────────────────────

// walk anneals from current until the average accepted change per step
// drops below the threshold after more than MinSteps steps.
func (r *run) walk(ctx context.Context, rng *rand.Rand, it int, current *FeatureSet) (IterationResult, error) {
	p := r.params
	ir := IterationResult{Iteration: it, Initial: current.Indices()}

	merit, err := r.eval.EvaluateSubset(current)
	if err != nil {
		return ir, fmt.Errorf("evaluate initial subset: %w", err)
	}

	temperature := p.Temperature
	var sumChange float64
	steps := 0
	for {
		if err := ctx.Err(); err != nil {
			return ir, err
		}

		candidate := current.Clone()
		attr := r.pick(rng)
		candidate.Flip(attr)

		candMerit, err := r.eval.EvaluateSubset(candidate)
		if err != nil {
			return ir, fmt.Errorf("evaluate step %d: %w", steps+1, err)
		}

		// Both rules are evaluated every step: the annealing draw consumes
		// the random stream and the temperature decays regardless.
		var greedy bool
		if p.Conservative {
			greedy = candMerit >= merit
		} else {
			greedy = candMerit > merit
		}
		diff := candMerit - merit
		annealed := rng.Float64() <= math.Exp(diff/temperature)
		used := temperature
		temperature *= p.Coefficient

		accepted := greedy || annealed
		if accepted {
			current = candidate
			merit = candMerit
			sumChange += math.Abs(diff)
		}
		steps++

		ev := StepEvent{
			Iteration:   it,
			Step:        steps,
			Attribute:   attr,
			Merit:       candMerit,
			Temperature: used,
			Accepted:    accepted,
		}
		switch {
		case greedy:
			ev.Trigger = TriggerGreedy
		case annealed:
			ev.Trigger = TriggerAnnealing
		}
		r.observer.OnStep(ev)

		if accepted && p.Debug {
			r.logger.Debug("current subset",
				"iteration", it, "step", steps, "subset", current.String(), "merit", merit)
		}

		if sumChange/float64(steps) < p.Threshold && steps > p.MinSteps {
			break
		}
	}

	ir.Subset = current.Indices()
	ir.Merit = merit
	ir.Steps = steps
	return ir, nil
}

// pick draws a uniform attribute index other than the label.
func (r *run) pick(rng *rand.Rand) int {
	for {
		if i := rng.Intn(r.n); i != r.label {
			return i
		}
	}
}

// ── Sampler ─────────────────────────────────────────────────────────

// sampleSubset draws floor(sqrt(u)) distinct non-label attributes, u uniform
// in [0,n). The square root biases starts toward small subsets.
func sampleSubset(n, label int, rng *rand.Rand) *FeatureSet {
	fs := NewFeatureSet(n)
	k := int(math.Sqrt(float64(rng.Intn(n))))
	for k > 0 {
		i := rng.Intn(n)
		if !fs.Has(i) && i != label {
			fs.Set(i)
			k--
		}
	}
	return fs
}
