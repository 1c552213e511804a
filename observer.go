package annealing

// Trigger names the acceptance rule that let a move through.
type Trigger string

const (
	TriggerNone      Trigger = ""
	TriggerGreedy    Trigger = "greedy"
	TriggerAnnealing Trigger = "annealing"
)

// StepEvent describes one move of a walk.
type StepEvent struct {
	Iteration   int
	Step        int
	Attribute   int
	Merit       float64 // candidate merit
	Temperature float64 // temperature used by the acceptance test
	Accepted    bool
	// Trigger is TriggerGreedy whenever the greedy rule fired, even if the
	// annealing rule fired as well.
	Trigger Trigger
}

// IterationEvent is emitted after each iteration has been folded into the
// global best.
type IterationEvent struct {
	Iteration int
	Result    IterationResult
	BestMerit float64
	Improved  bool
}

// Observer receives search progress. Implementations must be safe for
// concurrent use when Params.Workers > 1.
type Observer interface {
	OnStep(StepEvent)
	OnIteration(IterationEvent)
}

type nopObserver struct{}

func (nopObserver) OnStep(StepEvent)           {}
func (nopObserver) OnIteration(IterationEvent) {}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped.
type ObserverFuncs struct {
	Step      func(StepEvent)
	Iteration func(IterationEvent)
}

func (o ObserverFuncs) OnStep(e StepEvent) {
	if o.Step != nil {
		o.Step(e)
	}
}

func (o ObserverFuncs) OnIteration(e IterationEvent) {
	if o.Iteration != nil {
		o.Iteration(e)
	}
}
