package scheduler

import (
	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/models"
)

// Outcome records what happened to one class instance.
type Outcome struct {
	Instance  ClassInstance
	Placed    bool
	Reason    models.UnplaceableReason
	Placement Placement
}

// Result is the output of a placement pass.
type Result struct {
	Placements []Placement
	Outcomes   []Outcome
}

// Requested returns the number of class instances considered.
func (r Result) Requested() int { return len(r.Outcomes) }

// Unplaced returns the outcomes that were not placed, in instance order.
func (r Result) Unplaced() []Outcome {
	var out []Outcome
	for _, outcome := range r.Outcomes {
		if !outcome.Placed {
			out = append(out, outcome)
		}
	}
	return out
}

// Engine runs the greedy expander -> finder -> selector loop. Each instance
// sees every placement made before it; nothing is reconsidered.
type Engine struct {
	rng    Rand
	logger *zap.Logger
}

// NewEngine builds an engine around a random source.
func NewEngine(rng Rand, logger *zap.Logger) *Engine {
	if rng == nil {
		rng = NewRand(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{rng: rng, logger: logger}
}

// Place schedules the workload into the registry.
func (e *Engine) Place(workload []models.WorkloadItem, qualified QualificationIndex, registry *Registry) Result {
	instances := ExpandDemand(workload)
	finder := NewFinder(qualified, e.rng)
	selector := NewSelector(e.rng)

	result := Result{Outcomes: make([]Outcome, 0, len(instances))}
	for _, instance := range instances {
		outcome := Outcome{Instance: instance}
		candidates, reason := finder.FindCandidates(instance, registry)
		if reason == "" {
			outcome.Placement, reason = selector.Select(instance, candidates, registry)
		}
		if reason != "" {
			outcome.Reason = reason
			e.logger.Warn("class instance unplaceable",
				zap.String("batch_id", instance.BatchID),
				zap.String("subject_id", instance.SubjectID),
				zap.String("reason", string(reason)),
			)
		} else {
			outcome.Placed = true
			result.Placements = append(result.Placements, outcome.Placement)
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	return result
}
