package ff

import (
	"errors"

	nlp "ffscore/nlp/types"
	"ffscore/util"
)

// Evaluator dispatches an edge to every registered function in registration
// order. It holds no mutable state and may be shared across workers.
type Evaluator struct {
	registry  *Registry
	functions []FeatureFunction
}

func NewEvaluator(r *Registry) (*Evaluator, error) {
	if !r.Loaded() {
		return nil, &InvariantViolation{Reason: "evaluator requires a loaded registry"}
	}
	return &Evaluator{registry: r, functions: r.Functions()}, nil
}

func (e *Evaluator) Registry() *Registry {
	return e.registry
}

// EvaluateInIsolation runs the input-independent hook of every function
func (e *Evaluator) EvaluateInIsolation(source nlp.Phrase, target *nlp.TargetPhrase, scores, estimated *ScoreBreakdown) error {
	for _, f := range e.functions {
		if err := f.EvaluateInIsolation(source, target, scores, estimated); err != nil {
			return wrapEvaluation(f, err)
		}
		e.trace(f, "isolation", scores)
	}
	return nil
}

// EvaluateWithSourceContext runs the input-dependent hook of every function.
// The first failure aborts the edge; nothing is retried.
func (e *Evaluator) EvaluateWithSourceContext(input nlp.Input, path *nlp.InputPath, target *nlp.TargetPhrase, stack nlp.StackVec, scores, estimated *ScoreBreakdown) error {
	for _, f := range e.functions {
		if err := f.EvaluateWithSourceContext(input, path, target, stack, scores, estimated); err != nil {
			return wrapEvaluation(f, err)
		}
		e.trace(f, "source context", scores)
	}
	return nil
}

// Evaluate scores a translation option applied to path with both hooks,
// returning fresh accumulators for the edge and its future cost estimate
func (e *Evaluator) Evaluate(input nlp.Input, path *nlp.InputPath, target *nlp.TargetPhrase, stack nlp.StackVec) (*ScoreBreakdown, *ScoreBreakdown, error) {
	scores := e.registry.NewScoreBreakdown()
	estimated := e.registry.NewScoreBreakdown()
	if err := e.EvaluateInIsolation(path.Words, target, scores, estimated); err != nil {
		return nil, nil, err
	}
	if err := e.EvaluateWithSourceContext(input, path, target, stack, scores, estimated); err != nil {
		return nil, nil, err
	}
	return scores, estimated, nil
}

func (e *Evaluator) trace(f FeatureFunction, hook string, scores *ScoreBreakdown) {
	if f.base().verbose > 0 {
		util.Logger().Debug("evaluated", "ff", f.Name(), "hook", hook, "scores", f.Range(), "values", scores.ScoresFor(f))
	}
}

func wrapEvaluation(f FeatureFunction, err error) error {
	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	return &EvaluationError{Function: f.Name(), Reason: "evaluation failed", Err: err}
}
