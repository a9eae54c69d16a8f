package ff

import (
	nlp "ffscore/nlp/types"
)

// constScorer adds fixed values in the source context hook
type constScorer struct {
	Base

	values []float64
	fail   error
	calls  *[]string
}

func newConstScorer(kind string, values ...float64) *constScorer {
	return &constScorer{Base: NewBase(kind, len(values), false), values: values}
}

func (f *constScorer) EvaluateWithSourceContext(input nlp.Input, path *nlp.InputPath, target *nlp.TargetPhrase, stack nlp.StackVec, scores, estimated *ScoreBreakdown) error {
	if f.calls != nil {
		*f.calls = append(*f.calls, f.Name())
	}
	if f.fail != nil {
		return f.fail
	}
	if len(f.values) == 0 {
		return nil
	}
	return scores.PlusEquals(f, f.values)
}

type statefulScorer struct {
	Base
}

func (f *statefulScorer) Stateless() bool {
	return false
}

func scoredLattice(scores ...float64) (*nlp.Lattice, *nlp.InputPath) {
	l := nlp.NewLattice(0)
	arc := nlp.Arc{Start: 0, End: 1, Word: "haus", Scores: &nlp.ScorePair{Dense: scores}}
	l.AddArc(arc)
	path, err := nlp.NewInputPath(l, []nlp.Arc{arc})
	if err != nil {
		panic(err)
	}
	return l, path
}

func loadedRegistry(functions ...FeatureFunction) *Registry {
	r := NewRegistry()
	for _, f := range functions {
		if err := r.Register(f); err != nil {
			panic(err)
		}
	}
	if err := r.Load(&Options{}); err != nil {
		panic(err)
	}
	return r
}
