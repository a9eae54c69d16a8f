package ff

import (
	"fmt"
	"strconv"

	nlp "ffscore/nlp/types"
)

const INPUT_FEATURE = "InputFeature"

// InputFeature adds the scores attached to lattice or confusion network arcs
// to its slots. Plain sentences and paths without scores are left untouched.
type InputFeature struct {
	Base

	numRealWordCount int
	legacy           bool
}

var _ FeatureFunction = &InputFeature{}

func NewInputFeature() *InputFeature {
	return &InputFeature{Base: NewBase(INPUT_FEATURE, 1, true)}
}

func (f *InputFeature) SetParameter(key, value string) error {
	switch key {
	case "num-input-features", "num-input-scores":
		n, err := strconv.Atoi(value)
		if err != nil {
			return badValue(f.nameOrKind(), key, value, err)
		}
		if n < 0 {
			return badValue(f.nameOrKind(), key, value, fmt.Errorf("negative number of input scores"))
		}
		f.SetNumScoreComponents(n)
	case "real-word-count":
		n, err := strconv.Atoi(value)
		if err != nil {
			return badValue(f.nameOrKind(), key, value, err)
		}
		if n < 0 {
			return badValue(f.nameOrKind(), key, value, fmt.Errorf("negative real word count"))
		}
		f.numRealWordCount = n
	default:
		return f.Base.SetParameter(key, value)
	}
	return nil
}

func (f *InputFeature) NumInputScores() int {
	return f.NumScoreComponents()
}

func (f *InputFeature) NumRealWordCount() int {
	return f.numRealWordCount
}

func (f *InputFeature) Legacy() bool {
	return f.legacy
}

func (f *InputFeature) Load(opts *Options) error {
	if f.numRealWordCount > f.NumScoreComponents() {
		return &ConfigError{
			Function: f.Name(),
			Key:      "real-word-count",
			Value:    strconv.Itoa(f.numRealWordCount),
			Reason:   fmt.Sprintf("exceeds the %d input scores", f.NumScoreComponents()),
		}
	}
	f.legacy = opts.LegacyInputScoring
	return nil
}

func (f *InputFeature) EvaluateWithSourceContext(input nlp.Input, path *nlp.InputPath, target *nlp.TargetPhrase, stack nlp.StackVec, scores, estimated *ScoreBreakdown) error {
	if f.legacy {
		// the phrase table applies input scores itself
		return nil
	}
	if !input.Type().IsLattice() || path.InputScore == nil {
		return nil
	}
	// arcs scored with sparse components only carry no dense part
	if len(path.InputScore.Dense) > 0 {
		if err := scores.PlusEquals(f, path.InputScore.Dense); err != nil {
			return &EvaluationError{Function: f.Name(), Reason: fmt.Sprintf("input path %v", path.Range), Err: err}
		}
	}
	for key, value := range path.InputScore.Sparse {
		scores.PlusEqualsSparse(f, key, value)
	}
	return nil
}
