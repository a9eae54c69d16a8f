package types

import (
	"fmt"
)

// ScorePair is a precomputed score attached to the input: dense components
// in slot order plus optional named sparse components
type ScorePair struct {
	Dense  []float64
	Sparse map[string]float64
}

func (s *ScorePair) Copy() *ScorePair {
	if s == nil {
		return nil
	}
	c := &ScorePair{Dense: make([]float64, len(s.Dense))}
	copy(c.Dense, s.Dense)
	if s.Sparse != nil {
		c.Sparse = make(map[string]float64, len(s.Sparse))
		for k, v := range s.Sparse {
			c.Sparse[k] = v
		}
	}
	return c
}

// PlusEquals adds other component-wise. An empty dense side counts as all
// zeros; otherwise dense lengths must agree.
func (s *ScorePair) PlusEquals(other *ScorePair) error {
	if other == nil {
		return nil
	}
	switch {
	case len(other.Dense) == 0:
	case len(s.Dense) == 0:
		s.Dense = append([]float64(nil), other.Dense...)
	case len(s.Dense) != len(other.Dense):
		return fmt.Errorf("can't add input scores of different arity (%d vs %d)", len(s.Dense), len(other.Dense))
	default:
		for i, v := range other.Dense {
			s.Dense[i] += v
		}
	}
	if len(other.Sparse) > 0 && s.Sparse == nil {
		s.Sparse = make(map[string]float64, len(other.Sparse))
	}
	for k, v := range other.Sparse {
		s.Sparse[k] += v
	}
	return nil
}

// InputPath is a source span together with the words covering it and the
// input score accumulated over its arcs
type InputPath struct {
	Range
	Words Phrase
	// nil when none of the covered arcs carried a score
	InputScore *ScorePair
	Input      Input
}

// NewInputPath builds the path covering arcs, which must be consecutive.
// Arcs without scores contribute nothing to the path's input score.
func NewInputPath(input Input, arcs []Arc) (*InputPath, error) {
	if len(arcs) == 0 {
		return nil, fmt.Errorf("empty input path")
	}
	path := &InputPath{
		Range: Range{arcs[0].Start, arcs[len(arcs)-1].End},
		Words: make(Phrase, len(arcs)),
		Input: input,
	}
	for i, arc := range arcs {
		if i > 0 && arcs[i-1].End != arc.Start {
			return nil, fmt.Errorf("arcs %d and %d of path are not consecutive", i-1, i)
		}
		path.Words[i] = arc.Word
		if arc.Scores == nil {
			continue
		}
		if path.InputScore == nil {
			path.InputScore = arc.Scores.Copy()
			continue
		}
		if err := path.InputScore.PlusEquals(arc.Scores); err != nil {
			return nil, fmt.Errorf("path %v: %w", path.Range, err)
		}
	}
	return path, nil
}
