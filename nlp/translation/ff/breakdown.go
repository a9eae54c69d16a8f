package ff

import (
	"fmt"

	"ffscore/alg/featurevector"
)

const SPARSE_SEPARATOR = "_"

// ScoreBreakdown accumulates the scores of one edge or hypothesis. The dense
// part follows the registry layout; each function writes only to its range.
type ScoreBreakdown struct {
	Dense  featurevector.Dense
	Sparse featurevector.Sparse
}

func NewScoreBreakdown(size int) *ScoreBreakdown {
	return &ScoreBreakdown{Dense: featurevector.NewDense(size)}
}

// PlusEquals adds values into f's slots; values must match f's slot count
func (s *ScoreBreakdown) PlusEquals(f FeatureFunction, values []float64) error {
	r := f.Range()
	if len(values) != r.Len() {
		return &EvaluationError{
			Function: f.Name(),
			Reason:   fmt.Sprintf("got %d scores for %d slots", len(values), r.Len()),
		}
	}
	s.Dense.PlusEquals(r.Start, values)
	return nil
}

// PlusEqualsScalar adds value to the only slot of a single-slot function
func (s *ScoreBreakdown) PlusEqualsScalar(f FeatureFunction, value float64) error {
	r := f.Range()
	if r.Len() != 1 {
		return &EvaluationError{
			Function: f.Name(),
			Reason:   fmt.Sprintf("scalar score for function with %d slots", r.Len()),
		}
	}
	s.Dense[r.Start] += value
	return nil
}

// PlusEqualsSparse adds a named component, namespaced by the function name
func (s *ScoreBreakdown) PlusEqualsSparse(f FeatureFunction, key string, value float64) {
	if s.Sparse == nil {
		s.Sparse = featurevector.NewSparse()
	}
	s.Sparse.UpdateAdd(featurevector.Sparse{f.Name() + SPARSE_SEPARATOR + key: value})
}

func (s *ScoreBreakdown) PlusEqualsBreakdown(other *ScoreBreakdown) {
	s.Dense.PlusEqualsVector(other.Dense)
	if len(other.Sparse) > 0 {
		if s.Sparse == nil {
			s.Sparse = featurevector.NewSparse()
		}
		s.Sparse.UpdateAdd(other.Sparse)
	}
}

// ScoresFor returns a copy of the slots owned by f
func (s *ScoreBreakdown) ScoresFor(f FeatureFunction) []float64 {
	r := f.Range()
	scores := make([]float64, r.Len())
	copy(scores, s.Dense[r.Start:r.End])
	return scores
}

func (s *ScoreBreakdown) Copy() *ScoreBreakdown {
	c := &ScoreBreakdown{Dense: s.Dense.Copy()}
	if s.Sparse != nil {
		c.Sparse = s.Sparse.Copy()
	}
	return c
}

// Weighted is the total score used for ranking and pruning
func (s *ScoreBreakdown) Weighted(w *Weights) float64 {
	total := s.Dense.InnerProduct(w.Dense)
	if len(s.Sparse) > 0 && len(w.Sparse) > 0 {
		total += s.Sparse.DotProduct(w.Sparse)
	}
	return total
}

func (s *ScoreBreakdown) Equal(other *ScoreBreakdown) bool {
	return s.Dense.Equal(other.Dense) && s.Sparse.Equal(other.Sparse)
}

func (s *ScoreBreakdown) String() string {
	if len(s.Sparse) == 0 {
		return s.Dense.String()
	}
	return s.Dense.String() + " " + s.Sparse.String()
}
