package ff

import (
	"fmt"
	"strconv"
	"strings"

	"ffscore/alg/featurevector"
)

const WEIGHT_SEPARATOR = "="

// Weights is the weight vector aligned to a loaded registry's layout. Every
// dense slot defaults to 1, sparse components default to 0.
type Weights struct {
	Dense  featurevector.Dense
	Sparse featurevector.Sparse

	registry *Registry
}

func NewWeights(r *Registry) (*Weights, error) {
	if !r.Loaded() {
		return nil, &InvariantViolation{Reason: "weights require a loaded registry"}
	}
	w := &Weights{
		Dense:    featurevector.NewDense(r.NumScoreComponents()),
		Sparse:   featurevector.NewSparse(),
		registry: r,
	}
	for i := range w.Dense {
		w.Dense[i] = 1
	}
	return w, nil
}

// Set assigns the weights of the function called name
func (w *Weights) Set(name string, values []float64) error {
	f, exists := w.registry.Lookup(name)
	if !exists {
		return &ConfigError{Function: name, Reason: "weights given for unknown feature function"}
	}
	r := f.Range()
	if len(values) != r.Len() {
		return &ConfigError{Function: name, Reason: fmt.Sprintf("got %d weights for %d score components", len(values), r.Len())}
	}
	copy(w.Dense[r.Start:r.End], values)
	return nil
}

func (w *Weights) SetSparse(key string, value float64) {
	w.Sparse[key] = value
}

func (w *Weights) Get(name string) []float64 {
	f, exists := w.registry.Lookup(name)
	if !exists {
		return nil
	}
	r := f.Range()
	values := make([]float64, r.Len())
	copy(values, w.Dense[r.Start:r.End])
	return values
}

// ParseLine applies a moses.ini [weight] line: "<name>= w1 w2 ...". Names
// of the form <function>_<component>, function being registered, are taken
// as sparse weights.
func (w *Weights) ParseLine(line string) error {
	name, rest, found := strings.Cut(line, WEIGHT_SEPARATOR)
	name = strings.TrimSpace(name)
	if !found || len(name) == 0 {
		return &ConfigError{Reason: fmt.Sprintf("malformed weight line %q", line)}
	}
	fields := strings.Fields(rest)
	values := make([]float64, len(fields))
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return badValue(name, "weight", field, err)
		}
		values[i] = v
	}
	if _, exists := w.registry.Lookup(name); !exists && w.sparseKey(name) {
		if len(values) != 1 {
			return &ConfigError{Function: name, Reason: "sparse weight takes exactly one value"}
		}
		w.SetSparse(name, values[0])
		return nil
	}
	return w.Set(name, values)
}

// sparseKey reports whether key names a sparse component of a registered
// function
func (w *Weights) sparseKey(key string) bool {
	for _, name := range w.registry.Names() {
		prefix := name + SPARSE_SEPARATOR
		if len(key) > len(prefix) && strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
