// Package ff implements the feature-function scoring pipeline: pluggable
// scorers, the registry assigning each of them a slot range of the score
// vector, and the evaluator dispatching to all of them per translation edge.
//
// A feature function goes through two phases. It is constructed from a
// configuration line (SetParameter per key), then loaded once with the
// process options. Only after the registry has loaded every function are
// slot ranges assigned and evaluation allowed.
package ff

import (
	"fmt"
	"strconv"

	nlp "ffscore/nlp/types"
)

// SlotRange is the half-open range of score vector slots owned by a function
type SlotRange struct {
	Start, End int
}

func (r SlotRange) Len() int {
	return r.End - r.Start
}

func (r SlotRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Options is the process-wide bundle passed to every function's Load
type Options struct {
	// the phrase table already applies lattice input scores
	LegacyInputScoring bool
	// directory relative resource paths are resolved against
	BaseDir string
}

type FeatureFunction interface {
	Kind() string
	Name() string
	NumScoreComponents() int
	Singleton() bool
	Stateless() bool
	Range() SlotRange

	SetParameter(key, value string) error
	Load(opts *Options) error

	// EvaluateInIsolation scores a translation option independently of the
	// input it is applied to
	EvaluateInIsolation(source nlp.Phrase, target *nlp.TargetPhrase, scores, estimated *ScoreBreakdown) error
	// EvaluateWithSourceContext scores a translation option applied to a
	// concrete input path. It may only write to scores and estimated.
	EvaluateWithSourceContext(input nlp.Input, path *nlp.InputPath, target *nlp.TargetPhrase, stack nlp.StackVec, scores, estimated *ScoreBreakdown) error

	base() *Base
}

// Base carries what every feature function shares and handles the generic
// configuration keys. Concrete functions embed it and fall back to
// Base.SetParameter for keys they don't recognize.
type Base struct {
	kind               string
	name               string
	numScoreComponents int
	singleton          bool
	tuneable           bool
	verbose            int

	slots    SlotRange
	assigned bool
}

func NewBase(kind string, numScoreComponents int, singleton bool) Base {
	return Base{
		kind:               kind,
		numScoreComponents: numScoreComponents,
		singleton:          singleton,
		tuneable:           true,
	}
}

func (b *Base) base() *Base {
	return b
}

func (b *Base) Kind() string {
	return b.kind
}

func (b *Base) Name() string {
	return b.name
}

func (b *Base) NumScoreComponents() int {
	return b.numScoreComponents
}

func (b *Base) SetNumScoreComponents(n int) {
	if b.assigned {
		panic(fmt.Sprintf("%s: can't resize after slots were assigned", b.name))
	}
	b.numScoreComponents = n
}

func (b *Base) Singleton() bool {
	return b.singleton
}

func (b *Base) Stateless() bool {
	return true
}

func (b *Base) Tuneable() bool {
	return b.tuneable
}

func (b *Base) Verbose() int {
	return b.verbose
}

// Range panics when called before the registry assigned slots
func (b *Base) Range() SlotRange {
	if !b.assigned {
		panic(fmt.Sprintf("%s: slot range requested before registry load", b.name))
	}
	return b.slots
}

func (b *Base) SetParameter(key, value string) error {
	switch key {
	case "name":
		if len(value) == 0 {
			return badValue(b.nameOrKind(), key, value, fmt.Errorf("empty name"))
		}
		b.name = value
	case "num-features":
		n, err := strconv.Atoi(value)
		if err != nil {
			return badValue(b.nameOrKind(), key, value, err)
		}
		if n < 0 {
			return badValue(b.nameOrKind(), key, value, fmt.Errorf("negative number of features"))
		}
		b.numScoreComponents = n
	case "tuneable":
		t, err := strconv.ParseBool(value)
		if err != nil {
			return badValue(b.nameOrKind(), key, value, err)
		}
		b.tuneable = t
	case "verbose":
		v, err := strconv.Atoi(value)
		if err != nil {
			return badValue(b.nameOrKind(), key, value, err)
		}
		b.verbose = v
	default:
		return unknownParameter(b.nameOrKind(), key, value)
	}
	return nil
}

func (b *Base) Load(opts *Options) error {
	return nil
}

func (b *Base) EvaluateInIsolation(source nlp.Phrase, target *nlp.TargetPhrase, scores, estimated *ScoreBreakdown) error {
	return nil
}

func (b *Base) EvaluateWithSourceContext(input nlp.Input, path *nlp.InputPath, target *nlp.TargetPhrase, stack nlp.StackVec, scores, estimated *ScoreBreakdown) error {
	return nil
}

func (b *Base) nameOrKind() string {
	if len(b.name) > 0 {
		return b.name
	}
	return b.kind
}

func (b *Base) assign(r SlotRange) {
	b.slots = r
	b.assigned = true
}

// ApplyLine sets every parameter of a parsed line on f, in line order
func ApplyLine(f FeatureFunction, line *Line) error {
	for _, p := range line.Params {
		if err := f.SetParameter(p.Key, p.Value); err != nil {
			return err
		}
	}
	return nil
}
