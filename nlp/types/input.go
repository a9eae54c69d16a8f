package types

import (
	"fmt"
	"sort"
)

type InputType int

const (
	SentenceInput InputType = iota
	ConfusionNetworkInput
	WordLatticeInput
)

var inputTypeNames = [...]string{"sentence", "confusion-network", "word-lattice"}

func (t InputType) String() string {
	if int(t) < 0 || int(t) >= len(inputTypeNames) {
		return fmt.Sprintf("InputType(%d)", int(t))
	}
	return inputTypeNames[t]
}

// IsLattice reports whether input of this type may carry per-arc scores
func (t InputType) IsLattice() bool {
	return t == ConfusionNetworkInput || t == WordLatticeInput
}

// Input is a source sentence, plain or lattice-shaped. Nodes are numbered
// 0..Final() and every arc goes from a lower to a higher node.
type Input interface {
	Type() InputType
	Final() int
	Arcs(from int) []Arc
	ID() int
}

// Arc is one source word between two lattice nodes. Scores is nil when the
// arc carries no precomputed input score.
type Arc struct {
	Start, End int
	Word       string
	Scores     *ScorePair
}

type Lattice struct {
	Index int
	Kind  InputType
	Out   map[int][]Arc
	final int
}

var _ Input = &Lattice{}

func NewLattice(index int) *Lattice {
	return &Lattice{Index: index, Kind: WordLatticeInput, Out: make(map[int][]Arc)}
}

// NewSentence builds a plain-text input as a linear chain without scores
func NewSentence(index int, words []string) *Lattice {
	l := &Lattice{Index: index, Kind: SentenceInput, Out: make(map[int][]Arc, len(words))}
	for i, word := range words {
		l.AddArc(Arc{Start: i, End: i + 1, Word: word})
	}
	return l
}

func (l *Lattice) AddArc(arc Arc) {
	if arc.Start >= arc.End {
		panic(fmt.Sprintf("arc %q must go forward, got %d -> %d", arc.Word, arc.Start, arc.End))
	}
	l.Out[arc.Start] = append(l.Out[arc.Start], arc)
	if arc.End > l.final {
		l.final = arc.End
	}
}

// Classify sets the input type from the lattice shape: a lattice whose arcs
// all advance a single node is a confusion network
func (l *Lattice) Classify() {
	for _, arcs := range l.Out {
		for _, arc := range arcs {
			if arc.End-arc.Start != 1 {
				l.Kind = WordLatticeInput
				return
			}
		}
	}
	l.Kind = ConfusionNetworkInput
}

func (l *Lattice) Type() InputType {
	return l.Kind
}

func (l *Lattice) Final() int {
	return l.final
}

func (l *Lattice) Arcs(from int) []Arc {
	return l.Out[from]
}

func (l *Lattice) ID() int {
	return l.Index
}

func (l *Lattice) NumArcs() int {
	var n int
	for _, arcs := range l.Out {
		n += len(arcs)
	}
	return n
}

// SortedArcs returns all arcs ordered by start node, then end node
func (l *Lattice) SortedArcs() []Arc {
	arcs := make([]Arc, 0, l.NumArcs())
	for _, out := range l.Out {
		arcs = append(arcs, out...)
	}
	sort.SliceStable(arcs, func(i, j int) bool {
		if arcs[i].Start != arcs[j].Start {
			return arcs[i].Start < arcs[j].Start
		}
		return arcs[i].End < arcs[j].End
	})
	return arcs
}
