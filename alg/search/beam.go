// Package search implements a monotone beam search over input lattices.
//
// Hypotheses are grouped in one stack per lattice node, holding those that
// have translated some path from node 0 to that node. Stacks are expanded in
// node order; every stack keeps at most Size hypotheses.
package search

import (
	"fmt"

	"ffscore/nlp/translation/ff"
	nlp "ffscore/nlp/types"
	"ffscore/util"

	"github.com/pkg/errors"
)

const (
	DEFAULT_BEAM_SIZE         = 100
	DEFAULT_MAX_PHRASE_LENGTH = 7
)

var AgendaOut bool = false

type Hypothesis struct {
	Node   int
	Prev   *Hypothesis
	Path   *nlp.InputPath
	Target *nlp.TargetPhrase
	Scores *ff.ScoreBreakdown
	Total  float64

	seq int
}

// Extend applies an edge leaving h's node
func (h *Hypothesis) Extend(e *Edge, w *ff.Weights, seq int) *Hypothesis {
	scores := h.Scores.Copy()
	scores.PlusEqualsBreakdown(e.Scores)
	return &Hypothesis{
		Node:   e.Path.End,
		Prev:   h,
		Path:   e.Path,
		Target: e.Target,
		Scores: scores,
		Total:  scores.Weighted(w),
		seq:    seq,
	}
}

// Applied returns the hypotheses leading to h, first applied phrase first
func (h *Hypothesis) Applied() []*Hypothesis {
	var chain []*Hypothesis
	for cur := h; cur != nil && cur.Prev != nil; cur = cur.Prev {
		chain = append(chain, cur)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (h *Hypothesis) Translation() nlp.Phrase {
	var words nlp.Phrase
	for _, applied := range h.Applied() {
		words = append(words, applied.Target.Words...)
	}
	return words
}

// Segmentation describes the applied phrases as "[start,end) source => target"
func (h *Hypothesis) Segmentation() []string {
	applied := h.Applied()
	segments := make([]string, len(applied))
	for i, a := range applied {
		segments[i] = fmt.Sprintf("[%d,%d) %s => %s", a.Path.Start, a.Path.End, a.Path.Words, a.Target)
	}
	return segments
}

func (h *Hypothesis) String() string {
	return fmt.Sprintf("%s ||| %s ||| %v", h.Translation(), h.Scores, h.Total)
}

// Edge is a translation option applied to an input path, with its scores
type Edge struct {
	Path      *nlp.InputPath
	Target    *nlp.TargetPhrase
	Scores    *ff.ScoreBreakdown
	Estimated *ff.ScoreBreakdown
}

// Beam holds only read-only configuration and may decode several inputs
// concurrently
type Beam struct {
	Evaluator *ff.Evaluator
	Weights   *ff.Weights
	Sources   []ff.PhraseSource

	Size            int
	MaxPhraseLength int
}

func NewBeam(e *ff.Evaluator, w *ff.Weights, size, maxPhraseLength int) *Beam {
	if size <= 0 {
		size = DEFAULT_BEAM_SIZE
	}
	if maxPhraseLength <= 0 {
		maxPhraseLength = DEFAULT_MAX_PHRASE_LENGTH
	}
	return &Beam{
		Evaluator:       e,
		Weights:         w,
		Sources:         e.Registry().PhraseSources(),
		Size:            size,
		MaxPhraseLength: maxPhraseLength,
	}
}

func (b *Beam) Name() string {
	return fmt.Sprintf("Monotone Beam [Size: %d, Max Phrase Length: %d, Sources: %d]", b.Size, b.MaxPhraseLength, len(b.Sources))
}

func (b *Beam) StartItem(input nlp.Input) *Hypothesis {
	scores := b.Evaluator.Registry().NewScoreBreakdown()
	return &Hypothesis{Node: 0, Scores: scores, Total: scores.Weighted(b.Weights)}
}

// Paths enumerates the input paths of up to MaxPhraseLength arcs leaving from
func (b *Beam) Paths(input nlp.Input, from int) ([]*nlp.InputPath, error) {
	var (
		paths []*nlp.InputPath
		arcs  []nlp.Arc
		walk  func(node int) error
	)
	walk = func(node int) error {
		for _, arc := range input.Arcs(node) {
			arcs = append(arcs, arc)
			path, err := nlp.NewInputPath(input, arcs)
			if err != nil {
				return err
			}
			paths = append(paths, path)
			if len(arcs) < b.MaxPhraseLength {
				if err := walk(arc.End); err != nil {
					return err
				}
			}
			arcs = arcs[:len(arcs)-1]
		}
		return nil
	}
	if err := walk(from); err != nil {
		return nil, err
	}
	return paths, nil
}

// Options collects the translation options of every phrase source. A single
// word no source covers is passed through untranslated.
func (b *Beam) Options(path *nlp.InputPath) []*nlp.TargetPhrase {
	var options []*nlp.TargetPhrase
	for _, source := range b.Sources {
		if path.Words.Len() > source.MaxSourceLength() {
			continue
		}
		options = append(options, source.GetTargetPhrases(path.Words)...)
	}
	if len(options) == 0 && path.Words.Len() == 1 {
		options = append(options, nlp.UnknownTarget(path.Words[0]))
	}
	return options
}

// Edges scores every option of every path leaving from
func (b *Beam) Edges(input nlp.Input, from int) ([]*Edge, error) {
	paths, err := b.Paths(input, from)
	if err != nil {
		return nil, err
	}
	var edges []*Edge
	for _, path := range paths {
		for _, target := range b.Options(path) {
			scores, estimated, err := b.Evaluator.Evaluate(input, path, target, nil)
			if err != nil {
				return nil, err
			}
			edges = append(edges, &Edge{Path: path, Target: target, Scores: scores, Estimated: estimated})
		}
	}
	return edges, nil
}

// Decode returns the best hypothesis covering input from node 0 to its final
// node. Any evaluation failure fails the whole input.
func (b *Beam) Decode(input nlp.Input) (*Hypothesis, error) {
	complete, err := b.search(input)
	if err != nil {
		return nil, err
	}
	return complete[0], nil
}

// NBest returns up to n complete hypotheses, best first
func (b *Beam) NBest(input nlp.Input, n int) ([]*Hypothesis, error) {
	wide := *b
	if n > wide.Size {
		wide.Size = n
	}
	complete, err := wide.search(input)
	if err != nil {
		return nil, err
	}
	if len(complete) > n {
		complete = complete[:n]
	}
	return complete, nil
}

func (b *Beam) search(input nlp.Input) ([]*Hypothesis, error) {
	final := input.Final()
	stacks := make([]*Agenda, final+1)
	stacks[0] = NewAgenda(b.Size)
	stacks[0].AddCandidate(b.StartItem(input))

	var seq, numEdges int
	for node := 0; node < final; node++ {
		stack := stacks[node]
		if stack == nil || stack.Len() == 0 {
			continue
		}
		edges, err := b.Edges(input, node)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d node %d", input.ID(), node)
		}
		numEdges += len(edges)
		for _, h := range stack.TopB() {
			for _, e := range edges {
				seq++
				if stacks[e.Path.End] == nil {
					stacks[e.Path.End] = NewAgenda(b.Size)
				}
				stacks[e.Path.End].AddCandidate(h.Extend(e, b.Weights, seq))
			}
		}
		if AgendaOut {
			util.Logger().Debug("expanded stack", "input", input.ID(), "node", node, "edges", len(edges), "agenda", stack.String())
		}
	}
	if stacks[final] == nil || stacks[final].Len() == 0 {
		return nil, fmt.Errorf("input %d: no hypothesis reaches final node %d", input.ID(), final)
	}
	complete := stacks[final].TopB()
	util.Logger().Debug("decoded", "input", input.ID(), "nodes", final, "edges", numEdges, "hypotheses", seq, "score", complete[0].Total)
	return complete, nil
}
