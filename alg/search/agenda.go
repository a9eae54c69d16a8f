package search

import (
	"container/heap"
	"fmt"
	"sort"
	"strings"
)

// Agenda keeps the best BeamSize hypotheses of a stack as a min-heap, so
// the worst survivor is always at the front
type Agenda struct {
	BeamSize int
	Confs    []*Hypothesis
}

var _ heap.Interface = &Agenda{}

func NewAgenda(size int) *Agenda {
	return &Agenda{BeamSize: size, Confs: make([]*Hypothesis, 0, size)}
}

func (a *Agenda) Len() int {
	return len(a.Confs)
}

func (a *Agenda) Less(i, j int) bool {
	return worse(a.Confs[i], a.Confs[j])
}

// worse orders by score; among equal scores the later hypothesis is worse
func worse(x, y *Hypothesis) bool {
	if x.Total != y.Total {
		return x.Total < y.Total
	}
	return x.seq > y.seq
}

func (a *Agenda) Swap(i, j int) {
	a.Confs[i], a.Confs[j] = a.Confs[j], a.Confs[i]
}

func (a *Agenda) Push(x any) {
	a.Confs = append(a.Confs, x.(*Hypothesis))
}

func (a *Agenda) Pop() any {
	n := len(a.Confs)
	popped := a.Confs[n-1]
	a.Confs[n-1] = nil
	a.Confs = a.Confs[:n-1]
	return popped
}

func (a *Agenda) Peek() *Hypothesis {
	return a.Confs[0]
}

// AddCandidate inserts c, evicting the worst hypothesis when the agenda is
// full. It reports whether c was kept.
func (a *Agenda) AddCandidate(c *Hypothesis) bool {
	if len(a.Confs) < a.BeamSize {
		heap.Push(a, c)
		return true
	}
	if !worse(a.Peek(), c) {
		return false
	}
	a.Confs[0] = c
	heap.Fix(a, 0)
	return true
}

// TopB returns the hypotheses best first, leaving the agenda untouched
func (a *Agenda) TopB() []*Hypothesis {
	sorted := make([]*Hypothesis, len(a.Confs))
	copy(sorted, a.Confs)
	sort.Slice(sorted, func(i, j int) bool {
		return worse(sorted[j], sorted[i])
	})
	return sorted
}

func (a *Agenda) Clear() {
	a.Confs = a.Confs[:0]
}

func (a *Agenda) String() string {
	strs := make([]string, len(a.Confs))
	for i, c := range a.Confs {
		strs[i] = fmt.Sprintf("%d:%v", c.seq, c.Total)
	}
	return strings.Join(strs, ",")
}
