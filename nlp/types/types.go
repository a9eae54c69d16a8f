package types

import (
	"strings"
)

// Phrase is a contiguous sequence of words on either side of a translation
type Phrase []string

func (p Phrase) Len() int {
	return len(p)
}

func (p Phrase) Equal(other Phrase) bool {
	if len(p) != len(other) {
		return false
	}
	for i, w := range p {
		if other[i] != w {
			return false
		}
	}
	return true
}

func (p Phrase) String() string {
	return strings.Join(p, " ")
}

func NewPhrase(s string) Phrase {
	return Phrase(strings.Fields(s))
}

// Range is a source span between two input nodes, End exclusive
type Range struct {
	Start, End int
}

func (r Range) Len() int {
	return r.End - r.Start
}

// StackVec carries the coverage of non-terminals for hierarchical decoding;
// it is nil for phrase-based search
type StackVec []Range

// TargetPhrase is one translation option for a source phrase
type TargetPhrase struct {
	Words Phrase
	// raw scores of the table that produced the option, in table order
	Scores []float64
	// name of the feature function owning Scores, empty for pass-through
	Table   string
	Unknown bool
}

func (t *TargetPhrase) String() string {
	return t.Words.String()
}

// UnknownTarget builds the pass-through option used for words no table covers
func UnknownTarget(word string) *TargetPhrase {
	return &TargetPhrase{Words: Phrase{word}, Unknown: true}
}
