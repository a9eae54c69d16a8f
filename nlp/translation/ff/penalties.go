package ff

import (
	"strconv"

	nlp "ffscore/nlp/types"
)

const (
	WORD_PENALTY         = "WordPenalty"
	PHRASE_PENALTY       = "PhrasePenalty"
	UNKNOWN_WORD_PENALTY = "UnknownWordPenalty"

	DEFAULT_UNKNOWN_PENALTY = -100.0
)

// WordPenalty scores -1 per target word
type WordPenalty struct {
	Base
}

func NewWordPenalty() *WordPenalty {
	return &WordPenalty{Base: NewBase(WORD_PENALTY, 1, false)}
}

func (f *WordPenalty) Load(opts *Options) error {
	return singleSlot(&f.Base)
}

func (f *WordPenalty) EvaluateInIsolation(source nlp.Phrase, target *nlp.TargetPhrase, scores, estimated *ScoreBreakdown) error {
	return scores.PlusEqualsScalar(f, -float64(target.Words.Len()))
}

// PhrasePenalty scores 1 per applied phrase
type PhrasePenalty struct {
	Base
}

func NewPhrasePenalty() *PhrasePenalty {
	return &PhrasePenalty{Base: NewBase(PHRASE_PENALTY, 1, false)}
}

func (f *PhrasePenalty) Load(opts *Options) error {
	return singleSlot(&f.Base)
}

func (f *PhrasePenalty) EvaluateInIsolation(source nlp.Phrase, target *nlp.TargetPhrase, scores, estimated *ScoreBreakdown) error {
	return scores.PlusEqualsScalar(f, 1)
}

// UnknownWordPenalty penalizes words passed through untranslated
type UnknownWordPenalty struct {
	Base

	penalty float64
}

func NewUnknownWordPenalty() *UnknownWordPenalty {
	return &UnknownWordPenalty{
		Base:    NewBase(UNKNOWN_WORD_PENALTY, 1, true),
		penalty: DEFAULT_UNKNOWN_PENALTY,
	}
}

func (f *UnknownWordPenalty) SetParameter(key, value string) error {
	if key != "penalty" {
		return f.Base.SetParameter(key, value)
	}
	p, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return badValue(f.nameOrKind(), key, value, err)
	}
	f.penalty = p
	return nil
}

func (f *UnknownWordPenalty) Load(opts *Options) error {
	return singleSlot(&f.Base)
}

func (f *UnknownWordPenalty) EvaluateInIsolation(source nlp.Phrase, target *nlp.TargetPhrase, scores, estimated *ScoreBreakdown) error {
	if !target.Unknown {
		return nil
	}
	return scores.PlusEqualsScalar(f, f.penalty)
}

func singleSlot(b *Base) error {
	if b.NumScoreComponents() != 1 {
		return &ConfigError{Function: b.Name(), Key: "num-features", Value: strconv.Itoa(b.NumScoreComponents()), Reason: "must be 1"}
	}
	return nil
}
