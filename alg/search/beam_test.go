package search

import (
	"strings"
	"testing"

	"ffscore/nlp/translation/ff"
	"ffscore/nlp/translation/phrasetable"
	nlp "ffscore/nlp/types"
	"ffscore/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTable = `das haus ||| the house ||| 0.5
das ||| the ||| 0.5
haus ||| house ||| 0.5
haus ||| home ||| 0.25
`

func testBeam(t *testing.T, maxPhraseLength int, lines ...string) *Beam {
	util.Discard()
	r := ff.NewRegistry()
	for _, line := range lines {
		_, err := r.Add(line)
		require.NoError(t, err)
	}
	table, err := phrasetable.Read(strings.NewReader(testTable), "tm", 1, 0)
	require.NoError(t, err)
	pd := ff.NewPhraseDictionary()
	require.NoError(t, pd.SetParameter("name", "TM"))
	pd.SetTable(table)
	require.NoError(t, r.Register(pd))
	require.NoError(t, r.Load(&ff.Options{}))

	w, err := ff.NewWeights(r)
	require.NoError(t, err)
	require.NoError(t, w.ParseLine("PhrasePenalty0= -1"))
	e, err := ff.NewEvaluator(r)
	require.NoError(t, err)
	return NewBeam(e, w, 10, maxPhraseLength)
}

var defaultLines = []string{"InputFeature", "WordPenalty", "PhrasePenalty", "UnknownWordPenalty"}

func TestDecodeSentence(t *testing.T) {
	b := testBeam(t, 0, defaultLines...)
	assert.Equal(t, DEFAULT_MAX_PHRASE_LENGTH, b.MaxPhraseLength)
	best, err := b.Decode(nlp.NewSentence(0, []string{"das", "haus"}))
	require.NoError(t, err)
	assert.Equal(t, "the house", best.Translation().String())
	assert.Equal(t, []string{"[0,2) das haus => the house"}, best.Segmentation())
	assert.InDelta(t, best.Scores.Weighted(b.Weights), best.Total, 1e-9)
	// input, word, phrase, unknown, TM
	assert.InDeltaSlice(t, []float64{0, -2, 1, 0, phrasetable.TransformScore(0.5)}, []float64(best.Scores.Dense), 1e-9)
}

func TestDecodeMaxPhraseLength(t *testing.T) {
	b := testBeam(t, 1, defaultLines...)
	best, err := b.Decode(nlp.NewSentence(0, []string{"das", "haus"}))
	require.NoError(t, err)
	assert.Equal(t, "the house", best.Translation().String())
	assert.Len(t, best.Applied(), 2)
	assert.Equal(t, 2.0, best.Scores.Dense[2])
}

func TestDecodeUnknownWord(t *testing.T) {
	b := testBeam(t, 0, defaultLines...)
	best, err := b.Decode(nlp.NewSentence(0, []string{"das", "katze"}))
	require.NoError(t, err)
	assert.Equal(t, "the katze", best.Translation().String())
	assert.Equal(t, ff.DEFAULT_UNKNOWN_PENALTY, best.Scores.Dense[3])
}

func TestDecodeEmptyInput(t *testing.T) {
	b := testBeam(t, 0, defaultLines...)
	best, err := b.Decode(nlp.NewSentence(0, nil))
	require.NoError(t, err)
	assert.Empty(t, best.Translation())
	assert.Empty(t, best.Applied())
}

func scoredArc(start, end int, word string, score float64) nlp.Arc {
	return nlp.Arc{Start: start, End: end, Word: word, Scores: &nlp.ScorePair{Dense: []float64{score}}}
}

func TestDecodeLattice(t *testing.T) {
	b := testBeam(t, 0, defaultLines...)
	l := nlp.NewLattice(4)
	l.AddArc(scoredArc(0, 1, "das", -0.1))
	l.AddArc(scoredArc(0, 1, "dies", -5))
	l.AddArc(scoredArc(1, 2, "haus", 0))
	l.Classify()

	best, err := b.Decode(l)
	require.NoError(t, err)
	assert.Equal(t, "the house", best.Translation().String())
	assert.InDelta(t, -0.1, best.Scores.Dense[0], 1e-9)

	paths, err := b.Paths(l, 0)
	require.NoError(t, err)
	assert.Len(t, paths, 4)
}

func TestDecodeLatticeWithSparseOnlyArcs(t *testing.T) {
	b := testBeam(t, 0, defaultLines...)
	l := nlp.NewLattice(5)
	l.AddArc(nlp.Arc{Start: 0, End: 1, Word: "das", Scores: &nlp.ScorePair{Sparse: map[string]float64{"asr": 0.5}}})
	l.AddArc(scoredArc(1, 2, "haus", -0.5))
	l.Classify()

	best, err := b.Decode(l)
	require.NoError(t, err)
	assert.Equal(t, "the house", best.Translation().String())
	assert.InDelta(t, -0.5, best.Scores.Dense[0], 1e-9)
	assert.Equal(t, 0.5, best.Scores.Sparse["InputFeature0_asr"])
}

func TestNBest(t *testing.T) {
	b := testBeam(t, 0, defaultLines...)
	hs, err := b.NBest(nlp.NewSentence(0, []string{"das", "haus"}), 3)
	require.NoError(t, err)
	require.Len(t, hs, 3)
	for i := 1; i < len(hs); i++ {
		assert.GreaterOrEqual(t, hs[i-1].Total, hs[i].Total)
	}
	assert.Equal(t, "the house", hs[0].Translation().String())
	assert.Equal(t, 10, b.Size)
}

func TestDecodeEvaluationFailure(t *testing.T) {
	b := testBeam(t, 0, "InputFeature num-input-features=2", "WordPenalty", "PhrasePenalty")
	l := nlp.NewLattice(0)
	l.AddArc(scoredArc(0, 1, "das", -0.1))

	_, err := b.Decode(l)
	var evalErr *ff.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, "InputFeature0", evalErr.Function)
}

func TestDecodeUnreachableFinal(t *testing.T) {
	b := testBeam(t, 0, defaultLines...)
	l := nlp.NewLattice(0)
	l.AddArc(nlp.Arc{Start: 0, End: 1, Word: "das"})
	l.AddArc(nlp.Arc{Start: 2, End: 3, Word: "haus"})
	_, err := b.Decode(l)
	assert.Error(t, err)
}

func TestAgenda(t *testing.T) {
	a := NewAgenda(2)
	assert.True(t, a.AddCandidate(&Hypothesis{Total: 1, seq: 1}))
	assert.True(t, a.AddCandidate(&Hypothesis{Total: 3, seq: 2}))
	assert.True(t, a.AddCandidate(&Hypothesis{Total: 2, seq: 3}))
	assert.False(t, a.AddCandidate(&Hypothesis{Total: 2, seq: 4}))
	assert.False(t, a.AddCandidate(&Hypothesis{Total: 0, seq: 5}))

	top := a.TopB()
	require.Len(t, top, 2)
	assert.Equal(t, 3.0, top[0].Total)
	assert.Equal(t, 3, top[1].seq)
	assert.Equal(t, 2.0, a.Peek().Total)

	a.Clear()
	assert.Zero(t, a.Len())
}
