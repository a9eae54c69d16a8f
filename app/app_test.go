package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ffscore/alg/search"
	"ffscore/nlp/translation/ff"
	nlp "ffscore/nlp/types"
	"ffscore/util"
	"ffscore/util/conf"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const phraseTable = `das haus ||| the house ||| 0.5
das ||| the ||| 0.5
haus ||| house ||| 0.5
haus ||| home ||| 0.25
ein ||| a ||| 0.5
`

const featureSetup = `features:
  - "InputFeature: num-input-features=1"
  - "WordPenalty"
  - "PhrasePenalty"
  - "UnknownWordPenalty"
  - "PhraseDictionary: name=TM num-features=1 path=phrase-table"
weights:
  PhrasePenalty0: [-1]
`

func writeSetup(t *testing.T) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "phrase-table"), []byte(phraseTable), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "features.yaml"), []byte(featureSetup), 0o644))
	return dir
}

func testBeam(t *testing.T, dir string) *search.Beam {
	util.Discard()
	setup, err := conf.LoadFeatureConfFile(filepath.Join(dir, "features.yaml"))
	require.NoError(t, err)
	cfg := conf.DefaultConfig()
	cfg.Decoder.BaseDir = dir
	registry, weights, err := SetupRegistry(cfg, setup)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1}, weights.Get("PhrasePenalty0"))
	evaluator, err := ff.NewEvaluator(registry)
	require.NoError(t, err)
	return search.NewBeam(evaluator, weights, cfg.Decoder.BeamSize, cfg.Decoder.MaxPhraseLength)
}

func TestDecodeAllPreservesOrder(t *testing.T) {
	b := testBeam(t, writeSetup(t))
	sentences := []string{"das haus", "ein haus", "das", "katze", "haus das ein"}
	var inputs []nlp.Input
	for i := 0; i < 40; i++ {
		inputs = append(inputs, nlp.NewSentence(i, nlp.NewPhrase(sentences[i%len(sentences)])))
	}
	results, err := DecodeAll(context.Background(), b, inputs, 4, 1)
	require.NoError(t, err)
	require.Len(t, results, len(inputs))
	expected := []string{"the house", "a house", "the", "katze", "house the a"}
	for i, result := range results {
		assert.Equal(t, i, result.ID)
		assert.Equal(t, expected[i%len(expected)], result.Translations[0].Text)
	}
}

func TestDecodeAllFailure(t *testing.T) {
	b := testBeam(t, writeSetup(t))
	l := nlp.NewLattice(7)
	l.AddArc(nlp.Arc{Start: 0, End: 1, Word: "das", Scores: &nlp.ScorePair{Dense: []float64{-1, -2}}})
	inputs := []nlp.Input{nlp.NewSentence(0, []string{"das"}), l}

	_, err := DecodeAll(context.Background(), b, inputs, 2, 1)
	var evalErr *ff.EvaluationError
	require.ErrorAs(t, err, &evalErr)
	assert.Contains(t, err.Error(), "decoding input 7")
}

func TestWriteOutputs(t *testing.T) {
	b := testBeam(t, writeSetup(t))
	input := nlp.NewSentence(3, []string{"das", "haus"})
	hypotheses, err := b.NBest(input, 2)
	require.NoError(t, err)
	results := []*Result{NewResult(b, input, hypotheses)}

	var text bytes.Buffer
	require.NoError(t, WriteText(&text, results, false))
	assert.Equal(t, "the house\n", text.String())

	var nbest bytes.Buffer
	require.NoError(t, WriteText(&nbest, results, true))
	lines := strings.Split(strings.TrimSpace(nbest.String()), "\n")
	require.Len(t, lines, 2)
	fields := strings.Split(lines[0], FIELD_SEPARATOR)
	require.Len(t, fields, 4)
	assert.Equal(t, "3", fields[0])
	assert.Equal(t, "the house", fields[1])
	assert.True(t, strings.HasPrefix(fields[2], "InputFeature0= 0 WordPenalty0= -2 PhrasePenalty0= 1 UnknownWordPenalty0= 0 TM= "), fields[2])

	var js bytes.Buffer
	require.NoError(t, WriteJSON(&js, results))
	var decoded Result
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, 3, decoded.ID)
	assert.Equal(t, "sentence", decoded.Type)
	require.Len(t, decoded.Translations, 2)
	assert.Equal(t, []float64{-2}, decoded.Translations[0].Scores["WordPenalty0"])
	assert.Equal(t, []string{"[0,2) das haus => the house"}, decoded.Translations[0].Segmentation)
}

func TestWriteLayout(t *testing.T) {
	b := testBeam(t, writeSetup(t))
	var out bytes.Buffer
	WriteLayout(&out, b.Evaluator.Registry(), b.Weights)
	assert.Equal(t, `# 5 functions, 5 score components
InputFeature0	InputFeature	[0,1)	1
WordPenalty0	WordPenalty	[1,2)	1
PhrasePenalty0	PhrasePenalty	[2,3)	-1
UnknownWordPenalty0	UnknownWordPenalty	[3,4)	1
TM	PhraseDictionary	[4,5)	1
`, out.String())
}

func TestSetupRegistryErrors(t *testing.T) {
	util.Discard()
	cfg := conf.DefaultConfig()
	tests := []*conf.FeatureSetup{
		{Features: []string{"InputFeature", "InputFeature"}},
		{Features: []string{"WordPenalty foo=bar"}},
		{Features: []string{"WordPenalty"}, Weights: map[string][]float64{"WordPenalty0": {1, 2}}},
		{Features: []string{"PhraseDictionary num-features=1 path=missing"}},
	}
	for _, setup := range tests {
		_, _, err := SetupRegistry(cfg, setup)
		assert.Error(t, err, setup.Features)
	}
}

func TestCommands(t *testing.T) {
	dir := writeSetup(t)
	input := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(input, []byte("das haus\nein katze\n"), 0o644))
	output := filepath.Join(dir, "output.txt")

	cmd := AllCommands()
	require.NoError(t, cmd.Dispatch([]string{"decode", "-f", filepath.Join(dir, "features.yaml"), "-in", input, "-out", output, "-workers", "2", "-log-level", "error"}))
	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "the house\na katze\n", string(data))

	lattices := filepath.Join(dir, "input.lat")
	require.NoError(t, os.WriteFile(lattices, []byte("0\t1\tdas\t-0.5\n0\t1\tdies\t-3\n1\t2\thaus\t_\n"), 0o644))
	jsonOutput := filepath.Join(dir, "output.json")
	cmd = AllCommands()
	require.NoError(t, cmd.Dispatch([]string{"decode", "-f", filepath.Join(dir, "features.yaml"), "-in", lattices, "-lattice", "-json", "-out", jsonOutput, "-log-level", "error"}))
	data, err = os.ReadFile(jsonOutput)
	require.NoError(t, err)
	var result Result
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, "confusion-network", result.Type)
	assert.Equal(t, "the house", result.Translations[0].Text)
	assert.Equal(t, []float64{-0.5}, result.Translations[0].Scores["InputFeature0"])

	configPath := filepath.Join(dir, "decoder.toml")
	cmd = AllCommands()
	require.NoError(t, cmd.Dispatch([]string{"init-config", "-out", configPath}))
	assert.FileExists(t, configPath)

	cmd = AllCommands()
	assert.Error(t, cmd.Dispatch([]string{"decode", "-in", input}))
}
