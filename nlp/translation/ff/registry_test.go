package ff

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestRegistryLayoutCoversVector(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		sizes := rapid.SliceOfN(rapid.IntRange(0, 5), 1, 10).Draw(t, "sizes")
		r := NewRegistry()
		var total int
		for i, size := range sizes {
			f := newConstScorer(fmt.Sprintf("Scorer%d", i))
			f.SetNumScoreComponents(size)
			if err := r.Register(f); err != nil {
				t.Fatalf("register: %v", err)
			}
			total += size
		}
		if err := r.Load(&Options{}); err != nil {
			t.Fatalf("load: %v", err)
		}
		if r.NumScoreComponents() != total {
			t.Fatalf("vector length %d, expected %d", r.NumScoreComponents(), total)
		}
		owner := make([]int, total)
		for i := range owner {
			owner[i] = -1
		}
		for i, rng := range r.Ranges() {
			if rng.Len() != sizes[i] {
				t.Fatalf("function %d owns %d slots, expected %d", i, rng.Len(), sizes[i])
			}
			for slot := rng.Start; slot < rng.End; slot++ {
				if owner[slot] != -1 {
					t.Fatalf("slot %d owned by %d and %d", slot, owner[slot], i)
				}
				owner[slot] = i
			}
		}
		for slot, o := range owner {
			if o == -1 {
				t.Fatalf("slot %d is not owned", slot)
			}
		}
		if _, err := CheckLayout(r.Ranges(), total); err != nil {
			t.Fatalf("layout: %v", err)
		}
	})
}

func TestCheckLayoutFailures(t *testing.T) {
	tests := []struct {
		name   string
		ranges []SlotRange
		total  int
		index  int
	}{
		{"overlap", []SlotRange{{0, 2}, {1, 3}}, 3, 1},
		{"gap", []SlotRange{{0, 1}, {2, 3}}, 3, 1},
		{"short", []SlotRange{{0, 1}, {1, 2}}, 3, 1},
		{"inverted", []SlotRange{{0, 1}, {3, 1}}, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			index, err := CheckLayout(tt.ranges, tt.total)
			assert.Error(t, err)
			assert.Equal(t, tt.index, index)
		})
	}
	_, err := CheckLayout(nil, 0)
	assert.NoError(t, err)
}

func TestSingletonViolation(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("InputFeature: num-input-features=1")
	require.NoError(t, err)
	_, err = r.Add("InputFeature: num-input-features=1")
	var violation *InvariantViolation
	require.ErrorAs(t, err, &violation)
	assert.Equal(t, INPUT_FEATURE, violation.Function)
	assert.Contains(t, err.Error(), "can only have 1 InputFeature")

	err = r.Register(NewInputFeature())
	assert.ErrorAs(t, err, &violation)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryNames(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("WordPenalty")
	require.NoError(t, err)
	_, err = r.Add("PhrasePenalty name=pp")
	require.NoError(t, err)
	_, err = r.Add("WordPenalty")
	require.NoError(t, err)
	assert.Equal(t, []string{"WordPenalty0", "pp", "WordPenalty1"}, r.Names())

	_, err = r.Add("WordPenalty name=pp")
	var violation *InvariantViolation
	assert.ErrorAs(t, err, &violation)

	f, exists := r.Lookup("WordPenalty1")
	require.True(t, exists)
	assert.Equal(t, WORD_PENALTY, f.Kind())
	_, exists = r.Lookup("missing")
	assert.False(t, exists)
}

func TestRegistryUnknownKind(t *testing.T) {
	_, err := NewRegistry().Add("LanguageModel order=3")
	var configErr *ConfigError
	assert.ErrorAs(t, err, &configErr)
}

func TestRegistryRejectsStateful(t *testing.T) {
	err := NewRegistry().Register(&statefulScorer{Base: NewBase("Stateful", 1, false)})
	var violation *InvariantViolation
	assert.ErrorAs(t, err, &violation)
}

func TestRegistryFrozenAfterLoad(t *testing.T) {
	r := loadedRegistry(NewWordPenalty())
	assert.True(t, r.Loaded())
	_, err := r.Add("PhrasePenalty")
	var violation *InvariantViolation
	assert.ErrorAs(t, err, &violation)
	assert.ErrorAs(t, r.Load(nil), &violation)
}

func TestRangeBeforeLoadPanics(t *testing.T) {
	r := NewRegistry()
	f, err := r.Add("WordPenalty")
	require.NoError(t, err)
	assert.Panics(t, func() { f.Range() })
	assert.Panics(t, func() { r.NumScoreComponents() })
}

func TestRegistryLoadErrorAborts(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("InputFeature num-input-features=1 real-word-count=2")
	require.NoError(t, err)
	var configErr *ConfigError
	assert.ErrorAs(t, r.Load(&Options{}), &configErr)
	assert.False(t, r.Loaded())
}

func TestRegistryDescribe(t *testing.T) {
	r := NewRegistry()
	_, err := r.Add("InputFeature num-input-features=2")
	require.NoError(t, err)
	_, err = r.Add("WordPenalty")
	require.NoError(t, err)

	var before bytes.Buffer
	r.Describe(&before)
	assert.Equal(t, "InputFeature0\tInputFeature\t2\nWordPenalty0\tWordPenalty\t1\n", before.String())

	require.NoError(t, r.Load(nil))
	var after bytes.Buffer
	r.Describe(&after)
	assert.Equal(t, "InputFeature0\tInputFeature\t[0,2)\nWordPenalty0\tWordPenalty\t[2,3)\n", after.String())
}

func TestRegistryKinds(t *testing.T) {
	r := NewRegistry()
	r.RegisterKind("Const", func() FeatureFunction { return newConstScorer("Const", 1) })
	assert.Contains(t, r.Kinds(), "Const")
	assert.Contains(t, r.Kinds(), PHRASE_DICTIONARY)
	f, err := r.Add("Const")
	require.NoError(t, err)
	assert.Equal(t, "Const0", f.Name())
}
