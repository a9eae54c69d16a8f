package ff

import (
	"fmt"
	"path/filepath"
	"strconv"

	"ffscore/nlp/translation/phrasetable"
	nlp "ffscore/nlp/types"
	"ffscore/util"
)

const PHRASE_DICTIONARY = "PhraseDictionary"

// PhraseSource is implemented by functions that provide translation options
type PhraseSource interface {
	FeatureFunction
	GetTargetPhrases(source nlp.Phrase) []*nlp.TargetPhrase
	MaxSourceLength() int
}

// PhraseDictionary is a memory resident phrase table. Its options carry the
// table's scores, which it adds to its own slots.
type PhraseDictionary struct {
	Base

	path  string
	limit int
	table *phrasetable.Table
}

var _ PhraseSource = &PhraseDictionary{}

func NewPhraseDictionary() *PhraseDictionary {
	return &PhraseDictionary{Base: NewBase(PHRASE_DICTIONARY, 0, false)}
}

func (f *PhraseDictionary) SetParameter(key, value string) error {
	switch key {
	case "path":
		f.path = value
	case "table-limit":
		n, err := strconv.Atoi(value)
		if err != nil {
			return badValue(f.nameOrKind(), key, value, err)
		}
		if n < 0 {
			return badValue(f.nameOrKind(), key, value, fmt.Errorf("negative table limit"))
		}
		f.limit = n
	case "input-factor", "output-factor":
		// single factor only
	default:
		return f.Base.SetParameter(key, value)
	}
	return nil
}

func (f *PhraseDictionary) Path() string {
	return f.path
}

func (f *PhraseDictionary) Load(opts *Options) error {
	if f.table != nil {
		if f.NumScoreComponents() == 0 {
			f.SetNumScoreComponents(f.table.NumScores)
		}
		if f.table.NumScores != f.NumScoreComponents() {
			return &ConfigError{Function: f.Name(), Key: "num-features", Value: strconv.Itoa(f.NumScoreComponents()), Reason: fmt.Sprintf("table has %d scores", f.table.NumScores)}
		}
		f.table.Rename(f.Name())
		return nil
	}
	if f.NumScoreComponents() == 0 {
		return &ConfigError{Function: f.Name(), Key: "num-features", Value: "0", Reason: "phrase tables need at least one score"}
	}
	if len(f.path) == 0 {
		return &ConfigError{Function: f.Name(), Key: "path", Reason: "missing phrase table path"}
	}
	path := f.path
	if !filepath.IsAbs(path) && len(opts.BaseDir) > 0 {
		path = filepath.Join(opts.BaseDir, path)
	}
	table, err := phrasetable.ReadFile(path, f.Name(), f.NumScoreComponents(), f.limit)
	if err != nil {
		return &ConfigError{Function: f.Name(), Key: "path", Value: path, Reason: err.Error()}
	}
	f.table = table
	log := util.Logger().With("name", f.Name(), "path", path)
	if md5, size, err := util.MD5File(path); err != nil {
		log.Warn("can't fingerprint phrase table", "err", err)
	} else {
		log = log.With("md5", md5, "bytes", size)
	}
	log.Info("loaded phrase table", "sources", table.Len(), "options", table.NumOptions())
	return nil
}

// SetTable installs an in-memory table, used by Load instead of path
func (f *PhraseDictionary) SetTable(table *phrasetable.Table) {
	f.table = table
}

func (f *PhraseDictionary) GetTargetPhrases(source nlp.Phrase) []*nlp.TargetPhrase {
	if f.table == nil {
		return nil
	}
	return f.table.Lookup(source)
}

func (f *PhraseDictionary) MaxSourceLength() int {
	if f.table == nil {
		return 0
	}
	return f.table.MaxSourceLength()
}

func (f *PhraseDictionary) EvaluateInIsolation(source nlp.Phrase, target *nlp.TargetPhrase, scores, estimated *ScoreBreakdown) error {
	if target.Table != f.Name() {
		return nil
	}
	return scores.PlusEquals(f, target.Scores)
}
