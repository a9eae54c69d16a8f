// Package phrasetable reads text phrase tables in the moses format
//
//	source words ||| target words ||| p1 p2 ... [||| alignment ...]
//
// Scores are stored as floored natural logs of the probabilities.
package phrasetable

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	nlp "ffscore/nlp/types"

	"github.com/pkg/errors"
)

const (
	FIELD_SEPARATOR = "|||"
	MIN_FIELDS      = 3
	LOWEST_SCORE    = -100.0
	MAX_LINE_LENGTH = 1 << 20
)

type Table struct {
	Name      string
	NumScores int
	// maximum options kept per source phrase, 0 keeps all
	Limit int

	entries         map[string][]*nlp.TargetPhrase
	maxSourceLength int
	numOptions      int
}

func New(name string, numScores, limit int) *Table {
	return &Table{
		Name:      name,
		NumScores: numScores,
		Limit:     limit,
		entries:   make(map[string][]*nlp.TargetPhrase),
	}
}

// TransformScore maps a probability to the log domain, floored at LOWEST_SCORE
func TransformScore(prob float64) float64 {
	return math.Max(math.Log(prob), LOWEST_SCORE)
}

// Add stores a translation option. A table created with NumScores 0 takes
// its arity from the first option added.
func (t *Table) Add(source nlp.Phrase, target *nlp.TargetPhrase) error {
	if source.Len() == 0 || target.Words.Len() == 0 {
		return fmt.Errorf("empty phrase")
	}
	if t.NumScores == 0 {
		t.NumScores = len(target.Scores)
	}
	if len(target.Scores) != t.NumScores {
		return fmt.Errorf("expected %d scores, got %d", t.NumScores, len(target.Scores))
	}
	target.Table = t.Name
	key := source.String()
	t.entries[key] = append(t.entries[key], target)
	if source.Len() > t.maxSourceLength {
		t.maxSourceLength = source.Len()
	}
	t.numOptions++
	return nil
}

// Finalize orders the options of every source phrase by their first score,
// best first, and applies the table limit
func (t *Table) Finalize() {
	t.numOptions = 0
	for key, options := range t.entries {
		sort.SliceStable(options, func(i, j int) bool {
			return options[i].Scores[0] > options[j].Scores[0]
		})
		if t.Limit > 0 && len(options) > t.Limit {
			options = options[:t.Limit]
		}
		t.entries[key] = options
		t.numOptions += len(options)
	}
}

// Rename retags every option with the name of the owning table
func (t *Table) Rename(name string) {
	t.Name = name
	for _, options := range t.entries {
		for _, option := range options {
			option.Table = name
		}
	}
}

func (t *Table) Lookup(source nlp.Phrase) []*nlp.TargetPhrase {
	return t.entries[source.String()]
}

func (t *Table) MaxSourceLength() int {
	return t.maxSourceLength
}

// Len is the number of distinct source phrases
func (t *Table) Len() int {
	return len(t.entries)
}

func (t *Table) NumOptions() int {
	return t.numOptions
}

func ParseLine(line string) (nlp.Phrase, *nlp.TargetPhrase, error) {
	fields := strings.Split(line, FIELD_SEPARATOR)
	if len(fields) < MIN_FIELDS {
		return nil, nil, fmt.Errorf("expected at least %d fields separated by %q, got %d", MIN_FIELDS, FIELD_SEPARATOR, len(fields))
	}
	source := nlp.NewPhrase(fields[0])
	target := &nlp.TargetPhrase{Words: nlp.NewPhrase(fields[1])}
	scoreStrs := strings.Fields(fields[2])
	if len(scoreStrs) == 0 {
		return nil, nil, fmt.Errorf("no scores")
	}
	target.Scores = make([]float64, len(scoreStrs))
	for i, str := range scoreStrs {
		prob, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "score %d", i+1)
		}
		if prob < 0 {
			return nil, nil, fmt.Errorf("score %d is a negative probability (%v)", i+1, prob)
		}
		target.Scores[i] = TransformScore(prob)
	}
	return source, target, nil
}

func Read(reader io.Reader, name string, numScores, limit int) (*Table, error) {
	table := New(name, numScores, limit)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), MAX_LINE_LENGTH)
	var lineNum int
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		source, target, err := ParseLine(line)
		if err != nil {
			return nil, errors.Wrapf(err, "phrase table %s line %d", name, lineNum)
		}
		if err := table.Add(source, target); err != nil {
			return nil, errors.Wrapf(err, "phrase table %s line %d", name, lineNum)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading phrase table %s", name)
	}
	table.Finalize()
	return table, nil
}

func ReadFile(filename, name string, numScores, limit int) (*Table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening phrase table")
	}
	defer file.Close()
	return Read(file, name, numScores, limit)
}
