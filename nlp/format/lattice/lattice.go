// Package lattice reads word lattice and confusion network input files.
//
// Every line is an arc: START END WORD SCORES, tab separated. SCORES is a
// comma separated list of log-domain input scores, optionally including
// named sparse scores as name=value, or "_" when the arc carries none. An
// arc may carry sparse scores only.
//
// Sentences are separated by an empty line or by node numbering restarting
// at 0. A restart is only seen after an arc leaving a node other than 0,
// since consecutive arcs from node 0 are alternatives of one lattice; lattices
// that only have arcs from node 0 must be separated by an empty line.
package lattice

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	nlp "ffscore/nlp/types"

	"github.com/pkg/errors"
)

const (
	FIELD_SEPARATOR  = '\t'
	NUM_FIELDS       = 4
	SCORES_SEPARATOR = ","
	SPARSE_SEPARATOR = "="
	EMPTY_FIELD      = "_"
)

func ParseInt(value string) (int, error) {
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseScores(value string) (*nlp.ScorePair, error) {
	if value == EMPTY_FIELD {
		return nil, nil
	}
	scores := &nlp.ScorePair{}
	for _, scoreStr := range strings.Split(value, SCORES_SEPARATOR) {
		name, valueStr, sparse := strings.Cut(scoreStr, SPARSE_SEPARATOR)
		if !sparse {
			valueStr = name
		}
		score, err := strconv.ParseFloat(valueStr, 64)
		if err != nil {
			return nil, fmt.Errorf("bad score %q", scoreStr)
		}
		if !sparse {
			scores.Dense = append(scores.Dense, score)
			continue
		}
		if len(name) == 0 {
			return nil, fmt.Errorf("sparse score without a name %q", scoreStr)
		}
		if scores.Sparse == nil {
			scores.Sparse = make(map[string]float64)
		}
		scores.Sparse[name] += score
	}
	return scores, nil
}

func ParseArc(record []string) (nlp.Arc, error) {
	var arc nlp.Arc
	if len(record) != NUM_FIELDS {
		return arc, fmt.Errorf("expected %d fields, got %d", NUM_FIELDS, len(record))
	}
	start, err := ParseInt(record[0])
	if err != nil {
		return arc, fmt.Errorf("error parsing START field (%s): %v", record[0], err)
	}
	end, err := ParseInt(record[1])
	if err != nil {
		return arc, fmt.Errorf("error parsing END field (%s): %v", record[1], err)
	}
	if start < 0 || end <= start {
		return arc, fmt.Errorf("arc %d -> %d does not go forward", start, end)
	}
	arc.Start, arc.End = start, end

	if record[2] == EMPTY_FIELD || len(record[2]) == 0 {
		return arc, errors.New("empty WORD field")
	}
	arc.Word = record[2]

	scores, err := ParseScores(record[3])
	if err != nil {
		return arc, fmt.Errorf("error parsing SCORES field (%s): %v", record[3], err)
	}
	arc.Scores = scores
	return arc, nil
}

// Read parses all lattices of r, classifying each as a word lattice or a
// confusion network. A positive limit stops after that many lattices.
func Read(r io.Reader, limit int) ([]*nlp.Lattice, error) {
	var (
		lattices  []*nlp.Lattice
		current   *nlp.Lattice
		prevStart = -1
		lineNum   int
	)
	flush := func() {
		if current != nil {
			current.Classify()
			lattices = append(lattices, current)
			current = nil
		}
		prevStart = -1
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) == 0 {
			flush()
		} else {
			arc, err := ParseArc(strings.Split(line, string(FIELD_SEPARATOR)))
			if err != nil {
				return nil, errors.Wrapf(err, "line %d of lattice %d", lineNum, len(lattices))
			}
			// numbering restarting at 0 starts a new lattice
			if arc.Start == 0 && prevStart > 0 {
				flush()
			}
			if current == nil {
				current = nlp.NewLattice(len(lattices))
			}
			current.AddArc(arc)
			prevStart = arc.Start
		}
		if limit > 0 && len(lattices) >= limit {
			return lattices, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading lattices")
	}
	flush()
	return lattices, nil
}

func ReadFile(filename string, limit int) ([]*nlp.Lattice, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, limit)
}
