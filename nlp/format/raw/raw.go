// Package raw reads plain text input, one whitespace tokenized sentence per
// line. Empty lines are kept as empty sentences.
package raw

import (
	"bufio"
	"io"
	"os"
	"strings"

	nlp "ffscore/nlp/types"

	"github.com/pkg/errors"
)

const MAX_LINE_LENGTH = 1 << 20

func Read(reader io.Reader, limit int) ([]*nlp.Lattice, error) {
	var sentences []*nlp.Lattice
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 4096), MAX_LINE_LENGTH)
	for scanner.Scan() {
		sentences = append(sentences, nlp.NewSentence(len(sentences), strings.Fields(scanner.Text())))
		if limit > 0 && len(sentences) >= limit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading sentence %d", len(sentences))
	}
	return sentences, nil
}

func ReadFile(filename string, limit int) ([]*nlp.Lattice, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, limit)
}

// Write outputs one sentence per line
func Write(writer io.Writer, sents [][]string) error {
	for _, sent := range sents {
		if _, err := io.WriteString(writer, strings.Join(sent, " ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}
