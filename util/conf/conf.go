// Package conf reads decoder configuration: the TOML/YAML decoder options and
// the feature setup listing feature functions and their weights.
package conf

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const COMMENT_PREFIX = "#"

// Conf holds the non-comment lines of a moses.ini style file. Lines before
// the first [section] header are kept in Values.
type Conf struct {
	Values   []string
	Sections map[string][]string
	order    []string
}

func (c *Conf) Section(name string) []string {
	return c.Sections[name]
}

// SectionNames returns the sections in file order
func (c *Conf) SectionNames() []string {
	return c.order
}

func Read(reader io.Reader) (*Conf, error) {
	c := &Conf{Sections: make(map[string][]string)}
	current := ""
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, COMMENT_PREFIX) {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			current = strings.TrimSpace(line[1 : len(line)-1])
			if _, exists := c.Sections[current]; !exists {
				c.Sections[current] = nil
				c.order = append(c.order, current)
			}
			continue
		}
		if current == "" {
			c.Values = append(c.Values, line)
		} else {
			c.Sections[current] = append(c.Sections[current], line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading configuration")
	}
	return c, nil
}

func ReadFile(filename string) (*Conf, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening configuration")
	}
	defer file.Close()
	return Read(file)
}
