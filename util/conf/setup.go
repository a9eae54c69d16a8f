package conf

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	FEATURE_SECTION = "feature"
	WEIGHT_SECTION  = "weight"
)

// FeatureSetup lists the feature functions of a decoder, one configuration
// line each, in registration order, and their weights by function name.
// Sparse weights are keyed <function>_<component>.
type FeatureSetup struct {
	Features      []string             `yaml:"features"`
	Weights       map[string][]float64 `yaml:"weights"`
	SparseWeights map[string]float64   `yaml:"sparse weights"`
}

// WeightLines renders the weights as "<name>= w1 w2 ..." lines, sorted by name
func (s *FeatureSetup) WeightLines() []string {
	lines := make([]string, 0, len(s.Weights)+len(s.SparseWeights))
	for name, values := range s.Weights {
		strs := make([]string, len(values))
		for i, v := range values {
			strs[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		lines = append(lines, name+"= "+strings.Join(strs, " "))
	}
	for name, value := range s.SparseWeights {
		lines = append(lines, name+"= "+strconv.FormatFloat(value, 'g', -1, 64))
	}
	sort.Strings(lines)
	return lines
}

func LoadFeatureConf(data []byte) (*FeatureSetup, error) {
	setup := new(FeatureSetup)
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(setup); err != nil {
		return nil, errors.Wrap(err, "parsing feature setup")
	}
	return setup, nil
}

// LoadMosesConf reads the [feature] and [weight] sections of a moses.ini
// style file
func LoadMosesConf(c *Conf) (*FeatureSetup, error) {
	setup := &FeatureSetup{
		Features: append([]string(nil), c.Section(FEATURE_SECTION)...),
		Weights:  make(map[string][]float64),
	}
	for _, line := range c.Section(WEIGHT_SECTION) {
		name, rest, found := strings.Cut(line, "=")
		name = strings.TrimSpace(name)
		if !found || len(name) == 0 {
			return nil, fmt.Errorf("malformed weight line %q", line)
		}
		fields := strings.Fields(rest)
		values := make([]float64, len(fields))
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "weight of %s", name)
			}
			values[i] = v
		}
		setup.Weights[name] = values
	}
	return setup, nil
}

// LoadFeatureConfFile reads a YAML feature setup, or a moses.ini style one
// for any other extension
func LoadFeatureConfFile(filename string) (*FeatureSetup, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(filename)
		if err != nil {
			return nil, errors.Wrap(err, "reading feature setup")
		}
		return LoadFeatureConf(data)
	default:
		c, err := ReadFile(filename)
		if err != nil {
			return nil, err
		}
		return LoadMosesConf(c)
	}
}
