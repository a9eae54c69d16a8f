package ff

import (
	"fmt"
	"strings"
)

const (
	KIND_SEPARATOR  = ":"
	PARAM_SEPARATOR = "="
)

// Param is one key=value pair of a feature line, kept in line order
type Param struct {
	Key, Value string
}

// Line is a parsed feature configuration line
type Line struct {
	Kind   string
	Params []Param
}

// ParseLine parses "<Kind>: key=value key=value ...". The colon is optional,
// so moses.ini style lines ("InputFeature num-input-features=1") parse too.
func ParseLine(line string) (*Line, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, &ConfigError{Reason: "empty feature line"}
	}
	kind := fields[0]
	rest := fields[1:]
	if idx := strings.Index(kind, KIND_SEPARATOR); idx >= 0 {
		// "Kind:key=value" is accepted as well as "Kind: key=value"
		if tail := kind[idx+1:]; len(tail) > 0 {
			rest = append([]string{tail}, rest...)
		}
		kind = kind[:idx]
	} else if len(rest) > 0 && rest[0] == KIND_SEPARATOR {
		rest = rest[1:]
	}
	if len(kind) == 0 || strings.Contains(kind, PARAM_SEPARATOR) {
		return nil, &ConfigError{Reason: fmt.Sprintf("missing feature kind in line %q", line)}
	}
	parsed := &Line{Kind: kind, Params: make([]Param, 0, len(rest))}
	for _, field := range rest {
		key, value, found := strings.Cut(field, PARAM_SEPARATOR)
		if !found || len(key) == 0 {
			return nil, &ConfigError{Function: kind, Key: field, Reason: "expected key=value"}
		}
		parsed.Params = append(parsed.Params, Param{key, value})
	}
	return parsed, nil
}

func (l *Line) String() string {
	strs := make([]string, len(l.Params))
	for i, p := range l.Params {
		strs[i] = p.Key + PARAM_SEPARATOR + p.Value
	}
	if len(strs) == 0 {
		return l.Kind
	}
	return l.Kind + KIND_SEPARATOR + " " + strings.Join(strs, " ")
}
