package ff

import "fmt"

// ConfigError reports an unrecognized or malformed configuration key. It is
// fatal at startup.
type ConfigError struct {
	Function string
	Key      string
	Value    string
	Reason   string
}

func (e *ConfigError) Error() string {
	switch {
	case e.Key != "" && e.Function != "":
		return fmt.Sprintf("config error in %s: %s=%q: %s", e.Function, e.Key, e.Value, e.Reason)
	case e.Key != "":
		return fmt.Sprintf("config error: %s=%q: %s", e.Key, e.Value, e.Reason)
	case e.Function != "":
		return fmt.Sprintf("config error in %s: %s", e.Function, e.Reason)
	default:
		return "config error: " + e.Reason
	}
}

// InvariantViolation reports a broken registry invariant (singleton
// cardinality, duplicate names, slot overlap). It is fatal at startup.
type InvariantViolation struct {
	Function string
	Reason   string
}

func (e *InvariantViolation) Error() string {
	if e.Function == "" {
		return "invariant violation: " + e.Reason
	}
	return fmt.Sprintf("invariant violation in %s: %s", e.Function, e.Reason)
}

// EvaluationError reports malformed data met while scoring an edge. It fails
// the decoding of the current sentence.
type EvaluationError struct {
	Function string
	Reason   string
	Err      error
}

func (e *EvaluationError) Error() string {
	msg := fmt.Sprintf("evaluation error in %s: %s", e.Function, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

func unknownParameter(f string, key, value string) error {
	return &ConfigError{Function: f, Key: key, Value: value, Reason: "unknown parameter"}
}

func badValue(f string, key, value string, err error) error {
	return &ConfigError{Function: f, Key: key, Value: value, Reason: err.Error()}
}
