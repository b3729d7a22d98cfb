package analyzer

import "fmt"

// ConfigError reports invalid caller-supplied configuration: a malformed
// pattern or a negative correlation window. Data-shape problems on individual
// records are never escalated to errors.
type ConfigError struct {
	Option string
	Value  string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analyzer config: %s %q: %v", e.Option, e.Value, e.Err)
	}
	return fmt.Sprintf("analyzer config: %s %q", e.Option, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
