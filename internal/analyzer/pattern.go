package analyzer

import (
	"regexp"

	"policy-log-analytics/internal/model"
)

// PatternSet holds a fixed set of message patterns, compiled once for
// case-insensitive matching. Results are keyed by the original pattern string.
type PatternSet struct {
	patterns []string
	compiled []*regexp.Regexp
}

// NewPatternSet compiles the given regular expressions. A malformed pattern
// fails fast with a ConfigError naming the offending pattern; it is never
// silently skipped.
func NewPatternSet(patterns []string) (*PatternSet, error) {
	set := &PatternSet{
		patterns: make([]string, 0, len(patterns)),
		compiled: make([]*regexp.Regexp, 0, len(patterns)),
	}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, &ConfigError{Option: "pattern", Value: p, Err: err}
		}
		set.patterns = append(set.patterns, p)
		set.compiled = append(set.compiled, re)
	}
	return set, nil
}

// Patterns returns the pattern strings in their original order.
func (s *PatternSet) Patterns() []string {
	out := make([]string, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Count scans the sequence once and tallies, per pattern, how many records
// have a matching message. Patterns are tested independently: one message may
// increment several counters. A missing message is an empty string and simply
// matches nothing.
func (s *PatternSet) Count(records model.RecordSequence) model.PatternCount {
	counts := make(model.PatternCount, len(s.patterns))
	for i := range s.patterns {
		counts[s.patterns[i]] = 0
	}
	for ri := range records {
		msg := records[ri].Message
		for pi, re := range s.compiled {
			if re.MatchString(msg) {
				counts[s.patterns[pi]]++
			}
		}
	}
	return counts
}
