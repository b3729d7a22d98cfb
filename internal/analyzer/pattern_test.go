package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-log-analytics/internal/analyzer"
	"policy-log-analytics/internal/model"
)

func messageRecords(messages ...string) model.RecordSequence {
	records := make(model.RecordSequence, 0, len(messages))
	for _, m := range messages {
		records = append(records, model.LogRecord{Message: m})
	}
	return records
}

func TestPatternSet_Count(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		messages []string
		expected map[string]int
	}{
		{
			name:     "Case Insensitive Match",
			patterns: []string{"connection timeout"},
			messages: []string{"Connection timeout occurred", "All good", "connection TIMEOUT again"},
			expected: map[string]int{"connection timeout": 2},
		},
		{
			name:     "One Message Increments Multiple Patterns",
			patterns: []string{"disk", "space"},
			messages: []string{"disk space low"},
			expected: map[string]int{"disk": 1, "space": 1},
		},
		{
			name:     "Empty Pattern List",
			patterns: nil,
			messages: []string{"anything"},
			expected: map[string]int{},
		},
		{
			name:     "Empty Sequence",
			patterns: []string{"authentication failed"},
			messages: nil,
			expected: map[string]int{"authentication failed": 0},
		},
		{
			name:     "Missing Message Matches Nothing",
			patterns: []string{"timeout"},
			messages: []string{""},
			expected: map[string]int{"timeout": 0},
		},
		{
			name:     "Regex Syntax Is Honoured",
			patterns: []string{`POLICY_DEPLOYMENT\s+failed`},
			messages: []string{"POLICY_DEPLOYMENT failed on fw-01", "policy_deployment  FAILED"},
			expected: map[string]int{`POLICY_DEPLOYMENT\s+failed`: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set, err := analyzer.NewPatternSet(tt.patterns)
			require.NoError(t, err)

			counts := set.Count(messageRecords(tt.messages...))
			assert.Equal(t, model.PatternCount(tt.expected), counts)
		})
	}
}

func TestPatternSet_InvalidPattern(t *testing.T) {
	_, err := analyzer.NewPatternSet([]string{"valid", "(unclosed"})
	require.Error(t, err)

	var cfgErr *analyzer.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "pattern", cfgErr.Option)
	assert.Equal(t, "(unclosed", cfgErr.Value)
}

// Count conservation: per-pattern totals equal a direct tally over the input.
func TestPatternSet_CountConservation(t *testing.T) {
	messages := []string{
		"authentication failed for admin",
		"nothing to see",
		"Authentication FAILED for root",
		"connection timeout",
		"authentication failed again",
	}
	set, err := analyzer.NewPatternSet([]string{"authentication failed"})
	require.NoError(t, err)

	counts := set.Count(messageRecords(messages...))
	assert.Equal(t, 3, counts["authentication failed"])
}

func TestPatternSet_Idempotence(t *testing.T) {
	records := messageRecords("connection timeout", "disk space low", "connection timeout")
	set, err := analyzer.NewPatternSet([]string{"connection timeout", "disk space low"})
	require.NoError(t, err)

	first := set.Count(records)
	second := set.Count(records)
	assert.Equal(t, first, second)
}
