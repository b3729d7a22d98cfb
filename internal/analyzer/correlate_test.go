package analyzer_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-log-analytics/internal/analyzer"
	"policy-log-analytics/internal/model"
)

// sequenceWith builds n records, marking the given indices as ERROR level or
// as failed deployments. Messages carry the index so assertions can identify
// records unambiguously.
func sequenceWith(n int, errorAt, failureAt []int) model.RecordSequence {
	records := make(model.RecordSequence, n)
	for i := range records {
		records[i] = model.LogRecord{
			LogLevel: "INFO",
			Message:  fmt.Sprintf("record-%d", i),
		}
	}
	for _, i := range errorAt {
		records[i].LogLevel = "ERROR"
	}
	for _, i := range failureAt {
		records[i].EventType = "POLICY_DEPLOYMENT"
		records[i].Status = "FAILED"
	}
	return records
}

func precedingMessages(c model.Correlation) []string {
	out := make([]string, 0, len(c.PrecedingErrors))
	for _, r := range c.PrecedingErrors {
		out = append(out, r.Message)
	}
	return out
}

func TestCorrelate_ReferenceScenario(t *testing.T) {
	// Errors at 2 and 4, failure at 5, W=5: both errors fall in the window.
	records := sequenceWith(7, []int{2, 4}, []int{5})

	correlations, err := analyzer.Correlate(records, analyzer.FailedDeployment, analyzer.ErrorLevel, 5)
	require.NoError(t, err)
	require.Len(t, correlations, 1)

	assert.Equal(t, 5, correlations[0].FailureIndex)
	assert.Equal(t, []string{"record-2", "record-4"}, precedingMessages(correlations[0]))
}

func TestCorrelate_WindowBound(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		errorAt      []int
		failureAt    []int
		window       int
		expectErrors map[int][]string // failure index -> preceding messages
	}{
		{
			name:         "Error Outside Window Excluded",
			total:        10,
			errorAt:      []int{0, 6},
			failureAt:    []int{8},
			window:       3,
			expectErrors: map[int][]string{8: {"record-6"}},
		},
		{
			name:         "Truncated Window At Start",
			total:        4,
			errorAt:      []int{0},
			failureAt:    []int{1},
			window:       5,
			expectErrors: map[int][]string{1: {"record-0"}},
		},
		{
			name:         "Failure At Index Zero",
			total:        3,
			errorAt:      []int{1},
			failureAt:    []int{0},
			window:       5,
			expectErrors: map[int][]string{0: nil},
		},
		{
			name:         "Never Looks Forward",
			total:        6,
			errorAt:      []int{4, 5},
			failureAt:    []int{3},
			window:       5,
			expectErrors: map[int][]string{3: nil},
		},
		{
			name:         "Zero Window",
			total:        5,
			errorAt:      []int{1, 2},
			failureAt:    []int{3},
			window:       0,
			expectErrors: map[int][]string{3: nil},
		},
		{
			name:         "Overlapping Windows Not Deduplicated",
			total:        8,
			errorAt:      []int{2},
			failureAt:    []int{4, 5},
			window:       5,
			expectErrors: map[int][]string{4: {"record-2"}, 5: {"record-2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := sequenceWith(tt.total, tt.errorAt, tt.failureAt)

			correlations, err := analyzer.Correlate(records, analyzer.FailedDeployment, analyzer.ErrorLevel, tt.window)
			require.NoError(t, err)
			require.Len(t, correlations, len(tt.expectErrors))

			for _, c := range correlations {
				expected, ok := tt.expectErrors[c.FailureIndex]
				require.True(t, ok, "unexpected failure index %d", c.FailureIndex)
				if expected == nil {
					assert.Empty(t, c.PrecedingErrors)
				} else {
					assert.Equal(t, expected, precedingMessages(c))
				}
			}
		})
	}
}

func TestCorrelate_OrderPreservation(t *testing.T) {
	records := sequenceWith(12, []int{1, 3, 5}, []int{6, 9})

	correlations, err := analyzer.Correlate(records, analyzer.FailedDeployment, analyzer.ErrorLevel, 5)
	require.NoError(t, err)
	require.Len(t, correlations, 2)

	// Output sorted by failure index, preceding errors ascending by index.
	assert.Equal(t, 6, correlations[0].FailureIndex)
	assert.Equal(t, 9, correlations[1].FailureIndex)
	assert.Equal(t, []string{"record-1", "record-3", "record-5"}, precedingMessages(correlations[0]))
	assert.Equal(t, []string{"record-5"}, precedingMessages(correlations[1]))
}

func TestCorrelate_Emptiness(t *testing.T) {
	correlations, err := analyzer.Correlate(nil, analyzer.FailedDeployment, analyzer.ErrorLevel, 5)
	require.NoError(t, err)
	assert.Empty(t, correlations)

	// No failures present is a valid, empty result.
	correlations, err = analyzer.Correlate(sequenceWith(5, []int{1}, nil), analyzer.FailedDeployment, analyzer.ErrorLevel, 5)
	require.NoError(t, err)
	assert.Empty(t, correlations)
}

func TestCorrelate_MissingFieldsNeverMatch(t *testing.T) {
	records := model.RecordSequence{
		{Message: "no event_type here"},
		{EventType: "POLICY_DEPLOYMENT", Message: "no status"},
		{Status: "FAILED", Message: "no event_type"},
	}
	correlations, err := analyzer.Correlate(records, analyzer.FailedDeployment, analyzer.ErrorLevel, 5)
	require.NoError(t, err)
	assert.Empty(t, correlations)
}

func TestCorrelate_ConfigErrors(t *testing.T) {
	records := sequenceWith(3, nil, nil)

	_, err := analyzer.Correlate(records, analyzer.FailedDeployment, analyzer.ErrorLevel, -1)
	var cfgErr *analyzer.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "window_size", cfgErr.Option)

	_, err = analyzer.Correlate(records, nil, analyzer.ErrorLevel, 5)
	require.ErrorAs(t, err, &cfgErr)

	_, err = analyzer.Correlate(records, analyzer.FailedDeployment, nil, 5)
	require.ErrorAs(t, err, &cfgErr)
}

func TestCorrelate_DoesNotMutateInput(t *testing.T) {
	records := sequenceWith(6, []int{1}, []int{4})
	snapshot := make(model.RecordSequence, len(records))
	copy(snapshot, records)

	first, err := analyzer.Correlate(records, analyzer.FailedDeployment, analyzer.ErrorLevel, 5)
	require.NoError(t, err)
	second, err := analyzer.Correlate(records, analyzer.FailedDeployment, analyzer.ErrorLevel, 5)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, records)
}
