package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-log-analytics/internal/metrics"
	"policy-log-analytics/internal/model"
)

func TestRecordExtractor(t *testing.T) {
	extractor := metrics.NewRecordExtractor()

	tests := []struct {
		name        string
		record      *model.LogRecord
		wantMetrics []string
	}{
		{
			name: "Plain Info Record",
			record: &model.LogRecord{
				Timestamp: "2024-03-01T10:00:00Z",
				LogLevel:  "INFO",
				Component: "PolicyService",
				Message:   "all good",
			},
			wantMetrics: []string{"log_event"},
		},
		{
			name: "Error Level",
			record: &model.LogRecord{
				Timestamp: "2024-03-01T10:00:00Z",
				LogLevel:  "ERROR",
				Message:   "boom",
			},
			wantMetrics: []string{"log_event", "error_event"},
		},
		{
			name: "Errorish Message At Info Level",
			record: &model.LogRecord{
				Timestamp: "2024-03-01 10:00:00",
				LogLevel:  "INFO",
				Message:   "request timed out",
			},
			wantMetrics: []string{"log_event", "error_event"},
		},
		{
			name: "Failed Deployment",
			record: &model.LogRecord{
				Timestamp: "2024-03-01T10:00:00Z",
				LogLevel:  "ERROR",
				EventType: "POLICY_DEPLOYMENT",
				Status:    "FAILED",
				PolicyID:  "POL-1",
				Message:   "Connection timed out",
			},
			wantMetrics: []string{"log_event", "error_event", "deployment_event"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := extractor.ExtractMetricEvents(tt.record)
			require.Len(t, events, len(tt.wantMetrics))
			for i, name := range tt.wantMetrics {
				assert.Equal(t, name, events[i].MetricName)
			}
		})
	}

	assert.Nil(t, extractor.ExtractMetricEvents(nil))
}

func TestRecordExtractor_UnparsedTimestamp(t *testing.T) {
	events := metrics.NewRecordExtractor().ExtractMetricEvents(&model.LogRecord{
		Timestamp: "not a time",
		LogLevel:  "INFO",
	})
	require.NotEmpty(t, events)
	assert.Equal(t, "timestamp_unparsed", events[0].Tags["parse_status"])
	assert.False(t, events[0].Time.IsZero())
}
