package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-log-analytics/internal/analyzer"
	"policy-log-analytics/internal/model"
)

func deployment(policy, device, status, message string) model.LogRecord {
	return model.LogRecord{
		EventType: "POLICY_DEPLOYMENT",
		PolicyID:  policy,
		DeviceID:  device,
		Status:    status,
		Message:   message,
	}
}

func TestSummarizeDeployments(t *testing.T) {
	records := model.RecordSequence{
		deployment("POL-1", "DEV-1", "SUCCESS", "deployed"),
		{EventType: "HEARTBEAT", Status: "SUCCESS"}, // not a deployment
		deployment("POL-1", "DEV-2", "FAILED", "Invalid rule syntax near line 4"),
		deployment("POL-2", "DEV-1", "FAILED", "Connection timed out after 30s"),
		deployment("POL-2", "DEV-2", "PENDING", "queued"),
		deployment("POL-1", "DEV-1", "FAILED", "device rebooted unexpectedly"),
	}

	summary := analyzer.SummarizeDeployments(records, analyzer.DefaultFailureReasons, 5, 0)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 4, summary.Completed)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 3, summary.Failed)
	assert.Equal(t, 1, summary.Pending)
	assert.InDelta(t, 25.0, summary.SuccessRate, 0.001)

	assert.Equal(t, map[string]int{
		"Invalid rule syntax":  1,
		"Connection timed out": 1,
		analyzer.ReasonOther:   1,
	}, summary.FailureReasons)

	// POL-1 has 3 deployments (1 success), POL-2 has 2 (0 success).
	require.Len(t, summary.TopPolicies, 2)
	assert.Equal(t, "POL-1", summary.TopPolicies[0].ID)
	assert.Equal(t, 3, summary.TopPolicies[0].Count)
	assert.InDelta(t, 100.0/3.0, summary.TopPolicies[0].SuccessRate, 0.001)
	assert.InDelta(t, 0.0, summary.PolicyRates["POL-2"], 0.001)
}

func TestSummarizeDeployments_NoCompleted(t *testing.T) {
	records := model.RecordSequence{
		deployment("POL-1", "DEV-1", "PENDING", "queued"),
	}
	summary := analyzer.SummarizeDeployments(records, analyzer.DefaultFailureReasons, 5, 0)

	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 0, summary.Completed)
	assert.Zero(t, summary.SuccessRate)
}

func TestSummarizeDeployments_SampleSizeTruncates(t *testing.T) {
	var records model.RecordSequence
	for i := 0; i < 8; i++ {
		records = append(records, deployment("POL-1", "DEV-1", "SUCCESS", "ok"))
	}
	summary := analyzer.SummarizeDeployments(records, nil, 5, 3)

	assert.Equal(t, 8, summary.Successful)
	assert.Len(t, summary.SuccessDetails, 3)
}

func TestSummarizeDeployments_CustomReasonRules(t *testing.T) {
	records := model.RecordSequence{
		deployment("POL-1", "DEV-1", "FAILED", "certificate expired yesterday"),
	}
	summary := analyzer.SummarizeDeployments(records, []string{"certificate expired"}, 5, 0)
	assert.Equal(t, map[string]int{"certificate expired": 1}, summary.FailureReasons)
}

func TestFilterRecords(t *testing.T) {
	records := model.RecordSequence{
		{LogLevel: "ERROR", Component: "PolicyService", Message: "a"},
		{LogLevel: "INFO", Component: "PolicyService", Message: "b"},
		{LogLevel: "WARNING", Component: "NetworkMonitor", Message: "c"},
		{LogLevel: "ERROR", Component: "AuthService", Message: "d"},
	}

	filtered := analyzer.FilterRecords(records, []string{"ERROR", "WARNING"}, []string{"PolicyService", "NetworkMonitor"})
	require.Len(t, filtered, 2)
	assert.Equal(t, "a", filtered[0].Message)
	assert.Equal(t, "c", filtered[1].Message)

	// Empty component set matches every component.
	filtered = analyzer.FilterRecords(records, []string{"ERROR"}, nil)
	require.Len(t, filtered, 2)
	assert.Equal(t, "d", filtered[1].Message)
}

func TestRecurringIPsFromCountedList(t *testing.T) {
	counts := analyzer.CountIPs([]string{
		"192.168.0.1", "10.0.0.9", "192.168.0.1", "172.16.1.5", "10.0.0.9", "192.168.0.1",
	})
	assert.Equal(t, 3, counts["192.168.0.1"])

	recurring := analyzer.RecurringIPs(counts, 1)
	require.Len(t, recurring, 2)
	assert.Equal(t, model.IPCount{IP: "192.168.0.1", Count: 3}, recurring[0])
	assert.Equal(t, model.IPCount{IP: "10.0.0.9", Count: 2}, recurring[1])

	assert.Empty(t, analyzer.RecurringIPs(counts, 10))
	assert.Empty(t, analyzer.RecurringIPs(nil, 0))
}

func TestNew_ValidatesOptions(t *testing.T) {
	_, err := analyzer.New(analyzer.Options{WindowSize: -2})
	var cfgErr *analyzer.ConfigError
	require.ErrorAs(t, err, &cfgErr)

	_, err = analyzer.New(analyzer.Options{Patterns: []string{")bad"}})
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "pattern", cfgErr.Option)
}

func TestAnalyze_FullReport(t *testing.T) {
	a, err := analyzer.New(analyzer.Options{
		WindowSize:       5,
		Patterns:         []string{"connection timeout"},
		FilterLevels:     []string{"ERROR", "WARNING"},
		FilterComponents: []string{"PolicyService", "NetworkMonitor"},
		TopN:             5,
		SampleSize:       5,
	})
	require.NoError(t, err)

	records := model.RecordSequence{
		{LogLevel: "ERROR", Component: "NetworkMonitor", Message: "connection timeout on eth0"},
		{LogLevel: "INFO", Component: "PolicyService", Message: "deploy requested"},
		deployment("POL-9", "DEV-3", "FAILED", "Connection timed out after 30s"),
	}
	records[2].LogLevel = "ERROR"
	records[2].Component = "PolicyService"

	report := a.Analyze(records, "application_logs.csv")

	assert.Equal(t, "application_logs.csv", report.SourceFile)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 1, report.PatternCounts["connection timeout"])
	require.Len(t, report.Correlations, 1)
	assert.Equal(t, 2, report.Correlations[0].FailureIndex)
	require.Len(t, report.Correlations[0].PrecedingErrors, 1)
	assert.Equal(t, 1, report.Deployments.Failed)
	assert.Len(t, report.FilteredLogs, 2)
}
