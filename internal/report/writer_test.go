package report_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/report"
)

func TestWrite(t *testing.T) {
	r := &model.AnalysisReport{
		TotalRecords: 7,
		FilteredLogs: []model.LogRecord{
			{Timestamp: "t1", LogLevel: "ERROR", Component: "PolicyService", Message: "boom"},
		},
		PatternCounts: model.PatternCount{"connection timeout": 2, "authentication failed": 0},
		Correlations: []model.Correlation{
			{
				Failure:      model.LogRecord{Timestamp: "t5", Message: "POLICY_DEPLOYMENT failed"},
				FailureIndex: 5,
				PrecedingErrors: []model.LogRecord{
					{Timestamp: "t2", Component: "NetworkMonitor", Message: "link down"},
				},
			},
		},
		Deployments: model.DeploymentSummary{
			Total: 3, Completed: 2, Successful: 1, Failed: 1, Pending: 1,
			SuccessRate:    50,
			FailureReasons: map[string]int{"Connection timed out": 1},
			TopPolicies:    []model.SubjectCount{{ID: "POL-1", Count: 3, SuccessRate: 33.3}},
		},
	}

	var buf bytes.Buffer
	report.Write(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "Total logs read: 7")
	assert.Contains(t, out, "Pattern 'connection timeout': 2 occurrences")
	assert.Contains(t, out, "Pattern 'authentication failed': 0 occurrences")
	assert.Contains(t, out, "Failure #1: t5 - POLICY_DEPLOYMENT failed")
	assert.Contains(t, out, "  - t2 | NetworkMonitor | link down")
	assert.Contains(t, out, "Success Rate (of completed): 50.0%")
	assert.Contains(t, out, "Connection timed out: 1 failures (100.0%)")
	assert.Contains(t, out, "Policy POL-1: 3 deployments (33.3% success rate)")
}

func TestWriteRecurringIPs(t *testing.T) {
	var buf bytes.Buffer
	report.WriteRecurringIPs(&buf, []model.IPCount{{IP: "192.168.0.1", Count: 3}})
	assert.Contains(t, buf.String(), "IP: 192.168.0.1     | Count: 3 times")
	assert.Contains(t, buf.String(), "Total suspicious IPs: 1")

	buf.Reset()
	report.WriteRecurringIPs(&buf, nil)
	assert.Contains(t, buf.String(), "No IP addresses found")
}
