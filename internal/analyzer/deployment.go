package analyzer

import (
	"sort"
	"strings"

	"policy-log-analytics/internal/model"
)

// Historical failure-reason rules; first matching substring wins, anything
// else lands in ReasonOther.
var DefaultFailureReasons = []string{
	"Invalid rule syntax",
	"Connection timed out",
}

// ReasonOther buckets failures matched by no classifier rule.
const ReasonOther = "Other"

// SummarizeDeployments filters POLICY_DEPLOYMENT events out of the sequence
// and buckets them by status. reasons are substring classifier rules for
// failed deployments; topN bounds the per-policy/per-device rankings and
// sampleSize bounds the detail lists (<= 0 keeps everything).
func SummarizeDeployments(records model.RecordSequence, reasons []string, topN, sampleSize int) model.DeploymentSummary {
	summary := model.DeploymentSummary{
		FailureReasons: make(map[string]int),
		PolicyRates:    make(map[string]float64),
		DeviceRates:    make(map[string]float64),
	}

	policyCounts := make(map[string]int)
	policySuccess := make(map[string]int)
	deviceCounts := make(map[string]int)
	deviceSuccess := make(map[string]int)

	for i := range records {
		r := &records[i]
		if r.EventType != "POLICY_DEPLOYMENT" {
			continue
		}
		summary.Total++
		policyCounts[r.PolicyID]++
		deviceCounts[r.DeviceID]++

		switch r.Status {
		case "SUCCESS":
			summary.Successful++
			policySuccess[r.PolicyID]++
			deviceSuccess[r.DeviceID]++
			summary.SuccessDetails = append(summary.SuccessDetails, *r)
		case "FAILED":
			summary.Failed++
			summary.FailureReasons[classifyFailure(r.Message, reasons)]++
			summary.FailedDetails = append(summary.FailedDetails, *r)
		case "PENDING":
			summary.Pending++
			summary.PendingDetails = append(summary.PendingDetails, *r)
		}
	}

	summary.Completed = summary.Successful + summary.Failed
	if summary.Completed > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.Completed) * 100
	}

	for id, n := range policyCounts {
		summary.PolicyRates[id] = float64(policySuccess[id]) / float64(n) * 100
	}
	for id, n := range deviceCounts {
		summary.DeviceRates[id] = float64(deviceSuccess[id]) / float64(n) * 100
	}
	summary.TopPolicies = rankSubjects(policyCounts, summary.PolicyRates, topN)
	summary.TopDevices = rankSubjects(deviceCounts, summary.DeviceRates, topN)

	if sampleSize > 0 {
		summary.SuccessDetails = truncateRecords(summary.SuccessDetails, sampleSize)
		summary.FailedDetails = truncateRecords(summary.FailedDetails, sampleSize)
		summary.PendingDetails = truncateRecords(summary.PendingDetails, sampleSize)
	}
	return summary
}

func classifyFailure(message string, reasons []string) string {
	for _, reason := range reasons {
		if strings.Contains(message, reason) {
			return reason
		}
	}
	return ReasonOther
}

// rankSubjects orders by count descending, ties broken by ID for determinism.
func rankSubjects(counts map[string]int, rates map[string]float64, topN int) []model.SubjectCount {
	ranked := make([]model.SubjectCount, 0, len(counts))
	for id, n := range counts {
		ranked = append(ranked, model.SubjectCount{ID: id, Count: n, SuccessRate: rates[id]})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].ID < ranked[j].ID
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

func truncateRecords(records []model.LogRecord, n int) []model.LogRecord {
	if len(records) <= n {
		return records
	}
	return records[:n]
}
