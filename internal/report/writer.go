// Package report renders an AnalysisReport as the human-readable console
// summary. All presentation (percentages, truncation to "first N") lives
// here; the analyzer only produces plain data.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"policy-log-analytics/internal/model"
)

const (
	maxFilteredShown     = 10
	maxCorrelationsShown = 5
)

// Write renders the full report to w.
func Write(w io.Writer, r *model.AnalysisReport) {
	fmt.Fprintf(w, "Total logs read: %d\n", r.TotalRecords)

	if r.FilteredLogs != nil {
		writeFiltered(w, r.FilteredLogs)
	}
	writePatternCounts(w, r.PatternCounts)
	writeCorrelations(w, r.Correlations)
	writeDeployments(w, &r.Deployments)
	if r.RecurringIPs != nil {
		WriteRecurringIPs(w, r.RecurringIPs)
	}
}

func writeFiltered(w io.Writer, filtered []model.LogRecord) {
	fmt.Fprintf(w, "\n--- Filtered Logs (%d) ---\n", len(filtered))
	for i, r := range filtered {
		if i >= maxFilteredShown {
			fmt.Fprintf(w, "... and %d more\n", len(filtered)-maxFilteredShown)
			break
		}
		fmt.Fprintf(w, "%s | %s | %s | %s\n", r.Timestamp, r.LogLevel, r.Component, r.Message)
	}
}

func writePatternCounts(w io.Writer, counts model.PatternCount) {
	fmt.Fprintln(w, "\n--- Error/Warning Counts by Pattern ---")
	for _, pattern := range sortedKeys(counts) {
		fmt.Fprintf(w, "Pattern '%s': %d occurrences\n", pattern, counts[pattern])
	}
}

func writeCorrelations(w io.Writer, correlations []model.Correlation) {
	shown := len(correlations)
	if shown > maxCorrelationsShown {
		shown = maxCorrelationsShown
	}
	fmt.Fprintf(w, "\n--- POLICY_DEPLOYMENT Failure Correlations (showing first %d of %d) ---\n", shown, len(correlations))
	for i := 0; i < shown; i++ {
		c := correlations[i]
		fmt.Fprintf(w, "Failure #%d: %s - %s\n", i+1, c.Failure.Timestamp, c.Failure.Message)
		fmt.Fprintln(w, "Preceding ERROR logs:")
		for _, e := range c.PrecedingErrors {
			fmt.Fprintf(w, "  - %s | %s | %s\n", e.Timestamp, e.Component, e.Message)
		}
		fmt.Fprintln(w)
	}
	if len(correlations) > maxCorrelationsShown {
		fmt.Fprintf(w, "... and %d more policy deployment failures with correlations\n", len(correlations)-maxCorrelationsShown)
	}
}

func writeDeployments(w io.Writer, s *model.DeploymentSummary) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(w, "\n%s\nPOLICY DEPLOYMENT ANALYSIS SUMMARY\n%s\n", rule, rule)
	fmt.Fprintf(w, "Total Policy Deployment Events: %d\n", s.Total)
	fmt.Fprintf(w, "Completed Deployments (Success + Failed): %d\n", s.Completed)
	fmt.Fprintf(w, "Successful Deployments: %d\n", s.Successful)
	fmt.Fprintf(w, "Failed Deployments: %d\n", s.Failed)
	fmt.Fprintf(w, "Pending Deployments: %d\n", s.Pending)
	fmt.Fprintf(w, "Success Rate (of completed): %.1f%%\n", s.SuccessRate)

	if len(s.TopPolicies) > 0 {
		fmt.Fprintln(w, "\nTOP POLICIES BY DEPLOYMENT COUNT:")
		for _, p := range s.TopPolicies {
			fmt.Fprintf(w, "Policy %s: %d deployments (%.1f%% success rate)\n", p.ID, p.Count, p.SuccessRate)
		}
	}
	if len(s.TopDevices) > 0 {
		fmt.Fprintln(w, "\nTOP DEVICES BY DEPLOYMENT COUNT:")
		for _, d := range s.TopDevices {
			fmt.Fprintf(w, "Device %s: %d deployments (%.1f%% success rate)\n", d.ID, d.Count, d.SuccessRate)
		}
	}
	if len(s.FailureReasons) > 0 {
		fmt.Fprintln(w, "\nFAILURE REASONS:")
		for _, reason := range sortedKeys(s.FailureReasons) {
			count := s.FailureReasons[reason]
			pct := 0.0
			if s.Failed > 0 {
				pct = float64(count) / float64(s.Failed) * 100
			}
			fmt.Fprintf(w, "%s: %d failures (%.1f%%)\n", reason, count, pct)
		}
	}
}

// WriteRecurringIPs renders the query-log recurrence section, also used on
// its own by the one-shot IP scan.
func WriteRecurringIPs(w io.Writer, ips []model.IPCount) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintf(w, "\n%s\nSUSPICIOUS IP ADDRESSES (appearing more than once):\n%s\n", rule, rule)
	if len(ips) == 0 {
		fmt.Fprintln(w, "No IP addresses found with multiple occurrences.")
		return
	}
	for _, ip := range ips {
		fmt.Fprintf(w, "IP: %-15s | Count: %d times\n", ip.IP, ip.Count)
	}
	fmt.Fprintf(w, "%s\nTotal suspicious IPs: %d\n", rule, len(ips))
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
