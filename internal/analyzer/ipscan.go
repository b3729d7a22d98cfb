package analyzer

import (
	"sort"

	"policy-log-analytics/internal/model"
)

// CountIPs tallies occurrences of each client address.
func CountIPs(ips []string) map[string]int {
	counts := make(map[string]int, len(ips))
	for _, ip := range ips {
		counts[ip]++
	}
	return counts
}

// RecurringIPs returns addresses seen at least threshold times, most
// frequent first, ties broken by address for determinism. threshold <= 0
// falls back to the historical "more than once" rule.
func RecurringIPs(counts map[string]int, threshold int) []model.IPCount {
	if threshold <= 0 {
		threshold = 2
	}
	recurring := make([]model.IPCount, 0)
	for ip, n := range counts {
		if n >= threshold {
			recurring = append(recurring, model.IPCount{IP: ip, Count: n})
		}
	}
	sort.Slice(recurring, func(i, j int) bool {
		if recurring[i].Count != recurring[j].Count {
			return recurring[i].Count > recurring[j].Count
		}
		return recurring[i].IP < recurring[j].IP
	})
	return recurring
}
