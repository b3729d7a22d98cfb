package analyzer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"policy-log-analytics/internal/analyzer"
	"policy-log-analytics/internal/model"
)

func TestCountIPs(t *testing.T) {
	counts := analyzer.CountIPs([]string{"10.0.0.1", "10.0.0.2", "10.0.0.1"})
	assert.Equal(t, map[string]int{"10.0.0.1": 2, "10.0.0.2": 1}, counts)

	assert.Empty(t, analyzer.CountIPs(nil))
}

func TestRecurringIPs(t *testing.T) {
	tests := []struct {
		name      string
		counts    map[string]int
		threshold int
		want      []model.IPCount
	}{
		{
			name:      "empty input",
			counts:    map[string]int{},
			threshold: 2,
			want:      []model.IPCount{},
		},
		{
			name:      "count equal to threshold is included",
			counts:    map[string]int{"10.0.0.1": 2, "10.0.0.2": 1},
			threshold: 2,
			want:      []model.IPCount{{IP: "10.0.0.1", Count: 2}},
		},
		{
			name:      "count below threshold is excluded",
			counts:    map[string]int{"10.0.0.1": 2, "10.0.0.2": 3},
			threshold: 3,
			want:      []model.IPCount{{IP: "10.0.0.2", Count: 3}},
		},
		{
			name:      "sorted by count descending then address",
			counts:    map[string]int{"10.0.0.9": 2, "10.0.0.1": 2, "10.0.0.5": 4},
			threshold: 2,
			want: []model.IPCount{
				{IP: "10.0.0.5", Count: 4},
				{IP: "10.0.0.1", Count: 2},
				{IP: "10.0.0.9", Count: 2},
			},
		},
		{
			name:      "non-positive threshold falls back to seen more than once",
			counts:    map[string]int{"10.0.0.1": 2, "10.0.0.2": 1},
			threshold: 0,
			want:      []model.IPCount{{IP: "10.0.0.1", Count: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, analyzer.RecurringIPs(tt.counts, tt.threshold))
		})
	}
}
