package dto

import "time"

type MetricSummaryRequest struct {
	StartTime time.Time
	EndTime   time.Time
	Sources   []string
}

type MetricSummaryResponse struct {
	TotalLogEvents        int64 `json:"totalLogEvents"`
	TotalErrorEvents      int64 `json:"totalErrorEvents"`
	TotalDeploymentEvents int64 `json:"totalDeploymentEvents"`
}

type MetricTimeseriesRequest struct {
	StartTime  time.Time
	EndTime    time.Time
	Sources    []string
	MetricName string // "log_event", "error_event" or "deployment_event"
	Interval   string // e.g. "5 minute", "1 hour"
	GroupBy    string // e.g. "level", "component", "status", "source"
}

type TimeseriesDataPoint struct {
	Timestamp int64 `json:"timestamp"` // Epoch milliseconds
	Value     int64 `json:"value"`
}

type TimeseriesSeries struct {
	Name string                `json:"name"`
	Data []TimeseriesDataPoint `json:"data"`
}

type MetricTimeseriesResponse struct {
	Series []TimeseriesSeries `json:"series"`
}
