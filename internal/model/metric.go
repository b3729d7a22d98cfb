package model

import "time"

// MetricEvent is one time-series point derived from ingested records, stored
// in TimescaleDB.
type MetricEvent struct {
	Time       time.Time         `json:"time"`
	MetricName string            `json:"metric_name"`
	Source     string            `json:"source"`
	Tags       map[string]string `json:"tags"`
}
