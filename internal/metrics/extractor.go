package metrics

import (
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/util"
)

// Extractor converts ingested records into time-series metric events for
// TimescaleDB.
type Extractor interface {
	ExtractMetricEvents(record *model.LogRecord) []model.MetricEvent
}

type recordExtractor struct {
	errorishRegex *regexp.Regexp
}

func NewRecordExtractor() Extractor {
	return &recordExtractor{
		errorishRegex: regexp.MustCompile(`(?i)(exception|error|fail|timed out)`),
	}
}

func (e *recordExtractor) ExtractMetricEvents(record *model.LogRecord) []model.MetricEvent {
	if record == nil {
		return nil
	}

	ts, err := util.ParseRecordTimestamp(record.Timestamp)
	parseFailed := err != nil
	if parseFailed {
		ts = time.Now().UTC()
	}

	events := make([]model.MetricEvent, 0, 3)
	source := record.SourceFile

	logEventTags := map[string]string{
		"level":     record.LogLevel,
		"component": record.Component,
	}
	if parseFailed {
		logEventTags["parse_status"] = "timestamp_unparsed"
	}
	events = append(events, model.MetricEvent{
		Time:       ts,
		MetricName: "log_event",
		Source:     source,
		Tags:       logEventTags,
	})

	isError := record.LogLevel == "ERROR"
	if !isError && e.errorishRegex.MatchString(record.Message) {
		isError = true
	}
	if isError {
		events = append(events, model.MetricEvent{
			Time:       ts,
			MetricName: "error_event",
			Source:     source,
			Tags: map[string]string{
				"component": record.Component,
				"level":     record.LogLevel,
			},
		})
	}

	if record.EventType == "POLICY_DEPLOYMENT" {
		events = append(events, model.MetricEvent{
			Time:       ts,
			MetricName: "deployment_event",
			Source:     source,
			Tags: map[string]string{
				"status":    record.Status,
				"policy_id": record.PolicyID,
				"device_id": record.DeviceID,
			},
		})
	}

	log.Trace().Str("source", source).Int("event_count", len(events)).Msg("Extracted metric events")
	return events
}
