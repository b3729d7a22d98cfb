package analyzer

import (
	"strconv"

	"policy-log-analytics/internal/model"
)

// DefaultWindowSize is the number of preceding records inspected when
// correlating a deployment failure.
const DefaultWindowSize = 5

// Predicate tests one record. Predicates must treat missing fields as
// non-matching, which the defaults below do for free since absent fields are
// empty strings.
type Predicate func(r *model.LogRecord) bool

// FailedDeployment matches the reference failure shape:
// event_type POLICY_DEPLOYMENT with status FAILED.
func FailedDeployment(r *model.LogRecord) bool {
	return r.EventType == "POLICY_DEPLOYMENT" && r.Status == "FAILED"
}

// ErrorLevel matches records logged at ERROR level.
func ErrorLevel(r *model.LogRecord) bool {
	return r.LogLevel == "ERROR"
}

// Correlate pairs every record satisfying failure with the records satisfying
// isError inside the immediately preceding window of size w. Output order
// follows failure order in the input; each preceding-errors list keeps original
// file order. Windows never look forward, truncate at index 0, and overlapping
// windows for nearby failures are intentionally not merged.
//
// A negative w, or a nil predicate, is a ConfigError. Zero failures yield an
// empty slice, and w == 0 yields failures with empty preceding-errors lists.
func Correlate(records model.RecordSequence, failure, isError Predicate, w int) ([]model.Correlation, error) {
	if w < 0 {
		return nil, &ConfigError{Option: "window_size", Value: strconv.Itoa(w)}
	}
	if failure == nil {
		return nil, &ConfigError{Option: "failure_predicate", Value: "nil"}
	}
	if isError == nil {
		return nil, &ConfigError{Option: "error_predicate", Value: "nil"}
	}

	correlations := make([]model.Correlation, 0)
	for i := range records {
		if !failure(&records[i]) {
			continue
		}
		start := i - w
		if start < 0 {
			start = 0
		}
		var preceding []model.LogRecord
		for j := start; j < i; j++ {
			if isError(&records[j]) {
				preceding = append(preceding, records[j])
			}
		}
		correlations = append(correlations, model.Correlation{
			Failure:         records[i],
			FailureIndex:    i,
			PrecedingErrors: preceding,
		})
	}
	return correlations, nil
}
