package util

import (
	"fmt"
	"strconv"
	"time"
)

// ParseTimeFlexible accepts ISO 8601 (with or without sub-second precision)
// or epoch milliseconds, always returning UTC.
func ParseTimeFlexible(timeStr string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err == nil {
		return t.UTC(), nil
	}
	t, err = time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t.UTC(), nil
	}

	ms, err := strconv.ParseInt(timeStr, 10, 64)
	if err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}

	return time.Time{}, fmt.Errorf("invalid time format: %s", timeStr)
}

// recordLayouts are the timestamp shapes seen in CSV log exports, tried after
// the flexible formats above.
var recordLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
}

// ParseRecordTimestamp parses the opaque timestamp of a log record. Returns
// an error when no layout matches; callers decide the fallback since record
// timestamps are never a reason to fail a run.
func ParseRecordTimestamp(timeStr string) (time.Time, error) {
	if t, err := ParseTimeFlexible(timeStr); err == nil {
		return t, nil
	}
	for _, layout := range recordLayouts {
		if t, err := time.Parse(layout, timeStr); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized record timestamp: %s", timeStr)
}
