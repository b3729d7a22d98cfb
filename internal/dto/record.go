package dto

import "policy-log-analytics/internal/model"

// RecordSearchRequest filters indexed records. Record timestamps are opaque
// strings from the source file, so filtering is by level/source/free text
// rather than a parsed time range.
type RecordSearchRequest struct {
	Query     string
	Levels    []string
	Sources   []string
	SortBy    string
	SortOrder string
	Page      int
	Size      int
}

type RecordSearchResponse struct {
	Records    []model.LogRecord `json:"records"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
}
