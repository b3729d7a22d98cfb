package dto

import "policy-log-analytics/internal/model"

type AnalysisRunRequest struct {
	SourceFile string `json:"sourceFile" binding:"required"`
	// QueryLogFile optionally adds the recurring-IP scan to the run.
	QueryLogFile string `json:"queryLogFile,omitempty"`
}

type AnalysisRunResponse struct {
	Run    model.AnalysisRun     `json:"run"`
	Report *model.AnalysisReport `json:"report,omitempty"`
}
