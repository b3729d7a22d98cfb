package model

import "time"

// PatternCount maps a regular-expression pattern to the number of records
// whose message matched it.
type PatternCount map[string]int

// Correlation pairs one deployment failure with the error-level records found
// in the preceding window. PrecedingErrors keeps original file order and may
// be empty.
type Correlation struct {
	Failure         LogRecord   `json:"failure"`
	FailureIndex    int         `json:"failure_index"`
	PrecedingErrors []LogRecord `json:"preceding_errors"`
}

// DeploymentSummary aggregates POLICY_DEPLOYMENT events by outcome.
type DeploymentSummary struct {
	Total          int                `json:"total"`
	Completed      int                `json:"completed"`
	Successful     int                `json:"successful"`
	Failed         int                `json:"failed"`
	Pending        int                `json:"pending"`
	SuccessRate    float64            `json:"success_rate"`
	SuccessDetails []LogRecord        `json:"success_details,omitempty"`
	FailedDetails  []LogRecord        `json:"failed_details,omitempty"`
	PendingDetails []LogRecord        `json:"pending_details,omitempty"`
	TopPolicies    []SubjectCount     `json:"top_policies,omitempty"`
	TopDevices     []SubjectCount     `json:"top_devices,omitempty"`
	FailureReasons map[string]int     `json:"failure_reasons,omitempty"`
	PolicyRates    map[string]float64 `json:"policy_success_rates,omitempty"`
	DeviceRates    map[string]float64 `json:"device_success_rates,omitempty"`
}

// SubjectCount ranks a policy or device by deployment count.
type SubjectCount struct {
	ID          string  `json:"id"`
	Count       int     `json:"count"`
	SuccessRate float64 `json:"success_rate"`
}

// IPCount is one client address and how often it appeared.
type IPCount struct {
	IP    string `json:"ip"`
	Count int    `json:"count"`
}

// AnalysisReport is the full output of one analysis run over a record
// sequence. Plain serializable data; presentation belongs to the report
// package and the API layer.
type AnalysisReport struct {
	SourceFile    string            `json:"source_file"`
	GeneratedAt   time.Time         `json:"generated_at"`
	TotalRecords  int               `json:"total_records"`
	FilteredLogs  []LogRecord       `json:"filtered_logs,omitempty"`
	PatternCounts PatternCount      `json:"pattern_counts"`
	Correlations  []Correlation     `json:"correlations"`
	Deployments   DeploymentSummary `json:"deployments"`
	RecurringIPs  []IPCount         `json:"recurring_ips,omitempty"`
}

// Analysis run lifecycle states.
const (
	RunStatusPending  = "PENDING"
	RunStatusRunning  = "RUNNING"
	RunStatusFinished = "FINISHED"
	RunStatusFailed   = "FAILED"
)

// AnalysisRun is the persisted metadata of one on-demand analysis run.
type AnalysisRun struct {
	ID           string     `json:"id" gorm:"primaryKey;size:36"`
	SourceFile   string     `json:"source_file" gorm:"size:512"`
	QueryLogFile string     `json:"query_log_file,omitempty" gorm:"size:512"`
	Status       string     `json:"status" gorm:"size:16;index"`
	Error        string     `json:"error,omitempty" gorm:"type:text"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
}
