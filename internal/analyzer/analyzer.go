package analyzer

import (
	"strconv"
	"time"

	"policy-log-analytics/internal/model"
)

// Analyzer runs the full analysis suite over one record sequence. All knobs
// come from Options; the same instance serves any number of runs and holds no
// per-run state.
type Analyzer interface {
	Analyze(records model.RecordSequence, sourceFile string) *model.AnalysisReport
	CountPatterns(records model.RecordSequence) model.PatternCount
	Correlate(records model.RecordSequence) []model.Correlation
}

// Options is the explicit configuration object replacing the per-script
// constants of older report tooling.
type Options struct {
	WindowSize          int
	Patterns            []string
	FailurePredicate    Predicate
	ErrorPredicate      Predicate
	FilterLevels        []string
	FilterComponents    []string
	FailureReasonRules  []string
	TopN                int
	SampleSize          int
	RecurrenceThreshold int
}

type suite struct {
	opts     Options
	patterns *PatternSet
}

// New validates the options and compiles the pattern set. Invalid patterns
// and a negative window size surface as *ConfigError; unset predicates and
// classifier rules fall back to the reference defaults.
func New(opts Options) (Analyzer, error) {
	if opts.WindowSize < 0 {
		return nil, &ConfigError{Option: "window_size", Value: strconv.Itoa(opts.WindowSize)}
	}
	if opts.FailurePredicate == nil {
		opts.FailurePredicate = FailedDeployment
	}
	if opts.ErrorPredicate == nil {
		opts.ErrorPredicate = ErrorLevel
	}
	if opts.FailureReasonRules == nil {
		opts.FailureReasonRules = DefaultFailureReasons
	}
	set, err := NewPatternSet(opts.Patterns)
	if err != nil {
		return nil, err
	}
	return &suite{opts: opts, patterns: set}, nil
}

func (s *suite) Analyze(records model.RecordSequence, sourceFile string) *model.AnalysisReport {
	report := &model.AnalysisReport{
		SourceFile:    sourceFile,
		GeneratedAt:   time.Now().UTC(),
		TotalRecords:  len(records),
		PatternCounts: s.patterns.Count(records),
		Correlations:  s.Correlate(records),
		Deployments:   SummarizeDeployments(records, s.opts.FailureReasonRules, s.opts.TopN, s.opts.SampleSize),
	}
	if len(s.opts.FilterLevels) > 0 || len(s.opts.FilterComponents) > 0 {
		report.FilteredLogs = FilterRecords(records, s.opts.FilterLevels, s.opts.FilterComponents)
	}
	return report
}

func (s *suite) CountPatterns(records model.RecordSequence) model.PatternCount {
	return s.patterns.Count(records)
}

func (s *suite) Correlate(records model.RecordSequence) []model.Correlation {
	// Window and predicates were validated in New, so the error path is dead.
	correlations, err := Correlate(records, s.opts.FailurePredicate, s.opts.ErrorPredicate, s.opts.WindowSize)
	if err != nil {
		return nil
	}
	return correlations
}
