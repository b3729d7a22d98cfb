package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/analyzer"
	"policy-log-analytics/internal/cache"
	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/ingest"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/repository"
	"policy-log-analytics/internal/telemetry"
)

// ErrRunNotFinished is returned when a report is requested for a run that
// has not finished successfully.
var ErrRunNotFinished = errors.New("analysis run has not finished")

// AnalysisService owns the on-demand analysis runs: it reads a CSV export,
// runs the analyzer suite over it, persists the run metadata and caches the
// resulting report.
type AnalysisService interface {
	StartRun(ctx context.Context, req dto.AnalysisRunRequest) (*dto.AnalysisRunResponse, error)
	GetRun(ctx context.Context, id string) (*model.AnalysisRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error)
	GetReport(ctx context.Context, id string) (*model.AnalysisReport, error)
}

type analysisService struct {
	runs      repository.RunRepository
	ingestor  ingest.CSVIngestor
	queryLogs ingest.QueryLogIngestor
	suite     analyzer.Analyzer
	reports   cache.ReportCache
	metrics   *telemetry.Metrics
	threshold int
}

func NewAnalysisService(
	cfg *config.Config,
	runs repository.RunRepository,
	ingestor ingest.CSVIngestor,
	queryLogs ingest.QueryLogIngestor,
	reports cache.ReportCache,
	metrics *telemetry.Metrics,
) (AnalysisService, error) {
	suite, err := analyzer.New(analyzer.Options{
		WindowSize:          cfg.Analyzer.WindowSize,
		Patterns:            cfg.Analyzer.Patterns,
		FilterLevels:        cfg.Analyzer.FilterLevels,
		FilterComponents:    cfg.Analyzer.FilterComponents,
		FailureReasonRules:  cfg.Analyzer.FailureReasons,
		TopN:                cfg.Analyzer.TopN,
		SampleSize:          cfg.Analyzer.SampleSize,
		RecurrenceThreshold: cfg.Analyzer.RecurrenceThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer: %w", err)
	}
	return &analysisService{
		runs:      runs,
		ingestor:  ingestor,
		queryLogs: queryLogs,
		suite:     suite,
		reports:   reports,
		metrics:   metrics,
		threshold: cfg.Analyzer.RecurrenceThreshold,
	}, nil
}

func (s *analysisService) StartRun(ctx context.Context, req dto.AnalysisRunRequest) (*dto.AnalysisRunResponse, error) {
	run := &model.AnalysisRun{
		ID:           uuid.NewString(),
		SourceFile:   req.SourceFile,
		QueryLogFile: req.QueryLogFile,
		Status:       model.RunStatusRunning,
		StartedAt:    time.Now().UTC(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	log.Info().Str("run_id", run.ID).Str("source_file", req.SourceFile).Msg("Starting analysis run")

	started := time.Now()
	report, err := s.execute(ctx, req)
	finished := time.Now().UTC()
	run.FinishedAt = &finished
	s.metrics.AnalysisDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		s.metrics.AnalysisRuns.WithLabelValues(model.RunStatusFailed).Inc()
		if updateErr := s.runs.Update(ctx, run); updateErr != nil {
			log.Error().Err(updateErr).Str("run_id", run.ID).Msg("Failed to record failed run")
		}
		log.Error().Err(err).Str("run_id", run.ID).Msg("Analysis run failed")
		return nil, fmt.Errorf("analysis run %s failed: %w", run.ID, err)
	}

	run.Status = model.RunStatusFinished
	s.metrics.AnalysisRuns.WithLabelValues(model.RunStatusFinished).Inc()
	if err := s.runs.Update(ctx, run); err != nil {
		return nil, err
	}
	if err := s.reports.PutReport(ctx, run.ID, report); err != nil {
		// The report can always be recomputed from the source file.
		log.Warn().Err(err).Str("run_id", run.ID).Msg("Failed to cache report")
	}
	log.Info().
		Str("run_id", run.ID).
		Int("total_records", report.TotalRecords).
		Int("correlations", len(report.Correlations)).
		Msg("Analysis run finished")

	return &dto.AnalysisRunResponse{Run: *run, Report: report}, nil
}

func (s *analysisService) execute(_ context.Context, req dto.AnalysisRunRequest) (*model.AnalysisReport, error) {
	records, err := s.ingestor.ReadFile(req.SourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	report := s.suite.Analyze(records, req.SourceFile)

	if req.QueryLogFile != "" {
		ips, err := s.queryLogs.ExtractIPsFromFile(req.QueryLogFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read query log file: %w", err)
		}
		report.RecurringIPs = analyzer.RecurringIPs(analyzer.CountIPs(ips), s.threshold)
	}
	return report, nil
}

func (s *analysisService) GetRun(ctx context.Context, id string) (*model.AnalysisRun, error) {
	return s.runs.FindByID(ctx, id)
}

func (s *analysisService) ListRuns(ctx context.Context, limit int) ([]model.AnalysisRun, error) {
	return s.runs.List(ctx, limit)
}

func (s *analysisService) GetReport(ctx context.Context, id string) (*model.AnalysisReport, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if run.Status != model.RunStatusFinished {
		return nil, ErrRunNotFinished
	}

	report, err := s.reports.GetReport(ctx, id)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, cache.ErrReportNotCached) {
		log.Warn().Err(err).Str("run_id", id).Msg("Report cache read failed, recomputing")
	}

	// Cache expired or unavailable. Recompute from the original file and
	// repopulate the cache.
	report, err = s.execute(ctx, dto.AnalysisRunRequest{SourceFile: run.SourceFile, QueryLogFile: run.QueryLogFile})
	if err != nil {
		return nil, fmt.Errorf("failed to recompute report for run %s: %w", id, err)
	}
	if err := s.reports.PutReport(ctx, id, report); err != nil {
		log.Warn().Err(err).Str("run_id", id).Msg("Failed to re-cache report")
	}
	return report, nil
}
