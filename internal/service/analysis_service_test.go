package service_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/cache"
	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/ingest"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/repository"
	"policy-log-analytics/internal/service"
	"policy-log-analytics/internal/telemetry"
)

// Prometheus collectors register globally, so share one instance across tests.
var testMetrics = telemetry.NewMetrics()

var errRunMissing = errors.New("run not found")

type memoryRunRepository struct {
	runs map[string]model.AnalysisRun
}

func newMemoryRunRepository() *memoryRunRepository {
	return &memoryRunRepository{runs: make(map[string]model.AnalysisRun)}
}

func (r *memoryRunRepository) Create(_ context.Context, run *model.AnalysisRun) error {
	r.runs[run.ID] = *run
	return nil
}

func (r *memoryRunRepository) Update(_ context.Context, run *model.AnalysisRun) error {
	r.runs[run.ID] = *run
	return nil
}

func (r *memoryRunRepository) FindByID(_ context.Context, id string) (*model.AnalysisRun, error) {
	run, ok := r.runs[id]
	if !ok {
		return nil, errRunMissing
	}
	return &run, nil
}

func (r *memoryRunRepository) List(_ context.Context, _ int) ([]model.AnalysisRun, error) {
	out := make([]model.AnalysisRun, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	return out, nil
}

var _ repository.RunRepository = (*memoryRunRepository)(nil)

const testCSV = `log_level,timestamp,component,event_type,status,policy_id,device_id,message
INFO,2024-05-01 10:00:00,PolicyEngine,POLICY_DEPLOYMENT,SUCCESS,pol-1,dev-1,Deployment finished
ERROR,2024-05-01 10:00:05,Network,SYSTEM,,,,Connection timeout while contacting device
ERROR,2024-05-01 10:00:07,PolicyEngine,POLICY_DEPLOYMENT,FAILED,pol-2,dev-2,Invalid rule syntax in policy definition
`

func newTestService(t *testing.T, repo repository.RunRepository) (service.AnalysisService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.Analyzer.WindowSize = 5
	cfg.Analyzer.Patterns = []string{"connection timeout", "invalid rule"}
	cfg.Analyzer.TopN = 3
	cfg.Analyzer.SampleSize = 5
	cfg.Analyzer.RecurrenceThreshold = 2

	svc, err := service.NewAnalysisService(
		cfg,
		repo,
		ingest.NewCSVIngestor(),
		ingest.NewQueryLogIngestor(),
		cache.NewReportCacheWithClient(client, time.Hour),
		testMetrics,
	)
	require.NoError(t, err)
	return svc, mr
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnalysisService_StartRun(t *testing.T) {
	repo := newMemoryRunRepository()
	svc, _ := newTestService(t, repo)
	sourceFile := writeTempFile(t, "policy_deployment.csv", testCSV)

	resp, err := svc.StartRun(context.Background(), dto.AnalysisRunRequest{SourceFile: sourceFile})
	require.NoError(t, err)

	assert.Equal(t, model.RunStatusFinished, resp.Run.Status)
	assert.NotNil(t, resp.Run.FinishedAt)
	require.NotNil(t, resp.Report)
	assert.Equal(t, 3, resp.Report.TotalRecords)
	assert.Equal(t, 1, resp.Report.PatternCounts["connection timeout"])
	assert.Equal(t, 1, resp.Report.PatternCounts["invalid rule"])
	require.Len(t, resp.Report.Correlations, 1)
	assert.Equal(t, 1, resp.Report.Deployments.Successful)
	assert.Equal(t, 1, resp.Report.Deployments.Failed)
}

func TestAnalysisService_StartRun_MissingFile(t *testing.T) {
	repo := newMemoryRunRepository()
	svc, _ := newTestService(t, repo)

	_, err := svc.StartRun(context.Background(), dto.AnalysisRunRequest{SourceFile: "/does/not/exist.csv"})
	require.Error(t, err)

	runs, err := repo.List(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusFailed, runs[0].Status)
	assert.NotEmpty(t, runs[0].Error)
}

func TestAnalysisService_GetReport_CachedAndRecomputed(t *testing.T) {
	repo := newMemoryRunRepository()
	svc, _ := newTestService(t, repo)
	sourceFile := writeTempFile(t, "policy_deployment.csv", testCSV)

	resp, err := svc.StartRun(context.Background(), dto.AnalysisRunRequest{SourceFile: sourceFile})
	require.NoError(t, err)

	report, err := svc.GetReport(context.Background(), resp.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Report.TotalRecords, report.TotalRecords)
}

func TestAnalysisService_StartRun_WithQueryLog(t *testing.T) {
	repo := newMemoryRunRepository()
	svc, _ := newTestService(t, repo)
	sourceFile := writeTempFile(t, "policy_deployment.csv", testCSV)
	queryLog := writeTempFile(t, "queries.log", ""+
		"01-May-2024 10:00:00.000 queries: info: client 192.168.1.10#5353: query example.com\n"+
		"01-May-2024 10:00:01.000 queries: info: client 192.168.1.10#5353: query example.org\n"+
		"01-May-2024 10:00:02.000 queries: info: client 10.0.0.9#4444: query example.net\n")

	resp, err := svc.StartRun(context.Background(), dto.AnalysisRunRequest{
		SourceFile:   sourceFile,
		QueryLogFile: queryLog,
	})
	require.NoError(t, err)
	require.Len(t, resp.Report.RecurringIPs, 1)
	assert.Equal(t, "192.168.1.10", resp.Report.RecurringIPs[0].IP)
	assert.Equal(t, 2, resp.Report.RecurringIPs[0].Count)
}

func TestAnalysisService_GetReport_RecomputeKeepsRecurringIPs(t *testing.T) {
	repo := newMemoryRunRepository()
	svc, mr := newTestService(t, repo)
	sourceFile := writeTempFile(t, "policy_deployment.csv", testCSV)
	queryLog := writeTempFile(t, "queries.log", ""+
		"01-May-2024 10:00:00.000 queries: info: client 192.168.1.10#5353: query example.com\n"+
		"01-May-2024 10:00:01.000 queries: info: client 192.168.1.10#5353: query example.org\n")

	resp, err := svc.StartRun(context.Background(), dto.AnalysisRunRequest{
		SourceFile:   sourceFile,
		QueryLogFile: queryLog,
	})
	require.NoError(t, err)
	require.Len(t, resp.Report.RecurringIPs, 1)

	// Simulate cache expiry; the report must be rebuilt from the run's
	// recorded inputs, query log included.
	mr.FlushAll()

	report, err := svc.GetReport(context.Background(), resp.Run.ID)
	require.NoError(t, err)
	require.Len(t, report.RecurringIPs, 1)
	assert.Equal(t, "192.168.1.10", report.RecurringIPs[0].IP)
	assert.Equal(t, 2, report.RecurringIPs[0].Count)
}
