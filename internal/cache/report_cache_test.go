package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policy-log-analytics/internal/cache"
	"policy-log-analytics/internal/model"
)

func newTestCache(t *testing.T) cache.ReportCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewReportCacheWithClient(client, time.Hour)
}

func TestReportCache_RoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	report := &model.AnalysisReport{
		SourceFile:    "application_logs.csv",
		TotalRecords:  42,
		PatternCounts: model.PatternCount{"connection timeout": 3},
	}
	require.NoError(t, c.PutReport(ctx, "run-1", report))

	got, err := c.GetReport(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, report.SourceFile, got.SourceFile)
	assert.Equal(t, report.TotalRecords, got.TotalRecords)
	assert.Equal(t, report.PatternCounts, got.PatternCounts)
}

func TestReportCache_Miss(t *testing.T) {
	c := newTestCache(t)
	_, err := c.GetReport(context.Background(), "missing")
	assert.ErrorIs(t, err, cache.ErrReportNotCached)
}
