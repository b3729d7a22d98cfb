package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/model"
)

// ErrReportNotCached is returned when no report is cached for the run.
var ErrReportNotCached = errors.New("report not cached")

// ReportCache keeps finished analysis reports hot so repeated report reads
// do not recompute or hit cold storage.
type ReportCache interface {
	PutReport(ctx context.Context, runID string, report *model.AnalysisReport) error
	GetReport(ctx context.Context, runID string) (*model.AnalysisReport, error)
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReportCache(lc fx.Lifecycle, cfg *config.Config) ReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Redis client")
			return client.Close()
		},
	})
	log.Info().Str("addr", cfg.Redis.Addr).Msg("Redis report cache initialized")
	return &redisReportCache{client: client, ttl: cfg.Redis.ReportTTL}
}

// NewReportCacheWithClient wires an existing client, used by tests.
func NewReportCacheWithClient(client *redis.Client, ttl time.Duration) ReportCache {
	return &redisReportCache{client: client, ttl: ttl}
}

func (c *redisReportCache) PutReport(ctx context.Context, runID string, report *model.AnalysisReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report for cache: %w", err)
	}
	if err := c.client.Set(ctx, reportKey(runID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

func (c *redisReportCache) GetReport(ctx context.Context, runID string) (*model.AnalysisReport, error) {
	data, err := c.client.Get(ctx, reportKey(runID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrReportNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}
	var report model.AnalysisReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached report: %w", err)
	}
	return &report, nil
}

func reportKey(runID string) string {
	return "analysis:report:" + runID
}
