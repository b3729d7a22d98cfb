package timescaledb

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"policy-log-analytics/config"
	"policy-log-analytics/internal/model"
)

type MetricStore interface {
	StoreMetricEvents(ctx context.Context, events []model.MetricEvent) error
	Close()
}

type timescaleMetricStore struct {
	pool      *pgxpool.Pool
	tableName string
}

const (
	metricEventsTableName = "log_metric_events"
	colTime               = "time"
	colMetricName         = "metric_name"
	colSource             = "source"
	colTags               = "tags" // JSONB
)

func ProvideTimescaleDBPool(lc fx.Lifecycle, cfg *config.Config) (MetricStore, *pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.TimescaleDB.DSN)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse TimescaleDB DSN")
		return nil, nil, fmt.Errorf("invalid TimescaleDB DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create connection pool to TimescaleDB")
		return nil, nil, fmt.Errorf("failed to connect to TimescaleDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ping TimescaleDB")
		return nil, nil, fmt.Errorf("failed to ping TimescaleDB: %w", err)
	}
	log.Info().Msg("TimescaleDB connection pool created and verified.")

	store := &timescaleMetricStore{
		pool:      pool,
		tableName: metricEventsTableName,
	}

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelSetup()
	if err := store.ensureHypertable(setupCtx); err != nil {
		pool.Close()
		log.Error().Err(err).Msg("Failed to ensure TimescaleDB hypertable exists")
		return nil, nil, fmt.Errorf("failed ensuring hypertable: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing TimescaleDB connection pool...")
			store.Close()
			return nil
		},
	})

	return store, pool, nil
}

func (s *timescaleMetricStore) ensureHypertable(ctx context.Context) error {
	createTableSQL := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			%s TIMESTAMPTZ NOT NULL,
			%s TEXT NOT NULL,
			%s TEXT NOT NULL,
			%s JSONB
		);`,
		s.tableName, colTime, colMetricName, colSource, colTags)

	if _, err := s.pool.Exec(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create base table %s: %w", s.tableName, err)
	}
	log.Info().Str("table", s.tableName).Msg("Ensured base table exists.")

	checkHyperSQL := `SELECT EXISTS (
        SELECT 1 FROM timescaledb_information.hypertables WHERE hypertable_name = $1
    );`
	var isHypertable bool
	_ = s.pool.QueryRow(ctx, checkHyperSQL, s.tableName).Scan(&isHypertable)

	if !isHypertable {
		log.Info().Str("table", s.tableName).Msg("Table is not a hypertable, attempting to create...")
		_, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS timescaledb;")
		if err != nil {
			log.Warn().Err(err).Msg("Failed to ensure timescaledb extension exists (permission issue?). Trying to proceed...")
		}

		createHyperSQL := fmt.Sprintf(
			"SELECT create_hypertable('%s', '%s', if_not_exists => TRUE, chunk_time_interval => INTERVAL '1 day');",
			s.tableName,
			colTime,
		)
		_, err = s.pool.Exec(ctx, createHyperSQL)
		if err != nil && !strings.Contains(err.Error(), "already a hypertable") {
			return fmt.Errorf("failed to create hypertable %s: %w", s.tableName, err)
		}
		log.Info().Str("table", s.tableName).Msg("Successfully ensured hypertable.")
	} else {
		log.Info().Str("table", s.tableName).Msg("Table is already a hypertable.")
	}

	indexSQL := fmt.Sprintf(`
        CREATE INDEX IF NOT EXISTS idx_%s_name_source_time ON %s (metric_name, source, time DESC);
        CREATE INDEX IF NOT EXISTS idx_%s_tags ON %s USING GIN (tags);
    `, s.tableName, s.tableName, s.tableName, s.tableName)
	if _, err := s.pool.Exec(ctx, indexSQL); err != nil {
		log.Warn().Err(err).Msg("Failed to create indexes on metrics table (continuing)")
	} else {
		log.Info().Str("table", s.tableName).Msg("Ensured indexes exist on metrics table.")
	}

	return nil
}

func (s *timescaleMetricStore) StoreMetricEvents(ctx context.Context, events []model.MetricEvent) error {
	if len(events) == 0 {
		return nil
	}

	columns := []string{colTime, colMetricName, colSource, colTags}

	source := pgx.CopyFromSlice(len(events), func(i int) ([]interface{}, error) {
		e := events[i]
		tagsJSON, err := json.Marshal(e.Tags)
		if err != nil {
			// Keep the row, insert NULL tags rather than dropping the point.
			log.Error().Err(err).Interface("tags", e.Tags).Msg("Failed to marshal metric tags to JSON, inserting null")
			tagsJSON = nil
		}
		return []interface{}{e.Time, e.MetricName, e.Source, tagsJSON}, nil
	})

	copyCount, err := s.pool.CopyFrom(ctx, pgx.Identifier{s.tableName}, columns, source)
	if err != nil {
		log.Error().Err(err).Msg("Failed to bulk insert metric events into TimescaleDB")
		return fmt.Errorf("timescaledb copyfrom failed: %w", err)
	}

	if int(copyCount) != len(events) {
		log.Warn().Int64("inserted", copyCount).Int("expected", len(events)).Msg("TimescaleDB CopyFrom event count mismatch")
	} else {
		log.Debug().Int64("count", copyCount).Msg("Successfully inserted metric events into TimescaleDB")
	}
	return nil
}

func (s *timescaleMetricStore) Close() {
	s.pool.Close()
}
