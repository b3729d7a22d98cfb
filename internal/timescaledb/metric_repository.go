package timescaledb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/repository"
)

type timescaleMetricRepository struct {
	pool       *pgxpool.Pool
	eventTable string
}

func NewTimescaleMetricRepository(pool *pgxpool.Pool) (repository.MetricRepository, error) {
	if pool == nil {
		return nil, errors.New("TimescaleDB connection pool is required for MetricRepository")
	}
	return &timescaleMetricRepository{
		pool:       pool,
		eventTable: metricEventsTableName,
	}, nil
}

func (r *timescaleMetricRepository) GetSummaryMetrics(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error) {
	resp := &dto.MetricSummaryResponse{}

	whereClauses := []string{"time >= $1", "time < $2"}
	args := []interface{}{req.StartTime, req.EndTime}
	argCounter := 3

	if len(req.Sources) > 0 {
		placeholders := make([]string, len(req.Sources))
		for i, source := range req.Sources {
			placeholders[i] = fmt.Sprintf("$%d", argCounter)
			args = append(args, source)
			argCounter++
		}
		whereClauses = append(whereClauses, fmt.Sprintf("source IN (%s)", strings.Join(placeholders, ",")))
	}
	whereSQL := strings.Join(whereClauses, " AND ")

	countSQL := fmt.Sprintf(`
		SELECT
			COUNT(*) FILTER (WHERE metric_name = 'log_event'),
			COUNT(*) FILTER (WHERE metric_name = 'error_event'),
			COUNT(*) FILTER (WHERE metric_name = 'deployment_event')
		FROM %s WHERE %s`, r.eventTable, whereSQL)

	err := r.pool.QueryRow(ctx, countSQL, args...).Scan(
		&resp.TotalLogEvents, &resp.TotalErrorEvents, &resp.TotalDeploymentEvents)
	if err != nil {
		log.Error().Err(err).Str("query", countSQL).Msg("Failed to count metric events")
		return nil, fmt.Errorf("failed to get summary metrics: %w", err)
	}

	return resp, nil
}

func (r *timescaleMetricRepository) GetTimeseriesMetrics(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	allowedGroupBy := map[string]string{
		"level":     "tags->>'level'",
		"component": "tags->>'component'",
		"status":    "tags->>'status'",
		"policy_id": "tags->>'policy_id'",
		"source":    "source",
	}
	groupBySQL, ok := allowedGroupBy[req.GroupBy]
	isGroupByTotal := !ok

	validIntervals := map[string]bool{"1 minute": true, "5 minute": true, "10 minute": true, "30 minute": true, "1 hour": true, "1 day": true}
	if !validIntervals[req.Interval] {
		return nil, fmt.Errorf("invalid interval: %s", req.Interval)
	}

	var queryBuilder strings.Builder
	args := []interface{}{}
	argCounter := 1

	queryBuilder.WriteString(fmt.Sprintf("SELECT time_bucket($%d::interval, time) AS bucket, ", argCounter))
	args = append(args, req.Interval)
	argCounter++

	if isGroupByTotal {
		queryBuilder.WriteString("'total' AS group_key, ")
	} else {
		queryBuilder.WriteString(fmt.Sprintf("%s AS group_key, ", groupBySQL))
	}
	queryBuilder.WriteString(fmt.Sprintf("COUNT(*) AS value FROM %s WHERE metric_name = $%d AND time >= $%d AND time < $%d ", r.eventTable, argCounter, argCounter+1, argCounter+2))
	args = append(args, req.MetricName, req.StartTime, req.EndTime)
	argCounter += 3

	if len(req.Sources) > 0 {
		placeholders := make([]string, len(req.Sources))
		for i, source := range req.Sources {
			placeholders[i] = fmt.Sprintf("$%d", argCounter)
			args = append(args, source)
			argCounter++
		}
		queryBuilder.WriteString(fmt.Sprintf("AND source IN (%s) ", strings.Join(placeholders, ",")))
	}

	queryBuilder.WriteString("GROUP BY bucket")
	if !isGroupByTotal {
		queryBuilder.WriteString(", group_key")
	}
	queryBuilder.WriteString(" ORDER BY bucket ASC")

	querySQL := queryBuilder.String()
	log.Debug().Str("query", querySQL).Interface("args", args).Msg("Executing TimescaleDB timeseries query")

	rows, err := r.pool.Query(ctx, querySQL, args...)
	if err != nil {
		log.Error().Err(err).Str("query", querySQL).Msg("Failed to execute timeseries query")
		return nil, fmt.Errorf("timeseries query failed: %w", err)
	}
	defer rows.Close()

	seriesMap := make(map[string][]dto.TimeseriesDataPoint)
	for rows.Next() {
		var bucket time.Time
		var groupKey *string
		var value int64

		if err := rows.Scan(&bucket, &groupKey, &value); err != nil {
			log.Error().Err(err).Msg("Failed to scan timeseries row")
			continue
		}

		key := "total"
		if !isGroupByTotal {
			if groupKey != nil {
				key = *groupKey
			} else {
				key = fmt.Sprintf("%s_NULL", req.GroupBy)
			}
		}
		seriesMap[key] = append(seriesMap[key], dto.TimeseriesDataPoint{
			Timestamp: bucket.UnixMilli(),
			Value:     value,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("timeseries row iteration failed: %w", err)
	}

	resp := &dto.MetricTimeseriesResponse{Series: make([]dto.TimeseriesSeries, 0, len(seriesMap))}
	for name, data := range seriesMap {
		resp.Series = append(resp.Series, dto.TimeseriesSeries{Name: name, Data: data})
	}
	return resp, nil
}
