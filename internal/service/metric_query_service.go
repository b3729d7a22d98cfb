package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/repository"
)

type MetricQueryService interface {
	GetSummary(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error)
	GetTimeseries(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error)
}

type metricQueryService struct {
	metricRepo repository.MetricRepository
}

func NewMetricQueryService(metricRepo repository.MetricRepository) MetricQueryService {
	return &metricQueryService{
		metricRepo: metricRepo,
	}
}

func (s *metricQueryService) GetSummary(ctx context.Context, req dto.MetricSummaryRequest) (*dto.MetricSummaryResponse, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errors.New("startTime and endTime are required")
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, errors.New("endTime cannot be before startTime")
	}
	log.Info().Time("start", req.StartTime).Time("end", req.EndTime).Strs("sources", req.Sources).Msg("Getting summary metrics")
	return s.metricRepo.GetSummaryMetrics(ctx, req)
}

func (s *metricQueryService) GetTimeseries(ctx context.Context, req dto.MetricTimeseriesRequest) (*dto.MetricTimeseriesResponse, error) {
	if req.StartTime.IsZero() || req.EndTime.IsZero() {
		return nil, errors.New("startTime and endTime are required")
	}
	if req.EndTime.Before(req.StartTime) {
		return nil, errors.New("endTime cannot be before startTime")
	}

	allowedMetrics := map[string]bool{"log_event": true, "error_event": true, "deployment_event": true}
	if !allowedMetrics[req.MetricName] {
		return nil, fmt.Errorf("invalid metricName: %s", req.MetricName)
	}

	allowedIntervals := map[string]bool{
		"1 minute": true, "5 minute": true, "10 minute": true,
		"30 minute": true, "1 hour": true, "1 day": true,
	}
	if !allowedIntervals[req.Interval] {
		return nil, fmt.Errorf("invalid interval: %s", req.Interval)
	}

	allowedGroupBy := map[string]bool{
		"level": true, "component": true, "status": true, "policy_id": true,
		"source": true, "total": true, "": true,
	}
	if req.GroupBy == "" {
		req.GroupBy = "total"
	}
	if !allowedGroupBy[req.GroupBy] {
		return nil, fmt.Errorf("invalid groupBy: %s", req.GroupBy)
	}

	log.Info().
		Time("start", req.StartTime).
		Time("end", req.EndTime).
		Strs("sources", req.Sources).
		Str("metric", req.MetricName).
		Str("interval", req.Interval).
		Str("group_by", req.GroupBy).
		Msg("Getting timeseries metrics")

	return s.metricRepo.GetTimeseriesMetrics(ctx, req)
}
