package controller

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/service"
	"policy-log-analytics/internal/util"
)

type MetricController struct {
	metricQueryService service.MetricQueryService
}

func NewMetricController(metricQueryService service.MetricQueryService) *MetricController {
	return &MetricController{
		metricQueryService: metricQueryService,
	}
}

func RegisterMetricRoutes(router *gin.Engine, controller *MetricController) {
	v1 := router.Group("/api/v1/metrics")
	{
		v1.GET("/summary", controller.GetSummaryMetrics)
		v1.GET("/timeseries", controller.GetTimeseriesMetrics)
	}
}

// GetSummaryMetrics godoc
// @Summary      Get summary metrics
// @Description  Retrieves total log, error and deployment event counts within a time range, optionally filtered by source files.
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        startTime  query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime    query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        sources    query     string  false  "Comma-separated list of source files"
// @Success      200        {object}  dto.MetricSummaryResponse "Successfully retrieved summary metrics"
// @Failure      400        {object}  model.Response "Invalid query parameters"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/metrics/summary [get]
func (c *MetricController) GetSummaryMetrics(ctx *gin.Context) {
	startTime, endTime, sources, err := parseBaseQueryParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	req := dto.MetricSummaryRequest{
		StartTime: startTime,
		EndTime:   endTime,
		Sources:   sources,
	}

	result, err := c.metricQueryService.GetSummary(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error getting summary metrics")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get summary metrics", nil))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

// GetTimeseriesMetrics godoc
// @Summary      Get timeseries metrics
// @Description  Retrieves timeseries data for a specific metric, aggregated over an interval and optionally grouped by a tag.
// @Tags         metrics
// @Accept       json
// @Produce      json
// @Param        startTime   query     string  true   "Start time (ISO 8601 or epoch ms)"
// @Param        endTime     query     string  true   "End time (ISO 8601 or epoch ms)"
// @Param        sources     query     string  false  "Comma-separated list of source files"
// @Param        metricName  query     string  true   "Metric name" Enums(log_event, error_event, deployment_event)
// @Param        interval    query     string  true   "Time interval for bucketing (e.g., '5 minute', '1 hour')" Enums(1 minute, 5 minute, 10 minute, 30 minute, 1 hour, 1 day)
// @Param        groupBy     query     string  false  "Tag key to group by" Enums(level, component, status, policy_id, source, total)
// @Success      200         {object}  dto.MetricTimeseriesResponse "Successfully retrieved timeseries metrics"
// @Failure      400         {object}  model.Response "Invalid query parameters"
// @Failure      500         {object}  model.Response "Internal server error"
// @Router       /api/v1/metrics/timeseries [get]
func (c *MetricController) GetTimeseriesMetrics(ctx *gin.Context) {
	startTime, endTime, sources, err := parseBaseQueryParams(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		return
	}

	metricName := ctx.Query("metricName")
	interval := ctx.Query("interval")
	groupBy := ctx.DefaultQuery("groupBy", "total")

	if metricName == "" {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("metricName is required", nil))
		return
	}
	if interval == "" {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("interval is required", nil))
		return
	}

	req := dto.MetricTimeseriesRequest{
		StartTime:  startTime,
		EndTime:    endTime,
		Sources:    sources,
		MetricName: metricName,
		Interval:   interval,
		GroupBy:    groupBy,
	}

	result, err := c.metricQueryService.GetTimeseries(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Error getting timeseries metrics")
		if strings.Contains(err.Error(), "invalid") {
			ctx.JSON(http.StatusBadRequest, model.NewResponse(err.Error(), nil))
		} else {
			ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get timeseries metrics", nil))
		}
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func parseBaseQueryParams(ctx *gin.Context) (time.Time, time.Time, []string, error) {
	startTimeStr := ctx.Query("startTime")
	endTimeStr := ctx.Query("endTime")
	sourcesStr := ctx.Query("sources")

	if startTimeStr == "" || endTimeStr == "" {
		return time.Time{}, time.Time{}, nil, errors.New("startTime and endTime are required query parameters")
	}

	startTime, errStart := util.ParseTimeFlexible(startTimeStr)
	endTime, errEnd := util.ParseTimeFlexible(endTimeStr)
	if errStart != nil || errEnd != nil {
		return time.Time{}, time.Time{}, nil, errors.New("invalid startTime or endTime format. Use ISO 8601 or epoch milliseconds")
	}
	if endTime.Before(startTime) {
		return time.Time{}, time.Time{}, nil, errors.New("endTime cannot be before startTime")
	}

	sources := splitCSVParam(sourcesStr)
	return startTime, endTime, sources, nil
}
