package controller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/service"
)

type RecordController struct {
	recordQueryService service.RecordQueryService
}

func NewRecordController(recordQueryService service.RecordQueryService) *RecordController {
	return &RecordController{
		recordQueryService: recordQueryService,
	}
}

func RegisterRecordRoutes(router *gin.Engine, controller *RecordController) {
	v1 := router.Group("/api/v1/records")
	{
		v1.GET("", controller.GetRecords)
	}
}

// GetRecords godoc
// @Summary      Search and filter log records
// @Description  Retrieves ingested log records matching a free-text query, log levels and source files. Supports pagination and sorting.
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        query      query     string  false  "Free text search query"
// @Param        levels     query     string  false  "Comma-separated list of log levels (e.g., ERROR,WARN)"
// @Param        sources    query     string  false  "Comma-separated list of source files"
// @Param        sortBy     query     string  false  "Field to sort by (default: timestamp)" Enums(timestamp, log_level, component, source_file)
// @Param        sortOrder  query     string  false  "Sort order (asc or desc, default: desc)" Enums(asc, desc)
// @Param        page       query     int     false  "Page number (default: 1)" minimum(1)
// @Param        size       query     int     false  "Number of records per page (default: 50, max: 1000)" minimum(1) maximum(1000)
// @Success      200        {object}  dto.RecordSearchResponse "Successfully retrieved records"
// @Failure      500        {object}  model.Response "Internal server error"
// @Router       /api/v1/records [get]
func (c *RecordController) GetRecords(ctx *gin.Context) {
	query := ctx.Query("query")
	sortBy := ctx.DefaultQuery("sortBy", "timestamp")
	sortOrder := ctx.DefaultQuery("sortOrder", "desc")
	pageStr := ctx.DefaultQuery("page", "1")
	sizeStr := ctx.DefaultQuery("size", "50")

	levels := splitCSVParam(ctx.Query("levels"))
	sources := splitCSVParam(ctx.Query("sources"))

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 || size > 1000 {
		size = 50
	}

	searchReq := dto.RecordSearchRequest{
		Query:     query,
		Levels:    levels,
		Sources:   sources,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Page:      page,
		Size:      size,
	}

	result, err := c.recordQueryService.SearchRecords(ctx.Request.Context(), searchReq)
	if err != nil {
		log.Error().Err(err).Msg("Error searching records")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to search records", nil))
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func splitCSVParam(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
