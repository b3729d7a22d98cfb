package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"policy-log-analytics/internal/database"
	"policy-log-analytics/internal/dto"
	"policy-log-analytics/internal/model"
	"policy-log-analytics/internal/service"
)

type AnalysisController struct {
	analysisService service.AnalysisService
}

func NewAnalysisController(analysisService service.AnalysisService) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
	}
}

func RegisterAnalysisRoutes(router *gin.Engine, controller *AnalysisController) {
	v1 := router.Group("/api/v1/analysis")
	{
		v1.POST("/runs", controller.StartRun)
		v1.GET("/runs", controller.ListRuns)
		v1.GET("/runs/:id", controller.GetRun)
		v1.GET("/runs/:id/report", controller.GetReport)
	}
}

// StartRun godoc
// @Summary      Start an analysis run
// @Description  Reads a CSV log export, runs pattern counting, failure correlation and the deployment summary over it, and persists the run. An optional query log adds the recurring-IP scan.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body      dto.AnalysisRunRequest  true  "Analysis run request"
// @Success      201      {object}  dto.AnalysisRunResponse "Run finished, report included"
// @Failure      400      {object}  model.Response "Invalid request body"
// @Failure      500      {object}  model.Response "Run failed"
// @Router       /api/v1/analysis/runs [post]
func (c *AnalysisController) StartRun(ctx *gin.Context) {
	var req dto.AnalysisRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, model.NewResponse("Invalid request body: "+err.Error(), nil))
		return
	}

	resp, err := c.analysisService.StartRun(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Str("source_file", req.SourceFile).Msg("Analysis run failed")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Analysis run failed: "+err.Error(), nil))
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// ListRuns godoc
// @Summary      List analysis runs
// @Description  Lists recent analysis runs, newest first.
// @Tags         analysis
// @Produce      json
// @Param        limit  query     int  false  "Maximum number of runs to return (default: 50)" minimum(1)
// @Success      200    {object}  []model.AnalysisRun "Successfully retrieved runs"
// @Failure      500    {object}  model.Response "Internal server error"
// @Router       /api/v1/analysis/runs [get]
func (c *AnalysisController) ListRuns(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}

	runs, err := c.analysisService.ListRuns(ctx.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Error listing analysis runs")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to list analysis runs", nil))
		return
	}
	ctx.JSON(http.StatusOK, runs)
}

// GetRun godoc
// @Summary      Get an analysis run
// @Description  Retrieves the metadata of one analysis run by id.
// @Tags         analysis
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  model.AnalysisRun "Successfully retrieved run"
// @Failure      404  {object}  model.Response "Run not found"
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/v1/analysis/runs/{id} [get]
func (c *AnalysisController) GetRun(ctx *gin.Context) {
	run, err := c.analysisService.GetRun(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, database.ErrRunNotFound) {
			ctx.JSON(http.StatusNotFound, model.NewResponse("Analysis run not found", nil))
			return
		}
		log.Error().Err(err).Msg("Error getting analysis run")
		ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get analysis run", nil))
		return
	}
	ctx.JSON(http.StatusOK, run)
}

// GetReport godoc
// @Summary      Get an analysis report
// @Description  Retrieves the report of a finished run, served from cache when hot and recomputed from the source file otherwise.
// @Tags         analysis
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  model.AnalysisReport "Successfully retrieved report"
// @Failure      404  {object}  model.Response "Run not found"
// @Failure      409  {object}  model.Response "Run has not finished"
// @Failure      500  {object}  model.Response "Internal server error"
// @Router       /api/v1/analysis/runs/{id}/report [get]
func (c *AnalysisController) GetReport(ctx *gin.Context) {
	report, err := c.analysisService.GetReport(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, database.ErrRunNotFound):
			ctx.JSON(http.StatusNotFound, model.NewResponse("Analysis run not found", nil))
		case errors.Is(err, service.ErrRunNotFinished):
			ctx.JSON(http.StatusConflict, model.NewResponse("Analysis run has not finished", nil))
		default:
			log.Error().Err(err).Msg("Error getting analysis report")
			ctx.JSON(http.StatusInternalServerError, model.NewResponse("Failed to get analysis report", nil))
		}
		return
	}
	ctx.JSON(http.StatusOK, report)
}
