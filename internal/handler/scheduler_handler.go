package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/batch-timetable/internal/dto"
	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/internal/service"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
	"github.com/noah-isme/batch-timetable/pkg/response"
)

// RunIDHeader carries the id of a run that failed, so clients can fetch its summary.
const RunIDHeader = "X-Run-ID"

type schedulingRunner interface {
	Run(ctx context.Context, req dto.RunRequest) (*models.RunSummary, error)
	Enqueue(ctx context.Context, req dto.RunRequest) (*dto.RunAcceptedResponse, error)
	GetRun(ctx context.Context, runID string) (*models.RunSummary, error)
}

type runReporter interface {
	RunReport(ctx context.Context, runID, format string) (*service.ExportResult, error)
}

// SchedulerHandler exposes scheduling run endpoints.
type SchedulerHandler struct {
	runs    schedulingRunner
	reports runReporter
}

// NewSchedulerHandler constructs the handler.
func NewSchedulerHandler(runs *service.SchedulingService, reports *service.ExportService) *SchedulerHandler {
	return &SchedulerHandler{runs: runs, reports: reports}
}

// StartRun godoc
// @Summary Run the timetable scheduler
// @Description Clears the scope and places its workload. With async=true the run is queued and 202 is returned.
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.RunRequest true "Run scope"
// @Param async query bool false "Queue the run instead of waiting for it"
// @Param wait query bool false "Wait behind an active run (default true); false fails fast with 409"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule/runs [post]
func (h *SchedulerHandler) StartRun(c *gin.Context) {
	var req dto.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid run payload"))
		return
	}
	async, err := boolQuery(c, "async", false)
	if err != nil {
		response.Error(c, err)
		return
	}
	wait, err := boolQuery(c, "wait", true)
	if err != nil {
		response.Error(c, err)
		return
	}

	if async {
		accepted, err := h.runs.Enqueue(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Location", c.FullPath()+"/"+accepted.RunID)
		response.Accepted(c, accepted)
		return
	}

	req.Wait = wait
	summary, err := h.runs.Run(c.Request.Context(), req)
	if err != nil {
		if summary != nil {
			c.Header(RunIDHeader, summary.RunID)
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// GetRun godoc
// @Summary Get a scheduling run summary
// @Tags Scheduler
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/runs/{id} [get]
func (h *SchedulerHandler) GetRun(c *gin.Context) {
	summary, err := h.runs.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// RunReport godoc
// @Summary Download the unplaceable report of a run
// @Tags Scheduler
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Run ID"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /schedule/runs/{id}/report [get]
func (h *SchedulerHandler) RunReport(c *gin.Context) {
	var query dto.ReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid report query"))
		return
	}
	result, err := h.reports.RunReport(c.Request.Context(), c.Param("id"), query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

func boolQuery(c *gin.Context, key string, fallback bool) (bool, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, appErrors.Clone(appErrors.ErrValidation, key+" must be true or false")
	}
	return v, nil
}
