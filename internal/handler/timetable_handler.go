package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/batch-timetable/internal/dto"
	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/internal/service"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
	"github.com/noah-isme/batch-timetable/pkg/response"
)

type timetableProvider interface {
	BatchTimetable(ctx context.Context, batchID string) (*dto.TimetableResponse, error)
	TeacherTimetable(ctx context.Context, teacherID string) (*dto.TimetableResponse, error)
	OverrideSlot(ctx context.Context, batchID string, req dto.OverrideSlotRequest) (*models.Assignment, error)
	ClearSlot(ctx context.Context, batchID string, query dto.ClearSlotQuery) error
}

// TimetableHandler serves timetable views and manual slot edits.
type TimetableHandler struct {
	service timetableProvider
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Batch godoc
// @Summary Weekly timetable of a batch
// @Tags Timetable
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/timetable [get]
func (h *TimetableHandler) Batch(c *gin.Context) {
	resp, err := h.service.BatchTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Teacher godoc
// @Summary Weekly timetable of a teacher
// @Tags Timetable
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /teachers/{id}/timetable [get]
func (h *TimetableHandler) Teacher(c *gin.Context) {
	resp, err := h.service.TeacherTimetable(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// OverrideSlot godoc
// @Summary Manually assign a class to a batch slot
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Param payload body dto.OverrideSlotRequest true "Slot assignment"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /batches/{id}/timetable/slots [put]
func (h *TimetableHandler) OverrideSlot(c *gin.Context) {
	var req dto.OverrideSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}
	assignment, err := h.service.OverrideSlot(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment)
}

// ClearSlot godoc
// @Summary Clear one batch slot
// @Tags Timetable
// @Param id path string true "Batch ID"
// @Param day query string true "Day name, e.g. MONDAY"
// @Param period query int true "Period 1-5"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /batches/{id}/timetable/slots [delete]
func (h *TimetableHandler) ClearSlot(c *gin.Context) {
	var query dto.ClearSlotQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot query"))
		return
	}
	if err := h.service.ClearSlot(c.Request.Context(), c.Param("id"), query); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
