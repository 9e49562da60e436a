package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-timetable/internal/dto"
	"github.com/noah-isme/batch-timetable/internal/models"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
)

type timetableProviderMock struct {
	override dto.OverrideSlotRequest
	cleared  dto.ClearSlotQuery
}

func (m *timetableProviderMock) BatchTimetable(_ context.Context, batchID string) (*dto.TimetableResponse, error) {
	if batchID != "A" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "batch not found")
	}
	return &dto.TimetableResponse{OwnerKind: "batch", OwnerID: batchID, Entries: []models.TimetableEntry{}}, nil
}

func (m *timetableProviderMock) TeacherTimetable(_ context.Context, teacherID string) (*dto.TimetableResponse, error) {
	return &dto.TimetableResponse{OwnerKind: "teacher", OwnerID: teacherID, Entries: []models.TimetableEntry{}}, nil
}

func (m *timetableProviderMock) OverrideSlot(_ context.Context, batchID string, req dto.OverrideSlotRequest) (*models.Assignment, error) {
	m.override = req
	return &models.Assignment{BatchID: batchID, DayOfWeek: req.Day, Period: req.Period, Source: models.AssignmentSourceManual}, nil
}

func (m *timetableProviderMock) ClearSlot(_ context.Context, _ string, query dto.ClearSlotQuery) error {
	m.cleared = query
	return nil
}

func newTimetableRouter(svc *timetableProviderMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := &TimetableHandler{service: svc}
	router := gin.New()
	router.GET("/batches/:id/timetable", h.Batch)
	router.GET("/teachers/:id/timetable", h.Teacher)
	router.PUT("/batches/:id/timetable/slots", h.OverrideSlot)
	router.DELETE("/batches/:id/timetable/slots", h.ClearSlot)
	return router
}

func TestTimetableHandlerReads(t *testing.T) {
	router := newTimetableRouter(&timetableProviderMock{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/batches/A/timetable", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ownerKind":"batch"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/batches/Z/timetable", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/teachers/t1/timetable", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimetableHandlerOverrideSlot(t *testing.T) {
	svc := &timetableProviderMock{}
	router := newTimetableRouter(svc)

	req := httptest.NewRequest(http.MethodPut, "/batches/A/timetable/slots",
		bytes.NewBufferString(`{"day":"MONDAY","period":2,"subjectId":"math","teacherId":"t1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "t1", svc.override.TeacherID)
	assert.Contains(t, w.Body.String(), `"source":"MANUAL"`)
}

func TestTimetableHandlerClearSlot(t *testing.T) {
	svc := &timetableProviderMock{}
	router := newTimetableRouter(svc)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/batches/A/timetable/slots?day=FRIDAY&period=5", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, dto.ClearSlotQuery{Day: "FRIDAY", Period: 5}, svc.cleared)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/batches/A/timetable/slots?day=FRIDAY&period=late", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
