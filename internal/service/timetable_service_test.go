package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-timetable/internal/dto"
	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/internal/repository"
	"github.com/noah-isme/batch-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
)

type timetableStoreStub struct {
	entries   []models.TimetableEntry
	listCalls int
	upserted  []models.Assignment
	upsertErr error
	removed   bool
}

func (s *timetableStoreStub) ListByBatch(_ context.Context, batchID string) ([]models.TimetableEntry, error) {
	s.listCalls++
	var out []models.TimetableEntry
	for _, e := range s.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *timetableStoreStub) ListByTeacher(_ context.Context, teacherID string) ([]models.TimetableEntry, error) {
	s.listCalls++
	var out []models.TimetableEntry
	for _, e := range s.entries {
		if e.TeacherID == teacherID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *timetableStoreStub) AcquireRunLock(context.Context, sqlx.ExtContext) error { return nil }

func (s *timetableStoreStub) UpsertSlot(_ context.Context, _ sqlx.ExtContext, a *models.Assignment) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	a.ID = "row-1"
	a.Source = models.AssignmentSourceManual
	s.upserted = append(s.upserted, *a)
	return nil
}

func (s *timetableStoreStub) DeleteSlot(context.Context, sqlx.ExtContext, string, string, int) (bool, error) {
	return s.removed, nil
}

type directoryStub struct {
	batches  map[string]bool
	teachers map[string]bool
}

func (d directoryStub) BatchExists(_ context.Context, id string) (bool, error) {
	return d.batches[id], nil
}

func (d directoryStub) TeacherExists(_ context.Context, id string) (bool, error) {
	return d.teachers[id], nil
}

type timetableFixture struct {
	svc   *TimetableService
	store *timetableStoreStub
	cache *cacheRepoStub
	gate  *scheduler.Gate
	mock  sqlmock.Sqlmock
}

func newTimetableFixture(t *testing.T) *timetableFixture {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	store := &timetableStoreStub{entries: []models.TimetableEntry{
		{ID: "1", BatchID: "A", SubjectID: "math", TeacherID: "t1", DayOfWeek: "MONDAY", Period: 1},
		{ID: "2", BatchID: "A", SubjectID: "phy", TeacherID: "t2", DayOfWeek: "MONDAY", Period: 4},
		{ID: "3", BatchID: "B", SubjectID: "math", TeacherID: "t1", DayOfWeek: "TUESDAY", Period: 5},
	}}
	dir := directoryStub{
		batches:  map[string]bool{"A": true, "B": true},
		teachers: map[string]bool{"t1": true, "t2": true},
	}
	cacheRepo := newCacheRepoStub()
	gate := scheduler.NewGate()
	svc := NewTimetableService(store, dir, tx, gate,
		NewCacheService(cacheRepo, NewMetricsService(), time.Minute, nil, true),
		nil, nil, time.Minute)
	return &timetableFixture{svc: svc, store: store, cache: cacheRepo, gate: gate, mock: mock}
}

func TestTimetableServiceBatchTimetable(t *testing.T) {
	f := newTimetableFixture(t)

	resp, err := f.svc.BatchTimetable(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "batch", resp.OwnerKind)
	assert.Equal(t, []string{"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY"}, resp.Days)
	require.Len(t, resp.Periods, 5)
	assert.True(t, resp.Periods[2].Lunch)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, "09:30 - 10:20", resp.Entries[0].Time)
	assert.Equal(t, "12:00 - 12:50", resp.Entries[1].Time)

	cached, err := f.svc.BatchTimetable(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.listCalls)
	assert.Len(t, cached.Entries, 2)
}

func TestTimetableServiceTeacherTimetable(t *testing.T) {
	f := newTimetableFixture(t)

	resp, err := f.svc.TeacherTimetable(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "teacher", resp.OwnerKind)
	assert.Len(t, resp.Entries, 2)

	_, err = f.svc.TeacherTimetable(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceEmptyBatchReturnsEmptyEntries(t *testing.T) {
	f := newTimetableFixture(t)
	f.store.entries = nil

	resp, err := f.svc.BatchTimetable(context.Background(), "B")
	require.NoError(t, err)
	assert.NotNil(t, resp.Entries)
	assert.Empty(t, resp.Entries)
}

func TestTimetableServiceOverrideSlot(t *testing.T) {
	f := newTimetableFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	got, err := f.svc.OverrideSlot(context.Background(), "A", dto.OverrideSlotRequest{
		Day: "wednesday", Period: 2, SubjectID: "math", TeacherID: "t1",
	})
	require.NoError(t, err)
	assert.Equal(t, "WEDNESDAY", got.DayOfWeek)
	assert.Equal(t, models.AssignmentSourceManual, got.Source)
	require.Len(t, f.store.upserted, 1)
	assert.Equal(t, []string{"batch:A", "teacher:*"}, f.cache.deleted)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTimetableServiceOverrideRejectsBadSlots(t *testing.T) {
	f := newTimetableFixture(t)

	for _, req := range []dto.OverrideSlotRequest{
		{Day: "MONDAY", Period: scheduler.LunchPeriod, SubjectID: "math", TeacherID: "t1"},
		{Day: "SATURDAY", Period: 1, SubjectID: "math", TeacherID: "t1"},
		{Day: "MONDAY", Period: 6, SubjectID: "math", TeacherID: "t1"},
		{Day: "MONDAY", Period: 1, SubjectID: "math"},
	} {
		_, err := f.svc.OverrideSlot(context.Background(), "A", req)
		require.Error(t, err, "request %+v", req)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, f.store.upserted)
}

func TestTimetableServiceOverrideConstraintViolations(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"teacher busy", repository.ErrSlotTaken, appErrors.ErrConflict.Code},
		{"unknown subject", repository.ErrUnknownReference, appErrors.ErrValidation.Code},
		{"driver failure", errors.New("connection reset"), appErrors.ErrInternal.Code},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newTimetableFixture(t)
			f.store.upsertErr = fmt.Errorf("upsert timetable slot: %w", tc.err)
			f.mock.ExpectBegin()
			f.mock.ExpectRollback()

			_, err := f.svc.OverrideSlot(context.Background(), "A", dto.OverrideSlotRequest{
				Day: "MONDAY", Period: 2, SubjectID: "math", TeacherID: "t1",
			})
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
			assert.Empty(t, f.cache.deleted)
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

func TestTimetableServiceEditsWaitForNoRun(t *testing.T) {
	f := newTimetableFixture(t)
	release, err := f.gate.TryAcquire(scheduler.AllBatches())
	require.NoError(t, err)
	defer release()

	_, err = f.svc.OverrideSlot(context.Background(), "A", dto.OverrideSlotRequest{
		Day: "MONDAY", Period: 2, SubjectID: "math", TeacherID: "t1",
	})
	assert.Equal(t, appErrors.ErrRunInProgress.Code, appErrors.FromError(err).Code)

	err = f.svc.ClearSlot(context.Background(), "A", dto.ClearSlotQuery{Day: "MONDAY", Period: 1})
	assert.Equal(t, appErrors.ErrRunInProgress.Code, appErrors.FromError(err).Code)
}

func TestTimetableServiceClearSlot(t *testing.T) {
	f := newTimetableFixture(t)
	f.store.removed = true
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	require.NoError(t, f.svc.ClearSlot(context.Background(), "A", dto.ClearSlotQuery{Day: "Monday", Period: 1}))
	assert.Equal(t, []string{"batch:A", "teacher:*"}, f.cache.deleted)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestTimetableServiceClearEmptySlot(t *testing.T) {
	f := newTimetableFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	err := f.svc.ClearSlot(context.Background(), "A", dto.ClearSlotQuery{Day: "FRIDAY", Period: 5})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
