package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/dto"
	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/internal/repository"
	"github.com/noah-isme/batch-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
)

const (
	ownerKindBatch   = "batch"
	ownerKindTeacher = "teacher"
)

type timetableStore interface {
	ListByBatch(ctx context.Context, batchID string) ([]models.TimetableEntry, error)
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error)
	AcquireRunLock(ctx context.Context, exec sqlx.ExtContext) error
	UpsertSlot(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error
	DeleteSlot(ctx context.Context, exec sqlx.ExtContext, batchID, day string, period int) (bool, error)
}

type directoryLookup interface {
	BatchExists(ctx context.Context, batchID string) (bool, error)
	TeacherExists(ctx context.Context, teacherID string) (bool, error)
}

// TimetableService serves timetable reads and manual slot edits.
type TimetableService struct {
	store     timetableStore
	directory directoryLookup
	tx        txProvider
	gate      *scheduler.Gate
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewTimetableService constructs the service. The gate must be the one the
// scheduling service uses so edits never interleave with a run.
func NewTimetableService(
	store timetableStore,
	directory directoryLookup,
	tx txProvider,
	gate *scheduler.Gate,
	cache *CacheService,
	validate *validator.Validate,
	logger *zap.Logger,
	cacheTTL time.Duration,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gate == nil {
		gate = scheduler.NewGate()
	}
	return &TimetableService{
		store:     store,
		directory: directory,
		tx:        tx,
		gate:      gate,
		cache:     cache,
		validator: validate,
		logger:    logger,
		cacheTTL:  cacheTTL,
	}
}

// BatchTimetable returns a batch's week.
func (s *TimetableService) BatchTimetable(ctx context.Context, batchID string) (*dto.TimetableResponse, error) {
	return s.read(ctx, ownerKindBatch, batchID, BatchTimetableKey(batchID), s.directory.BatchExists, s.store.ListByBatch)
}

// TeacherTimetable returns a teacher's week across all batches.
func (s *TimetableService) TeacherTimetable(ctx context.Context, teacherID string) (*dto.TimetableResponse, error) {
	return s.read(ctx, ownerKindTeacher, teacherID, TeacherTimetableKey(teacherID), s.directory.TeacherExists, s.store.ListByTeacher)
}

func (s *TimetableService) read(
	ctx context.Context,
	kind, id, cacheKey string,
	exists func(context.Context, string) (bool, error),
	list func(context.Context, string) ([]models.TimetableEntry, error),
) (*dto.TimetableResponse, error) {
	var cached dto.TimetableResponse
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	found, err := exists(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to look up %s", kind))
	}
	if !found {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s %s not found", kind, id))
	}

	entries, err := list(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}
	if entries == nil {
		entries = []models.TimetableEntry{}
	}
	for i := range entries {
		entries[i].Time = scheduler.PeriodLabel(entries[i].Period)
	}

	resp := &dto.TimetableResponse{
		OwnerKind: kind,
		OwnerID:   id,
		Days:      dayNames(),
		Periods:   periodInfo(),
		Entries:   entries,
	}
	s.cache.Set(ctx, cacheKey, resp, s.cacheTTL)
	return resp, nil
}

// OverrideSlot writes a manual assignment into a batch slot. Only the grid is
// checked: qualification and workload are left to the operator.
func (s *TimetableService) OverrideSlot(ctx context.Context, batchID string, req dto.OverrideSlotRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	slot, err := parseSlot(req.Day, req.Period)
	if err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		BatchID:   batchID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		DayOfWeek: slot.Day.String(),
		Period:    slot.Period,
	}
	err = s.edit(ctx, batchID, func(tx *sqlx.Tx) error {
		return s.store.UpsertSlot(ctx, tx, assignment)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status,
				fmt.Sprintf("teacher %s already teaches at %s", req.TeacherID, slot))
		case errors.Is(err, repository.ErrUnknownReference):
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				"batch, subject or teacher does not exist")
		}
		return nil, err
	}

	s.logger.Info("timetable slot overridden",
		zap.String("batch_id", batchID),
		zap.String("slot", slot.String()),
		zap.String("subject_id", req.SubjectID),
		zap.String("teacher_id", req.TeacherID),
	)
	return assignment, nil
}

// ClearSlot removes whatever a batch has scheduled at a slot.
func (s *TimetableService) ClearSlot(ctx context.Context, batchID string, query dto.ClearSlotQuery) error {
	if err := s.validator.Struct(query); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot query")
	}
	slot, err := parseSlot(query.Day, query.Period)
	if err != nil {
		return err
	}

	var removed bool
	err = s.edit(ctx, batchID, func(tx *sqlx.Tx) error {
		var delErr error
		removed, delErr = s.store.DeleteSlot(ctx, tx, batchID, slot.Day.String(), slot.Period)
		if delErr == nil && !removed {
			return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("batch %s has nothing scheduled at %s", batchID, slot))
		}
		return delErr
	})
	if err != nil {
		return err
	}
	s.logger.Info("timetable slot cleared", zap.String("batch_id", batchID), zap.String("slot", slot.String()))
	return nil
}

// edit runs fn in a locked transaction while holding the run gate, then drops
// the cached views it may have changed.
func (s *TimetableService) edit(ctx context.Context, batchID string, fn func(tx *sqlx.Tx) error) (err error) {
	scope := scheduler.SingleBatch(batchID)
	release, err := s.gate.TryAcquire(scope)
	if err != nil {
		msg := "a scheduling run is already in progress"
		if active, ok := s.gate.Active(); ok {
			msg = fmt.Sprintf("scheduling run for %s is in progress", active)
		}
		return appErrors.Wrap(err, appErrors.ErrRunInProgress.Code, appErrors.ErrRunInProgress.Status, msg)
	}
	defer release()

	if s.tx == nil {
		return appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.store.AcquireRunLock(ctx, tx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire scheduling lock")
	}
	if err = fn(tx); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) || errors.Is(err, repository.ErrSlotTaken) || errors.Is(err, repository.ErrUnknownReference) {
			return err
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update timetable")
	}
	if err = tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit timetable change")
	}

	if cacheErr := s.cache.InvalidateTimetables(ctx, scope); cacheErr != nil {
		s.logger.Warn("timetable cache invalidation failed", zap.String("batch_id", batchID), zap.Error(cacheErr))
	}
	return nil
}

func parseSlot(dayName string, period int) (scheduler.TimeSlot, error) {
	day, ok := scheduler.ParseDay(dayName)
	if !ok {
		return scheduler.TimeSlot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", dayName))
	}
	slot := scheduler.TimeSlot{Day: day, Period: period}
	if !slot.Valid() {
		return scheduler.TimeSlot{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period %d is outside the grid", period))
	}
	if !slot.Assignable() {
		return scheduler.TimeSlot{}, appErrors.Clone(appErrors.ErrValidation, "the lunch period cannot hold a class")
	}
	return slot, nil
}

func dayNames() []string {
	names := make([]string, 0, len(scheduler.Days))
	for _, day := range scheduler.Days {
		names = append(names, day.String())
	}
	return names
}

func periodInfo() []dto.PeriodInfo {
	periods := make([]dto.PeriodInfo, 0, scheduler.PeriodsPerDay)
	for p := 1; p <= scheduler.PeriodsPerDay; p++ {
		periods = append(periods, dto.PeriodInfo{
			Period: p,
			Label:  scheduler.PeriodLabel(p),
			Lunch:  p == scheduler.LunchPeriod,
		})
	}
	return periods
}
