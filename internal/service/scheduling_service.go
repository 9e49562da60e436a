package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/dto"
	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/internal/scheduler"
	appErrors "github.com/noah-isme/batch-timetable/pkg/errors"
	"github.com/noah-isme/batch-timetable/pkg/jobs"
)

const runJobType = "scheduling_run"

type snapshotLoader interface {
	LoadSnapshot(ctx context.Context, exec sqlx.ExtContext, scope scheduler.Scope) (*scheduler.Snapshot, error)
}

type timetableWriter interface {
	AcquireRunLock(ctx context.Context, exec sqlx.ExtContext) error
	ClearAssignments(ctx context.Context, exec sqlx.ExtContext, scope scheduler.Scope) (int64, error)
	CommitAssignments(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// SchedulingConfig governs run behaviour.
type SchedulingConfig struct {
	RunTTL      time.Duration
	RunTimeout  time.Duration
	QueueBuffer int
	// Seed fixes the random source for runs that do not carry their own; 0 seeds from the clock.
	Seed int64
}

type runJob struct {
	scope scheduler.Scope
	seed  *int64
}

// SchedulingService orchestrates scheduling runs: it loads a snapshot, clears the
// scope, places the workload and commits, all inside one transaction.
type SchedulingService struct {
	snapshots snapshotLoader
	timetable timetableWriter
	tx        txProvider
	gate      *scheduler.Gate
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	store     *runStore
	queue     *jobs.Queue
	cfg       SchedulingConfig
	now       func() time.Time
}

// NewSchedulingService wires the orchestrator. The gate must be shared with every
// other writer of the timetable.
func NewSchedulingService(
	snapshots snapshotLoader,
	timetable timetableWriter,
	tx txProvider,
	gate *scheduler.Gate,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg SchedulingConfig,
) *SchedulingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gate == nil {
		gate = scheduler.NewGate()
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = time.Hour
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 2 * time.Minute
	}
	s := &SchedulingService{
		snapshots: snapshots,
		timetable: timetable,
		tx:        tx,
		gate:      gate,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		store:     newRunStore(cfg.RunTTL),
		cfg:       cfg,
		now:       time.Now,
	}
	s.queue = jobs.NewQueue("scheduler-runs", s.handleJob, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.QueueBuffer,
		Logger:     logger,
	})
	return s
}

// Start launches the background run worker.
func (s *SchedulingService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts the background worker; queued runs that have not started are dropped.
func (s *SchedulingService) Stop() {
	s.queue.Stop()
}

// Run executes a scheduling run synchronously. When the run itself fails the
// returned summary is in state FAILED and the error carries the cause.
func (s *SchedulingService) Run(ctx context.Context, req dto.RunRequest) (*models.RunSummary, error) {
	scope, err := s.scopeFor(req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	release, err := s.enter(ctx, scope, req.Wait)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.execute(ctx, uuid.NewString(), scope, req.Seed)
}

// Enqueue validates the request and hands the run to the single run worker.
func (s *SchedulingService) Enqueue(ctx context.Context, req dto.RunRequest) (*dto.RunAcceptedResponse, error) {
	scope, err := s.scopeFor(req)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	s.store.Save(models.RunSummary{
		RunID:   runID,
		Scope:   scope.Kind(),
		BatchID: batchIDPtr(scope),
		State:   models.RunStateIdle,
	})

	job := jobs.Job{ID: runID, Type: runJobType, Payload: runJob{scope: scope, seed: req.Seed}}
	if err := s.queue.TryEnqueue(job); err != nil {
		s.store.Delete(runID)
		return nil, appErrors.Wrap(err, appErrors.ErrQueueUnavailable.Code, appErrors.ErrQueueUnavailable.Status, "scheduling run could not be queued")
	}
	s.logger.Info("run queued", zap.String("run_id", runID), zap.String("scope", scope.String()))

	return &dto.RunAcceptedResponse{RunID: runID, State: models.RunStateIdle, Scope: scope.Kind()}, nil
}

// GetRun returns a stored run summary.
func (s *SchedulingService) GetRun(_ context.Context, runID string) (*models.RunSummary, error) {
	summary, ok := s.store.Get(runID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "run not found or expired")
	}
	return &summary, nil
}

func (s *SchedulingService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(runJob)
	if !ok {
		return fmt.Errorf("unexpected payload %T for job %s", job.Payload, job.ID)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	release, err := s.enter(ctx, payload.scope, true)
	if err != nil {
		summary := models.RunSummary{
			RunID:      job.ID,
			Scope:      payload.scope.Kind(),
			BatchID:    batchIDPtr(payload.scope),
			State:      models.RunStateFailed,
			Error:      err.Error(),
			FinishedAt: s.now().UTC(),
		}
		s.store.Save(summary)
		s.metrics.ObserveRun(&summary)
		return nil
	}
	defer release()

	// Failures are recorded on the summary; retrying a run is the operator's call.
	_, _ = s.execute(ctx, job.ID, payload.scope, payload.seed)
	return nil
}

func (s *SchedulingService) scopeFor(req dto.RunRequest) (scheduler.Scope, error) {
	if err := s.validator.Struct(req); err != nil {
		return scheduler.Scope{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scheduling run payload")
	}
	if req.Scope == dto.ScopeAll {
		if req.BatchID != "" {
			return scheduler.Scope{}, appErrors.Clone(appErrors.ErrValidation, "batchId is only allowed with scope batch")
		}
		return scheduler.AllBatches(), nil
	}
	return scheduler.SingleBatch(req.BatchID), nil
}

// enter takes the run gate, blocking when wait is set.
func (s *SchedulingService) enter(ctx context.Context, scope scheduler.Scope, wait bool) (func(), error) {
	var (
		release func()
		err     error
	)
	if wait {
		release, err = s.gate.Acquire(ctx, scope)
	} else {
		release, err = s.gate.TryAcquire(scope)
	}
	if err != nil {
		msg := "a scheduling run is already in progress"
		if active, ok := s.gate.Active(); ok {
			msg = fmt.Sprintf("scheduling run for %s is in progress", active)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrRunInProgress.Code, appErrors.ErrRunInProgress.Status, msg)
	}
	s.metrics.SetRunInProgress(true)
	return func() {
		s.metrics.SetRunInProgress(false)
		release()
	}, nil
}

func (s *SchedulingService) execute(ctx context.Context, runID string, scope scheduler.Scope, seed *int64) (summary *models.RunSummary, err error) {
	summary = &models.RunSummary{
		RunID:       runID,
		Scope:       scope.Kind(),
		BatchID:     batchIDPtr(scope),
		Seed:        s.seedFor(seed),
		StartedAt:   s.now().UTC(),
		Unplaceable: []models.UnplaceableClass{},
		Assignments: []models.Assignment{},
	}
	logger := s.logger.With(zap.String("run_id", runID), zap.String("scope", scope.String()))
	life := newRunLifecycle(summary, logger)
	s.store.Save(*summary)

	defer func() {
		if err != nil {
			life.fail(err)
		}
		summary.FinishedAt = s.now().UTC()
		summary.DurationMs = summary.FinishedAt.Sub(summary.StartedAt).Milliseconds()
		s.metrics.ObserveRun(summary)
		s.store.Save(*summary)
	}()

	if s.tx == nil {
		return summary, appErrors.Clone(appErrors.ErrInternal, "transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return summary, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to begin scheduling transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.timetable.AcquireRunLock(ctx, tx); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire scheduling lock")
		return summary, err
	}

	var snapshot *scheduler.Snapshot
	snapshot, err = s.snapshots.LoadSnapshot(ctx, tx, scope)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling snapshot")
		return summary, err
	}
	life.advance(models.RunStateSnapshotLoaded)

	if !scope.IsGlobal() && !snapshot.HasBatch(scope.BatchID) {
		err = appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("batch %s not found", scope.BatchID))
		return summary, err
	}

	life.advance(models.RunStateClearing)
	var cleared int64
	cleared, err = s.timetable.ClearAssignments(ctx, tx, scope)
	if err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear timetable")
		return summary, err
	}
	summary.ClearedCount = cleared
	registry := scheduler.NewRegistry()
	registry.Seed(snapshot.Retained())

	life.advance(models.RunStatePlacing)
	engine := scheduler.NewEngine(scheduler.NewRand(summary.Seed), logger)
	result := engine.Place(snapshot.Workload, scheduler.IndexQualifications(snapshot.Qualifications), registry)

	life.advance(models.RunStateCommitting)
	assignments := toAssignments(result.Placements)
	if err = s.timetable.CommitAssignments(ctx, tx, assignments); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write timetable")
		return summary, err
	}
	if err = tx.Commit(); err != nil {
		err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit scheduling transaction")
		return summary, err
	}
	life.advance(models.RunStateDone)

	summary.RequestedCount = result.Requested()
	summary.PlacedCount = len(result.Placements)
	summary.Assignments = assignments
	names := snapshot.SubjectNames()
	for _, outcome := range result.Unplaced() {
		summary.Unplaceable = append(summary.Unplaceable, models.UnplaceableClass{
			BatchID:     outcome.Instance.BatchID,
			SubjectID:   outcome.Instance.SubjectID,
			SubjectName: names[outcome.Instance.SubjectID],
			Reason:      outcome.Reason,
		})
	}
	summary.UnplaceableCount = len(summary.Unplaceable)
	summary.Advisories = scheduler.Advise(snapshot, result.Placements)

	if cacheErr := s.cache.InvalidateTimetables(ctx, scope); cacheErr != nil {
		logger.Warn("timetable cache invalidation failed", zap.Error(cacheErr))
	}
	logger.Info("run completed",
		zap.Int("requested", summary.RequestedCount),
		zap.Int("placed", summary.PlacedCount),
		zap.Int("unplaceable", summary.UnplaceableCount),
		zap.Int64("cleared", summary.ClearedCount),
		zap.Int("advisories", len(summary.Advisories)),
	)
	return summary, nil
}

func (s *SchedulingService) seedFor(seed *int64) int64 {
	switch {
	case seed != nil && *seed != 0:
		return *seed
	case s.cfg.Seed != 0:
		return s.cfg.Seed
	default:
		return s.now().UnixNano()
	}
}

func toAssignments(placements []scheduler.Placement) []models.Assignment {
	out := make([]models.Assignment, 0, len(placements))
	for _, p := range placements {
		out = append(out, models.Assignment{
			BatchID:   p.BatchID,
			SubjectID: p.SubjectID,
			TeacherID: p.TeacherID,
			DayOfWeek: p.Slot.Day.String(),
			Period:    p.Slot.Period,
			Source:    models.AssignmentSourceGenerated,
		})
	}
	return out
}

func batchIDPtr(scope scheduler.Scope) *string {
	if scope.IsGlobal() {
		return nil
	}
	id := scope.BatchID
	return &id
}

// IsRunInProgress reports whether err is the busy-gate error.
func IsRunInProgress(err error) bool {
	return appErrors.IsCode(err, appErrors.ErrRunInProgress.Code) || errors.Is(err, scheduler.ErrRunInProgress)
}
