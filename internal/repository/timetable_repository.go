package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/internal/scheduler"
)

// RunLockKey is the pg_advisory_xact_lock key shared by every scheduling run.
const RunLockKey int64 = 0x7469_6d65_7461_626c

// commitChunkSize keeps each multi-row insert well under the 65535 bind parameter limit.
const commitChunkSize = 500

const timetableEntryColumns = `t.id, t.batch_id, b.name AS batch_name, t.subject_id, s.name AS subject_name,
t.teacher_id, te.name AS teacher_name, t.day_of_week, t.period, t.source
FROM timetable t
JOIN batches b ON b.id = t.batch_id
JOIN subjects s ON s.id = t.subject_id
JOIN teachers te ON te.id = t.teacher_id`

const timetableOrder = ` ORDER BY array_position(ARRAY['MONDAY','TUESDAY','WEDNESDAY','THURSDAY','FRIDAY']::text[], t.day_of_week) ASC, t.period ASC`

// TimetableRepository persists timetable assignments.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository builds the repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

func (r *TimetableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// AcquireRunLock takes the transaction-scoped advisory lock serialising runs across processes.
// It must be called on a transaction; the lock is released on commit or rollback.
func (r *TimetableRepository) AcquireRunLock(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := r.exec(exec).ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, RunLockKey); err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	return nil
}

// ClearAssignments deletes every row inside the scope and reports how many were removed.
func (r *TimetableRepository) ClearAssignments(ctx context.Context, exec sqlx.ExtContext, scope scheduler.Scope) (int64, error) {
	query := `DELETE FROM timetable`
	var args []interface{}
	if !scope.IsGlobal() {
		query += ` WHERE batch_id = $1`
		args = append(args, scope.BatchID)
	}
	res, err := r.exec(exec).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("clear timetable (%s): %w", scope, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear timetable rows affected: %w", err)
	}
	return affected, nil
}

// CommitAssignments bulk inserts assignments, filling ids and timestamps when absent.
func (r *TimetableRepository) CommitAssignments(ctx context.Context, exec sqlx.ExtContext, assignments []models.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}
	target := r.exec(exec)
	now := time.Now().UTC()
	for i := range assignments {
		a := &assignments[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.Source == "" {
			a.Source = models.AssignmentSourceGenerated
		}
	}

	const query = `INSERT INTO timetable (id, batch_id, subject_id, teacher_id, day_of_week, period, source, created_at)
VALUES (:id, :batch_id, :subject_id, :teacher_id, :day_of_week, :period, :source, :created_at)`

	for start := 0; start < len(assignments); start += commitChunkSize {
		end := start + commitChunkSize
		if end > len(assignments) {
			end = len(assignments)
		}
		if _, err := sqlx.NamedExecContext(ctx, target, query, assignments[start:end]); err != nil {
			return fmt.Errorf("insert timetable rows: %w", translatePQError(err))
		}
	}
	return nil
}

// ListByBatch returns a batch's timetable ordered by day then period.
func (r *TimetableRepository) ListByBatch(ctx context.Context, batchID string) ([]models.TimetableEntry, error) {
	query := `SELECT ` + timetableEntryColumns + ` WHERE t.batch_id = $1` + timetableOrder
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, batchID); err != nil {
		return nil, fmt.Errorf("list timetable for batch: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns a teacher's timetable ordered by day then period.
func (r *TimetableRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error) {
	query := `SELECT ` + timetableEntryColumns + ` WHERE t.teacher_id = $1` + timetableOrder
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list timetable for teacher: %w", err)
	}
	return entries, nil
}

// UpsertSlot writes a manual assignment into a batch slot, replacing whatever held it.
func (r *TimetableRepository) UpsertSlot(ctx context.Context, exec sqlx.ExtContext, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	assignment.Source = models.AssignmentSourceManual

	const query = `INSERT INTO timetable (id, batch_id, subject_id, teacher_id, day_of_week, period, source, created_at)
VALUES (:id, :batch_id, :subject_id, :teacher_id, :day_of_week, :period, :source, :created_at)
ON CONFLICT (batch_id, day_of_week, period) DO UPDATE
SET subject_id = EXCLUDED.subject_id,
    teacher_id = EXCLUDED.teacher_id,
    source = EXCLUDED.source
RETURNING id`

	rows, err := sqlx.NamedQueryContext(ctx, r.exec(exec), query, assignment)
	if err != nil {
		return fmt.Errorf("upsert timetable slot: %w", translatePQError(err))
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&assignment.ID); err != nil {
			return fmt.Errorf("scan timetable slot id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("upsert timetable slot: %w", translatePQError(err))
	}
	return nil
}

// DeleteSlot removes a batch's assignment at a slot and reports whether a row existed.
func (r *TimetableRepository) DeleteSlot(ctx context.Context, exec sqlx.ExtContext, batchID, day string, period int) (bool, error) {
	res, err := r.exec(exec).ExecContext(ctx,
		`DELETE FROM timetable WHERE batch_id = $1 AND day_of_week = $2 AND period = $3`,
		batchID, day, period)
	if err != nil {
		return false, fmt.Errorf("delete timetable slot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete timetable slot rows affected: %w", err)
	}
	return affected > 0, nil
}
