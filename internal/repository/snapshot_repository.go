package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/batch-timetable/internal/models"
	"github.com/noah-isme/batch-timetable/internal/scheduler"
)

const (
	selectSubjectsQuery       = `SELECT id, name, short_code, max_per_day, created_at FROM subjects ORDER BY name ASC, id ASC`
	selectTeachersQuery       = `SELECT id, name, specialization, email, max_classes_per_week, created_at FROM teachers ORDER BY name ASC, id ASC`
	selectBatchesQuery        = `SELECT id, name, department, level, created_at FROM batches ORDER BY name ASC, id ASC`
	selectQualificationsQuery = `SELECT teacher_id, subject_id FROM teacher_subjects ORDER BY created_at ASC, teacher_id ASC`
	selectWorkloadQuery       = `SELECT id, batch_id, subject_id, classes_per_week FROM batch_subjects`
	selectAssignmentsQuery    = `SELECT id, batch_id, subject_id, teacher_id, day_of_week, period, source, created_at FROM timetable ORDER BY batch_id ASC, day_of_week ASC, period ASC`
)

// SnapshotRepository loads the reference data a scheduling run works from.
type SnapshotRepository struct {
	db *sqlx.DB
}

// NewSnapshotRepository builds the repository.
func NewSnapshotRepository(db *sqlx.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// LoadSnapshot reads subjects, teachers, batches, qualifications, the workload
// restricted to scope (in stored order) and every existing timetable row.
func (r *SnapshotRepository) LoadSnapshot(ctx context.Context, exec sqlx.ExtContext, scope scheduler.Scope) (*scheduler.Snapshot, error) {
	target := r.exec(exec)
	snapshot := &scheduler.Snapshot{Scope: scope}

	if err := sqlx.SelectContext(ctx, target, &snapshot.Subjects, selectSubjectsQuery); err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	if err := sqlx.SelectContext(ctx, target, &snapshot.Teachers, selectTeachersQuery); err != nil {
		return nil, fmt.Errorf("load teachers: %w", err)
	}
	if err := sqlx.SelectContext(ctx, target, &snapshot.Batches, selectBatchesQuery); err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}
	if err := sqlx.SelectContext(ctx, target, &snapshot.Qualifications, selectQualificationsQuery); err != nil {
		return nil, fmt.Errorf("load qualifications: %w", err)
	}

	query := selectWorkloadQuery
	var args []interface{}
	if !scope.IsGlobal() {
		query += ` WHERE batch_id = $1`
		args = append(args, scope.BatchID)
	}
	query += ` ORDER BY id ASC`
	if err := sqlx.SelectContext(ctx, target, &snapshot.Workload, query, args...); err != nil {
		return nil, fmt.Errorf("load workload: %w", err)
	}

	if err := sqlx.SelectContext(ctx, target, &snapshot.Assignments, selectAssignmentsQuery); err != nil {
		return nil, fmt.Errorf("load timetable: %w", err)
	}
	return snapshot, nil
}

// ListBatches returns every batch.
func (r *SnapshotRepository) ListBatches(ctx context.Context) ([]models.Batch, error) {
	var batches []models.Batch
	if err := r.db.SelectContext(ctx, &batches, selectBatchesQuery); err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// BatchExists reports whether a batch with the id is stored.
func (r *SnapshotRepository) BatchExists(ctx context.Context, batchID string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM batches WHERE id = $1)`, batchID); err != nil {
		return false, fmt.Errorf("check batch exists: %w", err)
	}
	return exists, nil
}

// TeacherExists reports whether a teacher with the id is stored.
func (r *SnapshotRepository) TeacherExists(ctx context.Context, teacherID string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)`, teacherID); err != nil {
		return false, fmt.Errorf("check teacher exists: %w", err)
	}
	return exists, nil
}
