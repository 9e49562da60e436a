package models

import "time"

// AssignmentSource records who created a timetable row.
type AssignmentSource string

const (
	AssignmentSourceGenerated AssignmentSource = "GENERATED"
	AssignmentSourceManual    AssignmentSource = "MANUAL"
)

// Assignment is a scheduled class: a batch taking a subject with a teacher at a slot.
// Each row is also the commitment of both the batch and the teacher at that slot.
type Assignment struct {
	ID        string           `db:"id" json:"id"`
	BatchID   string           `db:"batch_id" json:"batch_id"`
	SubjectID string           `db:"subject_id" json:"subject_id"`
	TeacherID string           `db:"teacher_id" json:"teacher_id"`
	DayOfWeek string           `db:"day_of_week" json:"day_of_week"`
	Period    int              `db:"period" json:"period"`
	Source    AssignmentSource `db:"source" json:"source"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// TimetableEntry is a denormalised timetable row for read views.
type TimetableEntry struct {
	ID          string           `db:"id" json:"id"`
	BatchID     string           `db:"batch_id" json:"batch_id"`
	BatchName   string           `db:"batch_name" json:"batch_name"`
	SubjectID   string           `db:"subject_id" json:"subject_id"`
	SubjectName string           `db:"subject_name" json:"subject_name"`
	TeacherID   string           `db:"teacher_id" json:"teacher_id"`
	TeacherName string           `db:"teacher_name" json:"teacher_name"`
	DayOfWeek   string           `db:"day_of_week" json:"day_of_week"`
	Period      int              `db:"period" json:"period"`
	Source      AssignmentSource `db:"source" json:"source"`
	Time        string           `db:"-" json:"time"`
}
