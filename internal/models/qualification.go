package models

// Qualification links a teacher to a subject they may teach.
type Qualification struct {
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}

// WorkloadItem states how many classes of a subject a batch needs per week.
type WorkloadItem struct {
	ID              int64  `db:"id" json:"id"`
	BatchID         string `db:"batch_id" json:"batch_id"`
	SubjectID       string `db:"subject_id" json:"subject_id"`
	WeeklyFrequency int    `db:"classes_per_week" json:"classes_per_week"`
}
