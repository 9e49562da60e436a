package models

import "time"

// RunState enumerates the lifecycle phases of a scheduling run.
type RunState string

const (
	RunStateIdle           RunState = "IDLE"
	RunStateSnapshotLoaded RunState = "SNAPSHOT_LOADED"
	RunStateClearing       RunState = "CLEARING"
	RunStatePlacing        RunState = "PLACING"
	RunStateCommitting     RunState = "COMMITTING"
	RunStateDone           RunState = "DONE"
	RunStateFailed         RunState = "FAILED"
)

// UnplaceableReason explains why a class instance was not placed.
type UnplaceableReason string

const (
	ReasonNoQualifiedTeacher UnplaceableReason = "NO_QUALIFIED_TEACHER"
	ReasonNoFreeSlot         UnplaceableReason = "NO_FREE_SLOT"
)

// AdvisoryType classifies declared limits that placement does not enforce.
type AdvisoryType string

const (
	AdvisoryTeacherWeeklyLoad AdvisoryType = "TEACHER_WEEKLY_LOAD_EXCEEDED"
	AdvisorySubjectDailyLimit AdvisoryType = "SUBJECT_DAILY_LIMIT_EXCEEDED"
)

// UnplaceableClass is one class instance left out of the timetable.
type UnplaceableClass struct {
	BatchID     string            `json:"batch_id"`
	SubjectID   string            `json:"subject_id"`
	SubjectName string            `json:"subject_name,omitempty"`
	Reason      UnplaceableReason `json:"reason"`
}

// Advisory flags a declared-but-unenforced limit that the committed timetable exceeds.
type Advisory struct {
	Type      AdvisoryType `json:"type"`
	TeacherID string       `json:"teacher_id,omitempty"`
	BatchID   string       `json:"batch_id,omitempty"`
	SubjectID string       `json:"subject_id,omitempty"`
	DayOfWeek string       `json:"day_of_week,omitempty"`
	Limit     int          `json:"limit"`
	Actual    int          `json:"actual"`
}

// RunSummary is the outcome of one scheduling run.
type RunSummary struct {
	RunID            string             `json:"run_id"`
	Scope            string             `json:"scope"`
	BatchID          *string            `json:"batch_id,omitempty"`
	State            RunState           `json:"state"`
	Seed             int64              `json:"seed"`
	RequestedCount   int                `json:"requested_count"`
	PlacedCount      int                `json:"placed_count"`
	UnplaceableCount int                `json:"unplaceable_count"`
	ClearedCount     int64              `json:"cleared_count"`
	Unplaceable      []UnplaceableClass `json:"unplaceable"`
	Assignments      []Assignment       `json:"assignments"`
	Advisories       []Advisory         `json:"advisories,omitempty"`
	Error            string             `json:"error,omitempty"`
	StartedAt        time.Time          `json:"started_at"`
	FinishedAt       time.Time          `json:"finished_at"`
	DurationMs       int64              `json:"duration_ms"`
}
