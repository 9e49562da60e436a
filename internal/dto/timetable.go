package dto

import "github.com/noah-isme/batch-timetable/internal/models"

// PeriodInfo describes one period column of the weekly grid.
type PeriodInfo struct {
	Period int    `json:"period"`
	Label  string `json:"label"`
	Lunch  bool   `json:"lunch"`
}

// TimetableResponse is a batch's or teacher's week, ordered by day then period.
type TimetableResponse struct {
	OwnerKind string                  `json:"ownerKind"`
	OwnerID   string                  `json:"ownerId"`
	Days      []string                `json:"days"`
	Periods   []PeriodInfo            `json:"periods"`
	Entries   []models.TimetableEntry `json:"entries"`
}

// OverrideSlotRequest manually assigns a class to a batch slot.
type OverrideSlotRequest struct {
	Day       string `json:"day" validate:"required"`
	Period    int    `json:"period" validate:"required,min=1,max=5"`
	SubjectID string `json:"subjectId" validate:"required"`
	TeacherID string `json:"teacherId" validate:"required"`
}

// ClearSlotQuery identifies a batch slot to clear.
type ClearSlotQuery struct {
	Day    string `form:"day" validate:"required"`
	Period int    `form:"period" validate:"required,min=1,max=5"`
}
