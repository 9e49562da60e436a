package dto

import "github.com/noah-isme/batch-timetable/internal/models"

// Run scope kinds accepted by RunRequest.
const (
	ScopeAll   = "all"
	ScopeBatch = "batch"
)

// RunRequest asks for a scheduling run over every batch or a single batch.
type RunRequest struct {
	Scope   string `json:"scope" validate:"required,oneof=all batch"`
	BatchID string `json:"batchId" validate:"required_if=Scope batch"`
	// Seed makes the run reproducible; omitted uses the configured source.
	Seed *int64 `json:"seed,omitempty"`
	// Wait blocks behind a running run instead of failing with RUN_IN_PROGRESS.
	Wait bool `json:"-"`
}

// RunAcceptedResponse is returned when a run is queued.
type RunAcceptedResponse struct {
	RunID string          `json:"runId"`
	State models.RunState `json:"state"`
	Scope string          `json:"scope"`
}

// ReportQuery selects the run report encoding.
type ReportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
}
