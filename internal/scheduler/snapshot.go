package scheduler

import "github.com/noah-isme/batch-timetable/internal/models"

// Snapshot is the in-memory view of the domain a run works from. Workload is
// restricted to the scope; Assignments always cover the whole grid.
type Snapshot struct {
	Scope          Scope
	Subjects       []models.Subject
	Teachers       []models.Teacher
	Batches        []models.Batch
	Qualifications []models.Qualification
	Workload       []models.WorkloadItem
	Assignments    []models.Assignment
}

// HasBatch reports whether the batch exists in the snapshot.
func (s *Snapshot) HasBatch(batchID string) bool {
	for _, batch := range s.Batches {
		if batch.ID == batchID {
			return true
		}
	}
	return false
}

// SubjectNames maps subject id to display name.
func (s *Snapshot) SubjectNames() map[string]string {
	names := make(map[string]string, len(s.Subjects))
	for _, subject := range s.Subjects {
		names[subject.ID] = subject.Name
	}
	return names
}

// Retained returns the commitments of assignments outside the scope. These
// survive the clearing step and must keep blocking new placements.
func (s *Snapshot) Retained() []Commitment {
	var commitments []Commitment
	for _, item := range s.Assignments {
		if s.Scope.Includes(item.BatchID) {
			continue
		}
		day, ok := ParseDay(item.DayOfWeek)
		if !ok {
			continue
		}
		commitments = append(commitments, Commitment{
			BatchID:   item.BatchID,
			TeacherID: item.TeacherID,
			Slot:      TimeSlot{Day: day, Period: item.Period},
		})
	}
	return commitments
}

// RetainedAssignments returns the assignments outside the scope.
func (s *Snapshot) RetainedAssignments() []models.Assignment {
	var kept []models.Assignment
	for _, item := range s.Assignments {
		if !s.Scope.Includes(item.BatchID) {
			kept = append(kept, item)
		}
	}
	return kept
}
