package scheduler

import "github.com/noah-isme/batch-timetable/internal/models"

// Candidate is a feasible placement for one class instance.
type Candidate struct {
	Slot      TimeSlot
	TeacherID string
}

// QualificationIndex maps a subject to its qualified teachers in stored order.
type QualificationIndex map[string][]string

// IndexQualifications builds the subject -> teachers index, dropping duplicates.
func IndexQualifications(items []models.Qualification) QualificationIndex {
	index := make(QualificationIndex)
	seen := make(map[models.Qualification]bool, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		index[item.SubjectID] = append(index[item.SubjectID], item.TeacherID)
	}
	return index
}

// Qualified reports whether the teacher may teach the subject.
func (q QualificationIndex) Qualified(teacherID, subjectID string) bool {
	for _, id := range q[subjectID] {
		if id == teacherID {
			return true
		}
	}
	return false
}

// Finder computes feasible slots for a class instance.
type Finder struct {
	qualified QualificationIndex
	rng       Rand
}

// NewFinder builds a finder over the qualification index.
func NewFinder(qualified QualificationIndex, rng Rand) *Finder {
	return &Finder{qualified: qualified, rng: rng}
}

// FindCandidates returns one candidate per slot where the batch and at least one
// qualified teacher are free. When several teachers are free the teacher is
// drawn at random, so each slot carries the same weight. The reason is set only
// when the subject has no qualified teacher at all.
func (f *Finder) FindCandidates(instance ClassInstance, registry *Registry) ([]Candidate, models.UnplaceableReason) {
	teachers := f.qualified[instance.SubjectID]
	if len(teachers) == 0 {
		return nil, models.ReasonNoQualifiedTeacher
	}

	var candidates []Candidate
	available := make([]string, 0, len(teachers))
	for _, slot := range AssignableSlots() {
		if !registry.IsFree(EntityBatch, instance.BatchID, slot) {
			continue
		}
		available = available[:0]
		for _, teacherID := range teachers {
			if registry.IsFree(EntityTeacher, teacherID, slot) {
				available = append(available, teacherID)
			}
		}
		if len(available) == 0 {
			continue
		}
		candidates = append(candidates, Candidate{
			Slot:      slot,
			TeacherID: available[f.rng.Intn(len(available))],
		})
	}
	return candidates, ""
}
