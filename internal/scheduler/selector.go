package scheduler

import "github.com/noah-isme/batch-timetable/internal/models"

// Placement is a class instance fixed to a slot and teacher.
type Placement struct {
	BatchID   string
	SubjectID string
	TeacherID string
	Slot      TimeSlot
}

// Selector picks one candidate at random and records it.
type Selector struct {
	rng Rand
}

// NewSelector builds a selector.
func NewSelector(rng Rand) *Selector {
	return &Selector{rng: rng}
}

// Select chooses a candidate uniformly, records it in the registry and returns
// the placement. With no candidates it leaves the registry untouched.
func (s *Selector) Select(instance ClassInstance, candidates []Candidate, registry *Registry) (Placement, models.UnplaceableReason) {
	if len(candidates) == 0 {
		return Placement{}, models.ReasonNoFreeSlot
	}
	chosen := candidates[s.rng.Intn(len(candidates))]
	registry.Record(instance.BatchID, chosen.TeacherID, chosen.Slot)
	return Placement{
		BatchID:   instance.BatchID,
		SubjectID: instance.SubjectID,
		TeacherID: chosen.TeacherID,
		Slot:      chosen.Slot,
	}, ""
}
