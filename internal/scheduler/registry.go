package scheduler

// EntityKind distinguishes the two sides of a commitment.
type EntityKind uint8

const (
	EntityBatch EntityKind = iota + 1
	EntityTeacher
)

// Commitment is an existing occupancy of a batch and a teacher at a slot.
type Commitment struct {
	BatchID   string
	TeacherID string
	Slot      TimeSlot
}

type occupancyKey struct {
	kind EntityKind
	id   string
	slot TimeSlot
}

// Registry indexes which (entity, slot) pairs are occupied during a run.
// It is owned by a single run and is not safe for concurrent use.
type Registry struct {
	occupied map[occupancyKey]struct{}
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{occupied: make(map[occupancyKey]struct{})}
}

// Seed records existing commitments.
func (r *Registry) Seed(commitments []Commitment) {
	for _, c := range commitments {
		r.Record(c.BatchID, c.TeacherID, c.Slot)
	}
}

// IsFree reports whether the entity has no commitment at the slot.
func (r *Registry) IsFree(kind EntityKind, id string, slot TimeSlot) bool {
	_, taken := r.occupied[occupancyKey{kind: kind, id: id, slot: slot}]
	return !taken
}

// Record marks both the batch and the teacher as occupied at the slot.
func (r *Registry) Record(batchID, teacherID string, slot TimeSlot) {
	if batchID != "" {
		r.occupied[occupancyKey{kind: EntityBatch, id: batchID, slot: slot}] = struct{}{}
	}
	if teacherID != "" {
		r.occupied[occupancyKey{kind: EntityTeacher, id: teacherID, slot: slot}] = struct{}{}
	}
}

// Len returns the number of occupancy facts held.
func (r *Registry) Len() int {
	return len(r.occupied)
}
