package scheduler

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-timetable/internal/models"
)

func TestSelectorEmptyCandidates(t *testing.T) {
	reg := NewRegistry()
	selector := NewSelector(rand.New(rand.NewSource(1)))

	_, reason := selector.Select(ClassInstance{BatchID: "a", SubjectID: "math"}, nil, reg)

	assert.Equal(t, models.ReasonNoFreeSlot, reason)
	assert.Zero(t, reg.Len())
}

func TestSelectorRecordsChoice(t *testing.T) {
	reg := NewRegistry()
	selector := NewSelector(rand.New(rand.NewSource(1)))
	candidates := []Candidate{
		{Slot: TimeSlot{Day: Monday, Period: 1}, TeacherID: "t1"},
		{Slot: TimeSlot{Day: Tuesday, Period: 2}, TeacherID: "t2"},
	}

	placement, reason := selector.Select(ClassInstance{BatchID: "a", SubjectID: "math"}, candidates, reg)

	require.Empty(t, reason)
	assert.Equal(t, "a", placement.BatchID)
	assert.Equal(t, "math", placement.SubjectID)
	assert.Contains(t, candidates, Candidate{Slot: placement.Slot, TeacherID: placement.TeacherID})
	assert.False(t, reg.IsFree(EntityBatch, "a", placement.Slot))
	assert.False(t, reg.IsFree(EntityTeacher, placement.TeacherID, placement.Slot))
}
