package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignableSlotsSkipLunch(t *testing.T) {
	slots := AssignableSlots()
	assert.Len(t, slots, 20)
	assert.Equal(t, TimeSlot{Day: Monday, Period: 1}, slots[0])
	assert.Equal(t, TimeSlot{Day: Monday, Period: 4}, slots[2])
	assert.Equal(t, TimeSlot{Day: Friday, Period: 5}, slots[len(slots)-1])
	for _, slot := range slots {
		assert.NotEqual(t, LunchPeriod, slot.Period)
	}
}

func TestParseDay(t *testing.T) {
	day, ok := ParseDay(" monday ")
	assert.True(t, ok)
	assert.Equal(t, Monday, day)
	assert.Equal(t, "MONDAY", day.String())

	_, ok = ParseDay("SATURDAY")
	assert.False(t, ok)
}

func TestTimeSlotBounds(t *testing.T) {
	assert.True(t, TimeSlot{Day: Friday, Period: 5}.Assignable())
	assert.True(t, TimeSlot{Day: Friday, Period: LunchPeriod}.Valid())
	assert.False(t, TimeSlot{Day: Friday, Period: LunchPeriod}.Assignable())
	assert.False(t, TimeSlot{Day: Friday, Period: 6}.Valid())
	assert.False(t, TimeSlot{Day: Day(6), Period: 1}.Valid())
	assert.Equal(t, "11:10 - 12:00 (LUNCH)", PeriodLabel(LunchPeriod))
}

func TestScope(t *testing.T) {
	all := AllBatches()
	assert.True(t, all.IsGlobal())
	assert.True(t, all.Includes("anything"))
	assert.Equal(t, "all", all.Kind())

	one := SingleBatch("CSE-A")
	assert.False(t, one.IsGlobal())
	assert.True(t, one.Includes("CSE-A"))
	assert.False(t, one.Includes("CSE-B"))
	assert.Equal(t, "batch", one.Kind())
	assert.Equal(t, "batch:CSE-A", one.String())
}

func TestNewRandDeterministic(t *testing.T) {
	a, b := NewRand(11), NewRand(11)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.Intn(100), b.Intn(100))
	}
}
