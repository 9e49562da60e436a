package scheduler

import (
	"fmt"
	"strings"
)

const (
	// PeriodsPerDay is the number of teaching periods in a school day.
	PeriodsPerDay = 5
	// LunchPeriod is reserved for the lunch break and never assignable.
	LunchPeriod = 3
)

// Day is a weekday of the timetable grid, Monday = 1.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Days lists the grid's weekdays in iteration order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

var dayNames = map[Day]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
}

var dayIndex = map[string]Day{
	"MONDAY":    Monday,
	"TUESDAY":   Tuesday,
	"WEDNESDAY": Wednesday,
	"THURSDAY":  Thursday,
	"FRIDAY":    Friday,
}

var periodLabels = map[int]string{
	1: "09:30 - 10:20",
	2: "10:20 - 11:10",
	3: "11:10 - 12:00 (LUNCH)",
	4: "12:00 - 12:50",
	5: "12:50 - 01:40",
}

// String returns the upper-case day name stored in the timetable table.
func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DAY(%d)", int(d))
}

// ParseDay accepts a day name in any case, e.g. "Monday" or "MONDAY".
func ParseDay(name string) (Day, bool) {
	day, ok := dayIndex[strings.ToUpper(strings.TrimSpace(name))]
	return day, ok
}

// TimeSlot is one (day, period) cell of the weekly grid.
type TimeSlot struct {
	Day    Day
	Period int
}

// Valid reports whether the slot lies inside the grid, lunch included.
func (s TimeSlot) Valid() bool {
	_, ok := dayNames[s.Day]
	return ok && s.Period >= 1 && s.Period <= PeriodsPerDay
}

// Assignable reports whether a class may be placed in the slot.
func (s TimeSlot) Assignable() bool {
	return s.Valid() && s.Period != LunchPeriod
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%s/%d", s.Day, s.Period)
}

// PeriodLabel returns the wall-clock range for a period.
func PeriodLabel(period int) string {
	return periodLabels[period]
}

// AssignableSlots enumerates every non-lunch slot, day-major.
func AssignableSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, len(Days)*(PeriodsPerDay-1))
	for _, day := range Days {
		for period := 1; period <= PeriodsPerDay; period++ {
			slot := TimeSlot{Day: day, Period: period}
			if slot.Assignable() {
				slots = append(slots, slot)
			}
		}
	}
	return slots
}
