package scheduler

import (
	"sort"

	"github.com/noah-isme/batch-timetable/internal/models"
)

// Advise reports declared limits (teacher weekly load, subject per-day cap) that
// the final timetable exceeds. Placement never enforces these limits.
func Advise(snapshot *Snapshot, placements []Placement) []models.Advisory {
	teacherLoad := make(map[string]int)
	type dailyKey struct {
		batchID   string
		subjectID string
		day       string
	}
	daily := make(map[dailyKey]int)

	for _, item := range snapshot.RetainedAssignments() {
		teacherLoad[item.TeacherID]++
		daily[dailyKey{item.BatchID, item.SubjectID, item.DayOfWeek}]++
	}
	for _, p := range placements {
		teacherLoad[p.TeacherID]++
		daily[dailyKey{p.BatchID, p.SubjectID, p.Slot.Day.String()}]++
	}

	var advisories []models.Advisory
	for _, teacher := range snapshot.Teachers {
		if teacher.MaxClassesPerWeek > 0 && teacherLoad[teacher.ID] > teacher.MaxClassesPerWeek {
			advisories = append(advisories, models.Advisory{
				Type:      models.AdvisoryTeacherWeeklyLoad,
				TeacherID: teacher.ID,
				Limit:     teacher.MaxClassesPerWeek,
				Actual:    teacherLoad[teacher.ID],
			})
		}
	}

	limits := make(map[string]int, len(snapshot.Subjects))
	for _, subject := range snapshot.Subjects {
		limits[subject.ID] = subject.MaxPerDay
	}
	var exceeded []models.Advisory
	for key, count := range daily {
		limit := limits[key.subjectID]
		if limit > 0 && count > limit {
			exceeded = append(exceeded, models.Advisory{
				Type:      models.AdvisorySubjectDailyLimit,
				BatchID:   key.batchID,
				SubjectID: key.subjectID,
				DayOfWeek: key.day,
				Limit:     limit,
				Actual:    count,
			})
		}
	}
	sort.Slice(exceeded, func(i, j int) bool {
		a, b := exceeded[i], exceeded[j]
		if a.BatchID != b.BatchID {
			return a.BatchID < b.BatchID
		}
		if a.SubjectID != b.SubjectID {
			return a.SubjectID < b.SubjectID
		}
		da, _ := ParseDay(a.DayOfWeek)
		db, _ := ParseDay(b.DayOfWeek)
		return da < db
	})
	return append(advisories, exceeded...)
}
