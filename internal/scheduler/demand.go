package scheduler

import "github.com/noah-isme/batch-timetable/internal/models"

// ClassInstance is one unit of a batch's weekly requirement for a subject.
type ClassInstance struct {
	Index     int
	BatchID   string
	SubjectID string
}

// ExpandDemand emits WeeklyFrequency consecutive instances per workload item,
// keeping item order. Earlier items get first pick of slots.
func ExpandDemand(items []models.WorkloadItem) []ClassInstance {
	total := 0
	for _, item := range items {
		if item.WeeklyFrequency > 0 {
			total += item.WeeklyFrequency
		}
	}
	instances := make([]ClassInstance, 0, total)
	for _, item := range items {
		for i := 0; i < item.WeeklyFrequency; i++ {
			instances = append(instances, ClassInstance{
				Index:     len(instances),
				BatchID:   item.BatchID,
				SubjectID: item.SubjectID,
			})
		}
	}
	return instances
}
