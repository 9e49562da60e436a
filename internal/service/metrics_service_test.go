package service

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/batch-timetable/internal/models"
)

func TestMetricsServiceObserveRun(t *testing.T) {
	m := NewMetricsService()

	m.ObserveRun(&models.RunSummary{
		Scope:            "all",
		State:            models.RunStateDone,
		PlacedCount:      5,
		UnplaceableCount: 2,
		Unplaceable: []models.UnplaceableClass{
			{Reason: models.ReasonNoFreeSlot},
			{Reason: models.ReasonNoQualifiedTeacher},
		},
		DurationMs: 40,
	})
	m.ObserveRun(&models.RunSummary{Scope: "batch", State: models.RunStateFailed})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("all", "DONE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runsTotal.WithLabelValues("batch", "FAILED")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.classOutcomes.WithLabelValues("PLACED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classOutcomes.WithLabelValues("NO_FREE_SLOT")))

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RunsTotal)
	assert.Equal(t, uint64(1), snap.RunsFailed)
	assert.Equal(t, uint64(5), snap.ClassesPlaced)
	assert.Equal(t, uint64(2), snap.ClassesUnplaceable)
}

func TestMetricsServiceCacheRatio(t *testing.T) {
	m := NewMetricsService()
	m.RecordCacheOperation(true, 0)
	m.RecordCacheOperation(false, 0)
	m.RecordCacheOperation(true, 0)

	assert.InDelta(t, 2.0/3.0, testutil.ToFloat64(m.cacheHitRatio), 1e-9)

	m.SetRunInProgress(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runInProgress))

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveRun(&models.RunSummary{})
	m.RecordCacheOperation(true, 0)
	m.SetRunInProgress(true)
	assert.Equal(t, MetricsSnapshot{}, m.Snapshot())
}
