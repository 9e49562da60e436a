package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/models"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, canTransition(models.RunStateIdle, models.RunStateSnapshotLoaded))
	assert.True(t, canTransition(models.RunStatePlacing, models.RunStateCommitting))
	assert.True(t, canTransition(models.RunStateCommitting, models.RunStateFailed))
	assert.False(t, canTransition(models.RunStateIdle, models.RunStatePlacing))
	assert.False(t, canTransition(models.RunStateDone, models.RunStateFailed))
	assert.False(t, canTransition(models.RunStateFailed, models.RunStateIdle))
}

func TestRunLifecycleFail(t *testing.T) {
	summary := &models.RunSummary{}
	life := newRunLifecycle(summary, zap.NewNop())
	life.advance(models.RunStateSnapshotLoaded)
	life.advance(models.RunStateClearing)

	life.fail(errors.New("disk full"))
	assert.Equal(t, models.RunStateFailed, life.state())
	assert.Equal(t, "disk full", summary.Error)

	life.fail(errors.New("second"))
	assert.Equal(t, "disk full", summary.Error)
}

func TestRunStoreExpiry(t *testing.T) {
	store := newRunStore(time.Minute)
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Save(models.RunSummary{RunID: "r1", State: models.RunStateDone})
	got, ok := store.Get("r1")
	assert.True(t, ok)
	assert.Equal(t, models.RunStateDone, got.State)

	now = now.Add(2 * time.Minute)
	_, ok = store.Get("r1")
	assert.False(t, ok)
}
