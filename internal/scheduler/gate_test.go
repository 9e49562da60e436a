package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateSerialisesRuns(t *testing.T) {
	gate := NewGate()

	release, err := gate.TryAcquire(SingleBatch("b1"))
	require.NoError(t, err)

	active, ok := gate.Active()
	require.True(t, ok)
	assert.Equal(t, "batch:b1", active.String())

	_, err = gate.TryAcquire(SingleBatch("b2"))
	assert.ErrorIs(t, err, ErrRunInProgress)
	_, err = gate.TryAcquire(AllBatches())
	assert.ErrorIs(t, err, ErrRunInProgress)

	release()
	release()

	_, ok = gate.Active()
	assert.False(t, ok)

	releaseGlobal, err := gate.TryAcquire(AllBatches())
	require.NoError(t, err)
	releaseGlobal()
}

func TestGateAcquireHonoursContext(t *testing.T) {
	gate := NewGate()
	release, err := gate.Acquire(context.Background(), AllBatches())
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = gate.Acquire(ctx, SingleBatch("b1"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGateAcquireWaitsForRelease(t *testing.T) {
	gate := NewGate()
	release, err := gate.Acquire(context.Background(), AllBatches())
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		next, err := gate.Acquire(context.Background(), SingleBatch("b1"))
		if err == nil {
			next()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second run entered while first held the gate")
	case <-time.After(20 * time.Millisecond):
	}
	release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second run never entered")
	}
}
