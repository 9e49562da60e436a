package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/batch-timetable/internal/models"
)

var runTransitions = map[models.RunState][]models.RunState{
	models.RunStateIdle:           {models.RunStateSnapshotLoaded, models.RunStateFailed},
	models.RunStateSnapshotLoaded: {models.RunStateClearing, models.RunStateFailed},
	models.RunStateClearing:       {models.RunStatePlacing, models.RunStateFailed},
	models.RunStatePlacing:        {models.RunStateCommitting, models.RunStateFailed},
	models.RunStateCommitting:     {models.RunStateDone, models.RunStateFailed},
}

// canTransition reports whether a run may move from one state to another.
// Idle may fail too: loading the snapshot is the Idle -> SnapshotLoaded step itself.
func canTransition(from, to models.RunState) bool {
	for _, next := range runTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type runLifecycle struct {
	summary *models.RunSummary
	logger  *zap.Logger
}

func newRunLifecycle(summary *models.RunSummary, logger *zap.Logger) *runLifecycle {
	summary.State = models.RunStateIdle
	return &runLifecycle{summary: summary, logger: logger}
}

func (l *runLifecycle) state() models.RunState {
	return l.summary.State
}

func (l *runLifecycle) advance(to models.RunState) {
	from := l.summary.State
	if !canTransition(from, to) {
		l.logger.DPanic("illegal run state transition", zap.String("from", string(from)), zap.String("to", string(to)))
		return
	}
	l.summary.State = to
	l.logger.Info("run state changed", zap.String("from", string(from)), zap.String("to", string(to)))
}

// fail moves a non-terminal run to FAILED and records the cause.
func (l *runLifecycle) fail(err error) {
	if l.summary.State == models.RunStateDone || l.summary.State == models.RunStateFailed {
		return
	}
	l.summary.Error = err.Error()
	l.logger.Error("run failed", zap.String("from", string(l.summary.State)), zap.Error(err))
	l.advance(models.RunStateFailed)
}
