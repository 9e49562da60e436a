package scheduler

import (
	"context"
	"errors"
	"sync"
)

// ErrRunInProgress is returned by TryAcquire while another run holds the gate.
var ErrRunInProgress = errors.New("scheduling run already in progress")

// Gate serialises scheduling runs. Every run reads the whole grid and rewrites
// part of it, so a run of any scope excludes every other run: scoped runs for
// different batches still share teachers.
type Gate struct {
	sem    chan struct{}
	mu     sync.Mutex
	active *Scope
}

// NewGate builds an open gate.
func NewGate() *Gate {
	return &Gate{sem: make(chan struct{}, 1)}
}

// Acquire blocks until the gate is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context, scope Scope) (func(), error) {
	select {
	case g.sem <- struct{}{}:
		return g.enter(scope), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// TryAcquire takes the gate only if it is free.
func (g *Gate) TryAcquire(scope Scope) (func(), error) {
	select {
	case g.sem <- struct{}{}:
		return g.enter(scope), nil
	default:
		return nil, ErrRunInProgress
	}
}

// Active returns the scope of the run holding the gate.
func (g *Gate) Active() (Scope, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.active == nil {
		return Scope{}, false
	}
	return *g.active, true
}

func (g *Gate) enter(scope Scope) func() {
	g.mu.Lock()
	g.active = &scope
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			g.active = nil
			g.mu.Unlock()
			<-g.sem
		})
	}
}
