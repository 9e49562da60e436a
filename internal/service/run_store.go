package service

import (
	"sync"
	"time"

	"github.com/noah-isme/batch-timetable/internal/models"
)

type storedRun struct {
	summary models.RunSummary
	savedAt time.Time
}

// runStore keeps recent run summaries in memory for status polling and reports.
type runStore struct {
	ttl   time.Duration
	now   func() time.Time
	mu    sync.RWMutex
	items map[string]storedRun
}

func newRunStore(ttl time.Duration) *runStore {
	return &runStore{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]storedRun),
	}
}

// Save stores a copy of the summary and prunes expired entries.
func (s *runStore) Save(summary models.RunSummary) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[summary.RunID] = storedRun{summary: summary, savedAt: now}
	for id, item := range s.items {
		if now.Sub(item.savedAt) > s.ttl {
			delete(s.items, id)
		}
	}
}

func (s *runStore) Get(id string) (models.RunSummary, bool) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return models.RunSummary{}, false
	}
	if s.now().Sub(item.savedAt) > s.ttl {
		s.Delete(id)
		return models.RunSummary{}, false
	}
	return item.summary, true
}

func (s *runStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}
