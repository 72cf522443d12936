package route

import (
	"sync"

	"go-sentinel/types"
)

// Store remembers each subject's active route so the emergency flow can
// snapshot it at raise time, the way the original emergency page received
// the route the user was travelling.
type Store struct {
	mu     sync.RWMutex
	routes map[string]types.RouteSummary
}

func NewStore() *Store {
	return &Store{routes: make(map[string]types.RouteSummary)}
}

// Set replaces the subject's active route.
func (s *Store) Set(subjectID string, summary types.RouteSummary) {
	if subjectID == "" {
		return
	}
	s.mu.Lock()
	s.routes[subjectID] = summary
	s.mu.Unlock()
}

// Get returns a copy of the subject's active route. The zero summary is
// returned when no route is known, which the alert payload tolerates.
func (s *Store) Get(subjectID string) (types.RouteSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.routes[subjectID]
	return summary, ok
}

// Clear drops the subject's active route, for trip completion.
func (s *Store) Clear(subjectID string) {
	s.mu.Lock()
	delete(s.routes, subjectID)
	s.mu.Unlock()
}
