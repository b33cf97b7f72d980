package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState describes what the service is doing with the docs tree.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	// Repository is the state of the docs store when it exposes one.
	Repository      any           `json:"repository,omitempty"`
	EventBufferSize int           `json:"event_buffer_size"`
	Watchers        int           `json:"watchers"`
	DroppedEvents   int           `json:"dropped_events"`
	LastCheck       *CheckSummary `json:"last_check,omitempty"`
}

// CheckSummary condenses the most recent Check.
type CheckSummary struct {
	At        time.Time `json:"at"`
	Sidebars  int       `json:"sidebars"`
	Documents int       `json:"documents"`
	Problems  int       `json:"problems"`
	Dangling  int       `json:"dangling"`
	Unlisted  int       `json:"unlisted"`
}

func (s *Service) recordCheck(sidebars int, r Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCheck = &CheckSummary{
		At:        time.Now(),
		Sidebars:  sidebars,
		Documents: r.Documents,
		Problems:  len(r.Problems),
		Dangling:  len(r.Dangling),
		Unlisted:  len(r.Unlisted),
	}
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := ServiceState{
		RepositoryType:  "unknown",
		EventBufferSize: s.eventBufferSize,
		Watchers:        s.watchers,
		DroppedEvents:   s.dropped,
	}
	if s.lastCheck != nil {
		last := *s.lastCheck
		state.LastCheck = &last
	}
	if s.repo != nil {
		state.RepositoryType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			state.RepositoryType = comp.ComponentType()
		}
		if in, ok := s.repo.(introspection.Introspectable); ok {
			state.Repository = in.State()
		}
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
