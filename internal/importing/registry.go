package importing

import (
	"sync"

	"github.com/google/uuid"
)

// Registry hands out the one Manager per project. Lookups racing on the same
// project always get the same instance, which is what makes the
// one-import-at-a-time rule hold process-wide.
type Registry struct {
	newManager func(projectID uuid.UUID) *Manager

	mu       sync.Mutex
	managers map[uuid.UUID]*Manager
}

func NewRegistry(factory func(projectID uuid.UUID) *Manager) *Registry {
	return &Registry{
		newManager: factory,
		managers:   make(map[uuid.UUID]*Manager),
	}
}

// For returns the project's manager, creating it on first use.
func (r *Registry) For(projectID uuid.UUID) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.managers[projectID]
	if !ok {
		m = r.newManager(projectID)
		r.managers[projectID] = m
	}
	return m
}
