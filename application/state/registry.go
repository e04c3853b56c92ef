package state

import "sync"

// Registry maps user IDs to their stores, creating each on first use.
// Session state lives for the life of the process; an explicit Remove
// drops a user's state on logout.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]*Store)}
}

// ForUser returns the user's store, creating it if absent
func (r *Registry) ForUser(userID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.stores[userID]; ok {
		return s
	}
	s := NewStore(userID)
	r.stores[userID] = s
	return s
}

// Remove drops the user's store
func (r *Registry) Remove(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.stores, userID)
}
