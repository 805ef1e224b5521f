package ecs

// Registry tracks every store that holds per-entity data so a destroyed
// handle disappears from all of them at once.
type Registry struct {
	stores []Removable
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 4),
	}
}

// Register adds stores to the registry.
func (r *Registry) Register(stores ...Removable) {
	r.stores = append(r.stores, stores...)
}

// RemoveAll clears the given entity from every registered store.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}
