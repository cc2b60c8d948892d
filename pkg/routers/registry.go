package routers

import (
	"sort"
	"sync"
)

// Registry maps router types to adapters. The dispatcher never switches on
// vendor; adding a vendor means registering one more adapter.
type Registry struct {
	mu       sync.RWMutex
	adapters map[RouterType]Adapter
}

// NewRegistry returns a registry with every known vendor registered.
// Only Mikrotik is implemented; the others are stubs.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[RouterType]Adapter)}
	r.Register(NewMikrotikAdapter())
	r.Register(NewOPNsenseAdapter())
	r.Register(NewPfSenseAdapter())
	r.Register(NewUniFiAdapter())
	return r
}

// Register adds or replaces the adapter for its router type.
func (r *Registry) Register(a Adapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[a.Type()] = a
}

// Lookup returns the adapter for t. It fails with *UnsupportedVendorError
// when t has no adapter or only a stub.
func (r *Registry) Lookup(t RouterType) (Adapter, error) {
	r.mu.RLock()
	a, ok := r.adapters[t]
	r.mu.RUnlock()

	if !ok || !a.Implemented() {
		return nil, &UnsupportedVendorError{RouterType: t}
	}
	return a, nil
}

// Get returns the adapter for t, implemented or not.
func (r *Registry) Get(t RouterType) (Adapter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.adapters[t]
	return a, ok
}

// Supported returns the implemented router types in sorted order.
func (r *Registry) Supported() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.adapters))
	for t, a := range r.adapters {
		if a.Implemented() {
			types = append(types, string(t))
		}
	}
	sort.Strings(types)
	return types
}
