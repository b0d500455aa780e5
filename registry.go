// Copyright 2026 The cake Authors
// Licensed under the MIT license. See license text in the LICENSE file.

package cake

import (
	"sort"
	"sync"
)

// InstanceID identifies a peripheral instance in a circuit.
//
type InstanceID int

// Hook is called on instance state creation or destruction.
//
type Hook func(id InstanceID, state interface{})

// Registry holds the runtime state of peripheral instances.
//
// States are created on first use and live until destroyed. A Registry is
// safe for concurrent use: the simulation creates states while a renderer
// reads them.
//
type Registry struct {
	mu sync.RWMutex
	m  map[InstanceID]interface{}

	hmu       sync.Mutex
	onCreate  []Hook
	onDestroy []Hook
}

// NewRegistry returns an empty registry.
//
func NewRegistry() *Registry {
	return &Registry{m: make(map[InstanceID]interface{})}
}

// OnCreate registers a hook called after a state is created.
//
func (r *Registry) OnCreate(h Hook) {
	r.hmu.Lock()
	r.onCreate = append(r.onCreate, h)
	r.hmu.Unlock()
}

// OnDestroy registers a hook called after a state is destroyed.
//
func (r *Registry) OnDestroy(h Hook) {
	r.hmu.Lock()
	r.onDestroy = append(r.onDestroy, h)
	r.hmu.Unlock()
}

func (r *Registry) hooks(create bool) []Hook {
	r.hmu.Lock()
	defer r.hmu.Unlock()
	if create {
		return r.onCreate
	}
	return r.onDestroy
}

// Get returns the state of instance id.
//
func (r *Registry) Get(id InstanceID) (interface{}, bool) {
	r.mu.RLock()
	s, ok := r.m[id]
	r.mu.RUnlock()
	return s, ok
}

// GetOrCreate returns the state of instance id, creating it with newState if
// it does not exist yet.
//
func (r *Registry) GetOrCreate(id InstanceID, newState func() interface{}) interface{} {
	if s, ok := r.Get(id); ok {
		return s
	}
	r.mu.Lock()
	s, ok := r.m[id]
	if !ok {
		s = newState()
		r.m[id] = s
	}
	r.mu.Unlock()
	if !ok {
		for _, h := range r.hooks(true) {
			h(id, s)
		}
	}
	return s
}

// Destroy removes the state of instance id. It reports whether a state was
// removed.
//
func (r *Registry) Destroy(id InstanceID) bool {
	r.mu.Lock()
	s, ok := r.m[id]
	delete(r.m, id)
	r.mu.Unlock()
	if ok {
		for _, h := range r.hooks(false) {
			h(id, s)
		}
	}
	return ok
}

// IDs returns the ids of all live instances in increasing order.
//
func (r *Registry) IDs() []InstanceID {
	r.mu.RLock()
	ids := make([]InstanceID, 0, len(r.m))
	for id := range r.m {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of live instances.
//
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Clear destroys all states.
//
func (r *Registry) Clear() {
	for _, id := range r.IDs() {
		r.Destroy(id)
	}
}
