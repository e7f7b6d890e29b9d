package registry

import (
	"context"
	"sync"

	"github.com/questx-lab/classroom/internal/domain/notification/event"
)

type memoryRegistry struct {
	hubs map[string]*Hub

	// mutex guards hubs. Registering into a hub happens under the read lock
	// so that a hub is never removed while a connection is joining it.
	mutex sync.RWMutex
}

func NewMemoryRegistry() *memoryRegistry {
	return &memoryRegistry{hubs: make(map[string]*Hub)}
}

func (r *memoryRegistry) Join(_ context.Context, group string, conn Conn) error {
	r.mutex.RLock()
	hub, ok := r.hubs[group]
	if ok {
		hub.Register(conn)
	}
	r.mutex.RUnlock()
	if ok {
		return nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	// Double check.
	hub, ok = r.hubs[group]
	if !ok {
		hub = NewHub(group)
		r.hubs[group] = hub
	}
	hub.Register(conn)

	return nil
}

func (r *memoryRegistry) Leave(_ context.Context, group string, connID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	hub, ok := r.hubs[group]
	if !ok {
		return nil
	}

	hub.Unregister(connID)
	if hub.IsEmpty() {
		delete(r.hubs, group)
	}

	return nil
}

func (r *memoryRegistry) Send(_ context.Context, group string, ev *event.EventRequest) error {
	r.mutex.RLock()
	hub, ok := r.hubs[group]
	r.mutex.RUnlock()

	if ok {
		hub.Broadcast(ev)
	}

	return nil
}

func (r *memoryRegistry) Count(_ context.Context, group string) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	hub, ok := r.hubs[group]
	if !ok {
		return 0, nil
	}

	return hub.Size(), nil
}

// Groups returns the names of groups which have at least one connection.
func (r *memoryRegistry) Groups() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	groups := make([]string, 0, len(r.hubs))
	for g := range r.hubs {
		groups = append(groups, g)
	}

	return groups
}

// Members returns the ids of connections in group.
func (r *memoryRegistry) Members(group string) []string {
	r.mutex.RLock()
	hub, ok := r.hubs[group]
	r.mutex.RUnlock()
	if !ok {
		return nil
	}

	members := []string{}
	hub.conns.Range(func(connID string, _ Conn) bool {
		members = append(members, connID)
		return true
	})

	return members
}
