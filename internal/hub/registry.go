package hub

import (
	"fmt"
	"sync"
)

// Registry holds the set of currently open connections, keyed by connection
// id. All mutation goes through Register/Deregister; Snapshot returns copies
// of the entry list so callers never hold a reference into internal storage.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]*Connection
}

func NewRegistry() *Registry {
	return &Registry{connections: make(map[string]*Connection)}
}

// Register inserts a connection. A duplicate id is a coded error; with
// nanoid-suffixed ids this is defensively unreachable.
func (r *Registry) Register(conn *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.connections[conn.ID]; exists {
		return newError(CodeDuplicateConnection, fmt.Sprintf("connection id already registered: %s", conn.ID), nil)
	}
	r.connections[conn.ID] = conn
	return nil
}

// Deregister removes a connection by id. Removing an absent id is a no-op so
// concurrent cleanup paths (disconnect + failed write) can both call it.
func (r *Registry) Deregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.connections, id)
}

// Snapshot returns the registered connections at call time. Entries may close
// concurrently with iteration; writers must handle per-connection failure.
func (r *Registry) Snapshot() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.connections))
	for _, conn := range r.connections {
		conns = append(conns, conn)
	}
	return conns
}

// Size returns the current connection count.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections)
}

// CountByRole returns connection counts grouped by role.
func (r *Registry) CountByRole() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int)
	for _, conn := range r.connections {
		counts[conn.Role]++
	}
	return counts
}
