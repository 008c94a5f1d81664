package realtime

import (
	"sort"
	"sync"
)

// Registry maps a user identity to its single live connection. Registering a
// new connection for an identity displaces the previous one (last connect
// wins); the caller is expected to close the displaced connection. Register
// and Unregister race with lookups from message delivery, so the map is
// mutex-guarded.
type Registry struct {
	mu      sync.RWMutex
	clients map[int]*Client
}

func NewRegistry() *Registry {
	return &Registry{clients: make(map[int]*Client)}
}

// Register stores the client as the live connection for its user and returns
// the connection it displaced, if any.
func (r *Registry) Register(c *Client) *Client {
	r.mu.Lock()
	defer r.mu.Unlock()
	displaced := r.clients[c.UserID]
	if displaced == c {
		return nil
	}
	r.clients[c.UserID] = c
	return displaced
}

// Unregister removes the client and reports whether it was the current entry
// for its user. A superseded connection disconnecting late must not evict its
// replacement.
func (r *Registry) Unregister(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clients[c.UserID] != c {
		return false
	}
	delete(r.clients, c.UserID)
	return true
}

func (r *Registry) Lookup(userID int) (*Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.clients[userID]
	return c, ok
}

// OnlineIDs returns the current identity set, sorted for stable broadcasts.
func (r *Registry) OnlineIDs() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (r *Registry) snapshot() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		clients = append(clients, c)
	}
	return clients
}
