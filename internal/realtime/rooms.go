package realtime

import "sync"

// Rooms tracks which connected users are subscribed to which group channels.
// Both directions are kept so group fan-out and per-user cleanup are cheap.
type Rooms struct {
	mu         sync.RWMutex
	userGroups map[int]map[int]struct{}
	groupUsers map[int]map[int]struct{}
}

func NewRooms() *Rooms {
	return &Rooms{
		userGroups: make(map[int]map[int]struct{}),
		groupUsers: make(map[int]map[int]struct{}),
	}
}

func (r *Rooms) Subscribe(userID, groupID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.userGroups[userID] == nil {
		r.userGroups[userID] = make(map[int]struct{})
	}
	if r.groupUsers[groupID] == nil {
		r.groupUsers[groupID] = make(map[int]struct{})
	}
	r.userGroups[userID][groupID] = struct{}{}
	r.groupUsers[groupID][userID] = struct{}{}
}

func (r *Rooms) Unsubscribe(userID, groupID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drop(userID, groupID)
}

func (r *Rooms) drop(userID, groupID int) {
	if groups, ok := r.userGroups[userID]; ok {
		delete(groups, groupID)
		if len(groups) == 0 {
			delete(r.userGroups, userID)
		}
	}
	if users, ok := r.groupUsers[groupID]; ok {
		delete(users, userID)
		if len(users) == 0 {
			delete(r.groupUsers, groupID)
		}
	}
}

// DropUser removes all of a user's subscriptions, on disconnect.
func (r *Rooms) DropUser(userID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for groupID := range r.userGroups[userID] {
		r.drop(userID, groupID)
	}
}

// DropGroup removes a group channel entirely, on group deletion.
func (r *Rooms) DropGroup(groupID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for userID := range r.groupUsers[groupID] {
		r.drop(userID, groupID)
	}
}

// Members returns the connected subscribers of a group channel.
func (r *Rooms) Members(groupID int) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	members := make([]int, 0, len(r.groupUsers[groupID]))
	for userID := range r.groupUsers[groupID] {
		members = append(members, userID)
	}
	return members
}
