package realtime

import "log"

// MembershipSource loads the group channels a user belongs to. Satisfied by
// the group repository.
type MembershipSource interface {
	ListIDsByMember(userID int) ([]int, error)
}

// Hub owns all live-connection state: the connection registry, the group
// subscription table, and the typing tracker. Everything here is
// memory-resident and rebuilt from scratch on restart; persistence is the
// durable source of truth and delivery through the hub is best-effort,
// at-most-once.
type Hub struct {
	registry    *Registry
	rooms       *Rooms
	typing      *TypingTracker
	memberships MembershipSource
}

func NewHub(memberships MembershipSource) *Hub {
	return &Hub{
		registry:    NewRegistry(),
		rooms:       NewRooms(),
		typing:      NewTypingTracker(),
		memberships: memberships,
	}
}

// Connect binds a freshly upgraded connection: displaces and closes any
// previous connection for the same user, subscribes the user to their group
// channels, and announces the updated presence set to everyone.
//
// A failed membership query is logged and the connection proceeds with zero
// subscriptions; the user still gets direct messages and presence.
func (h *Hub) Connect(c *Client) {
	if displaced := h.registry.Register(c); displaced != nil {
		log.Printf("[hub][connect] user %d reconnected, closing stale connection %s", c.UserID, displaced.ID)
		h.rooms.DropUser(c.UserID)
		h.typing.PurgeActor(c.UserID)
		displaced.Close()
	}

	groupIDs, err := h.memberships.ListIDsByMember(c.UserID)
	if err != nil {
		log.Printf("[hub][connect] membership lookup for user %d failed, joining no rooms: %v", c.UserID, err)
	} else {
		for _, groupID := range groupIDs {
			h.rooms.Subscribe(c.UserID, groupID)
		}
	}

	log.Printf("[hub][connect] user %d connected (%s), %d online", c.UserID, c.ID, len(h.registry.OnlineIDs()))
	h.broadcastPresence()
	h.BroadcastAll(EventNewUserJoined, UserJoined{UserID: c.UserID})
}

// Disconnect tears down a connection: purges the user's typing state and
// emits synthetic stopTyping to every affected target, drops their room
// subscriptions, and re-broadcasts presence. A superseded connection
// disconnecting late is closed without touching the live state.
func (h *Hub) Disconnect(c *Client) {
	if !h.registry.Unregister(c) {
		c.Close()
		return
	}

	for _, target := range h.typing.PurgeActor(c.UserID) {
		h.relayTyping(c.UserID, target, EventStopTyping)
	}
	h.rooms.DropUser(c.UserID)
	c.Close()

	log.Printf("[hub][disconnect] user %d disconnected, %d online", c.UserID, len(h.registry.OnlineIDs()))
	h.broadcastPresence()
}

// Typing relays a typing signal, rate-limited per (actor, target) pair.
func (h *Hub) Typing(actor int, target TypingTarget) {
	if !validTarget(target) {
		return
	}
	if !h.typing.Begin(actor, target) {
		return // inside the re-signal window
	}
	h.relayTyping(actor, target, EventTyping)
}

// StopTyping clears the pair's state and relays the stop.
func (h *Hub) StopTyping(actor int, target TypingTarget) {
	if !validTarget(target) {
		return
	}
	h.typing.End(actor, target)
	h.relayTyping(actor, target, EventStopTyping)
}

func validTarget(target TypingTarget) bool {
	return (target.ReceiverID != nil) != (target.GroupID != nil)
}

func (h *Hub) relayTyping(actor int, target TypingTarget, event string) {
	notice := TypingNotice{SenderID: actor, GroupID: target.GroupID}
	if target.ReceiverID != nil {
		// Offline target: silently dropped, indicators are never queued.
		h.SendToUser(*target.ReceiverID, event, notice)
		return
	}
	h.BroadcastToGroup(*target.GroupID, actor, event, notice)
}

// SendToUser delivers an event to the user's live connection, if any.
// An offline user is not an error.
func (h *Hub) SendToUser(userID int, event string, payload any) {
	if c, ok := h.registry.Lookup(userID); ok {
		c.SendEvent(event, payload)
	}
}

// BroadcastToGroup fans an event out to every connected subscriber of the
// group channel except excludeUserID (pass a negative id to exclude no one).
func (h *Hub) BroadcastToGroup(groupID, excludeUserID int, event string, payload any) {
	for _, userID := range h.rooms.Members(groupID) {
		if userID == excludeUserID {
			continue
		}
		h.SendToUser(userID, event, payload)
	}
}

// BroadcastAll delivers an event to every live connection.
func (h *Hub) BroadcastAll(event string, payload any) {
	for _, c := range h.registry.snapshot() {
		c.SendEvent(event, payload)
	}
}

// SubscribeUser adds a connected user to a group channel, after group
// creation or a membership add. Offline users pick the room up at next
// connect.
func (h *Hub) SubscribeUser(userID, groupID int) {
	if _, ok := h.registry.Lookup(userID); ok {
		h.rooms.Subscribe(userID, groupID)
	}
}

// UnsubscribeUser removes a user from a group channel after they leave.
func (h *Hub) UnsubscribeUser(userID, groupID int) {
	h.rooms.Unsubscribe(userID, groupID)
}

// DropGroup removes a deleted group's channel.
func (h *Hub) DropGroup(groupID int) {
	h.rooms.DropGroup(groupID)
}

// broadcastPresence pushes the full online set to every connection. No
// incremental diffing: connection churn is low-frequency relative to
// message volume.
func (h *Hub) broadcastPresence() {
	h.BroadcastAll(EventOnlineUsers, h.registry.OnlineIDs())
}
