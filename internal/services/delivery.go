package services

// Delivery is the live-connection fan-out surface the services push events
// through. Implemented by realtime.Hub. Delivery is best-effort and
// at-most-once: an offline target is silently skipped, never queued.
type Delivery interface {
	SendToUser(userID int, event string, payload any)
	BroadcastToGroup(groupID, excludeUserID int, event string, payload any)
	SubscribeUser(userID, groupID int)
	UnsubscribeUser(userID, groupID int)
	DropGroup(groupID int)
}
