package realtime

import "encoding/json"

// Event names on the socket wire, both directions.
const (
	// client -> server
	EventSendMessage = "sendMessage"
	EventTyping      = "typing"
	EventStopTyping  = "stopTyping"
	EventMarkAsRead  = "markAsRead"

	// server -> client
	EventOnlineUsers   = "getOnlineUsers"
	EventNewUserJoined = "newUserJoined"
	EventNewMessage    = "newMessage"
	EventMessagesRead  = "messagesRead"
	EventError         = "error"
)

// Envelope frames every socket message as {"event": ..., "data": ...}.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// TypingTarget is the payload of inbound typing/stopTyping events. Exactly
// one of the two fields is set.
type TypingTarget struct {
	ReceiverID *int `json:"receiverId,omitempty"`
	GroupID    *int `json:"groupId,omitempty"`
}

// TypingNotice is relayed to the recipient side of a typing indicator.
type TypingNotice struct {
	SenderID int  `json:"senderId"`
	GroupID  *int `json:"groupId,omitempty"`
}

// UserJoined announces a newly connected identity so clients refresh their
// contact lists.
type UserJoined struct {
	UserID int `json:"userId"`
}

// ReadNotice tells a sender (or a group channel) that a reader caught up on
// a conversation. For group reads, recipients decide individually whether it
// affects messages they authored.
type ReadNotice struct {
	ReaderID int  `json:"readerId"`
	SenderID *int `json:"senderId,omitempty"`
	GroupID  *int `json:"groupId,omitempty"`
}

// ErrorNotice carries a handler failure back to the origin connection only.
type ErrorNotice struct {
	Message string `json:"message"`
}

func encodeEvent(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
