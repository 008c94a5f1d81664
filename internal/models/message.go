package models

import "time"

// Message is a persisted chat message. Exactly one of ReceiverID and GroupID
// is set: a direct message has a receiver and no group, a group message has a
// group and no receiver. SenderName/SenderPic are populated from the users
// table when messages are read back or delivered, never stored.
type Message struct {
	ID         int       `json:"id"`
	SenderID   int       `json:"senderId"`
	ReceiverID *int      `json:"receiverId,omitempty"`
	GroupID    *int      `json:"groupId,omitempty"`
	Text       string    `json:"text,omitempty"`
	Image      string    `json:"image,omitempty"`
	IsRead     bool      `json:"isRead"`
	IsSystem   bool      `json:"isSystem"`
	SenderName string    `json:"senderName,omitempty"`
	SenderPic  string    `json:"senderPic,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SendMessageInput is the payload of a send, from the REST route or the
// sendMessage socket event.
type SendMessageInput struct {
	ReceiverID *int   `json:"receiverId"`
	GroupID    *int   `json:"groupId"`
	Text       string `json:"text"`
	Image      string `json:"image"` // base64 data URI, uploaded before persisting
}

// MarkReadInput identifies a conversation to mark read: messages from
// SenderID for a direct conversation, or all of GroupID's messages not
// authored by the reader.
type MarkReadInput struct {
	SenderID *int `json:"senderId"`
	GroupID  *int `json:"groupId"`
}
