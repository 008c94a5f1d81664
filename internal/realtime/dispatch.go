package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
)

// MessageAPI is the slice of the message service the dispatcher invokes for
// events that touch persistence.
type MessageAPI interface {
	SendMessage(ctx context.Context, senderID int, in models.SendMessageInput) (*models.Message, error)
	MarkRead(ctx context.Context, readerID int, in models.MarkReadInput) error
}

// Dispatcher reads inbound events off a connection and routes each one to
// the hub or the message API. Events from the same connection are handled in
// the order the peer sent them; a handler failure is reported back on that
// connection only and never stops the loop.
type Dispatcher struct {
	hub *Hub
	api MessageAPI
}

func NewDispatcher(hub *Hub, api MessageAPI) *Dispatcher {
	return &Dispatcher{hub: hub, api: api}
}

// Serve runs the connection's read loop until the peer goes away, then
// disconnects it from the hub. Blocks; call from the upgrade handler.
func (d *Dispatcher) Serve(ctx context.Context, c *Client) {
	defer d.hub.Disconnect(c)

	c.prepareRead()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Printf("[ws][dispatch] bad frame from user %d: %v", c.UserID, err)
			continue
		}
		d.dispatch(ctx, c, env)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, c *Client, env Envelope) {
	switch env.Event {
	case EventSendMessage:
		var in models.SendMessageInput
		if err := json.Unmarshal(env.Data, &in); err != nil {
			c.SendEvent(EventError, ErrorNotice{Message: "malformed sendMessage payload"})
			return
		}
		if _, err := d.api.SendMessage(ctx, c.UserID, in); err != nil {
			log.Printf("[ws][dispatch] sendMessage from user %d: %v", c.UserID, err)
			c.SendEvent(EventError, ErrorNotice{Message: err.Error()})
		}

	case EventTyping:
		var target TypingTarget
		if err := json.Unmarshal(env.Data, &target); err != nil {
			return
		}
		d.hub.Typing(c.UserID, target)

	case EventStopTyping:
		var target TypingTarget
		if err := json.Unmarshal(env.Data, &target); err != nil {
			return
		}
		d.hub.StopTyping(c.UserID, target)

	case EventMarkAsRead:
		var in models.MarkReadInput
		if err := json.Unmarshal(env.Data, &in); err != nil {
			c.SendEvent(EventError, ErrorNotice{Message: "malformed markAsRead payload"})
			return
		}
		if err := d.api.MarkRead(ctx, c.UserID, in); err != nil {
			log.Printf("[ws][dispatch] markAsRead from user %d: %v", c.UserID, err)
			c.SendEvent(EventError, ErrorNotice{Message: err.Error()})
		}

	default:
		log.Printf("[ws][dispatch] unknown event %q from user %d", env.Event, c.UserID)
	}
}
