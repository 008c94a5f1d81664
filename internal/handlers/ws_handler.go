package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/regulus1128/lynkup-chat-app/internal/realtime"
)

type WSHandler struct {
	hub        *realtime.Hub
	dispatcher *realtime.Dispatcher
	upgrader   websocket.Upgrader
}

// NewWSHandler builds the upgrade handler. Origins outside the allowlist are
// rejected before the upgrade; an empty Origin header (non-browser client)
// is allowed.
func NewWSHandler(hub *realtime.Hub, dispatcher *realtime.Dispatcher, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = struct{}{}
	}
	return &WSHandler{
		hub:        hub,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// Connect upgrades the request to a WebSocket bound to the authenticated
// user. The route sits behind the auth middleware, so the identity was
// verified during the handshake. Blocks in the connection's read loop for
// the socket's lifetime.
func (h *WSHandler) Connect(c *gin.Context) {
	userID := currentUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[ws][connect] upgrade for user %d: %v", userID, err)
		return
	}

	client := realtime.NewClient(userID, conn)
	h.hub.Connect(client)
	go client.WritePump()
	h.dispatcher.Serve(c.Request.Context(), client)
}
