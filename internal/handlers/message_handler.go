package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
	"github.com/regulus1128/lynkup-chat-app/internal/services"
)

type MessageHandler struct {
	messageService services.MessageService
	userService    services.UserService
}

func NewMessageHandler(messageService services.MessageService, userService services.UserService) *MessageHandler {
	return &MessageHandler{messageService: messageService, userService: userService}
}

// ListContacts returns every other user, for the sidebar.
func (h *MessageHandler) ListContacts(c *gin.Context) {
	users, err := h.userService.ListContacts(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// DirectHistory returns the two-way conversation with the user in the path.
func (h *MessageHandler) DirectHistory(c *gin.Context) {
	otherID, ok := pathID(c, "id")
	if !ok {
		return
	}
	messages, err := h.messageService.DirectHistory(currentUserID(c), otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

type sendBody struct {
	Text  string `json:"text"`
	Image string `json:"image"`
}

// SendDirect is the REST counterpart of the sendMessage socket event for
// direct messages.
func (h *MessageHandler) SendDirect(c *gin.Context) {
	receiverID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageService.SendMessage(c.Request.Context(), currentUserID(c), models.SendMessageInput{
		ReceiverID: &receiverID,
		Text:       body.Text,
		Image:      body.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
