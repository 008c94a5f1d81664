package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
	"github.com/regulus1128/lynkup-chat-app/internal/services"
)

type GroupHandler struct {
	groupService   services.GroupService
	messageService services.MessageService
}

func NewGroupHandler(groupService services.GroupService, messageService services.MessageService) *GroupHandler {
	return &GroupHandler{groupService: groupService, messageService: messageService}
}

// @Summary      Create a group
// @Tags         Groups
// @Accept       json
// @Produce      json
// @Param        group  body      models.CreateGroupRequest  true  "Group"
// @Success      201    {object}  models.Group
// @Router       /api/groups/create [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req models.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.groupService.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// List returns the groups the requester belongs to, latest activity first.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groupService.ListByMember(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

func (h *GroupHandler) GetByID(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	group, err := h.groupService.GetByID(groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

func (h *GroupHandler) AddMembers(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	var req models.AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.groupService.AddMembers(c.Request.Context(), currentUserID(c), groupID, req.NewMembers)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Members added successfully", "group": group})
}

func (h *GroupHandler) Leave(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	if err := h.groupService.Leave(c.Request.Context(), currentUserID(c), groupID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "You have left the group"})
}

func (h *GroupHandler) Edit(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	var req models.EditGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group, err := h.groupService.Edit(c.Request.Context(), currentUserID(c), groupID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Group details updated successfully!", "updatedGroup": group})
}

func (h *GroupHandler) Delete(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	if err := h.groupService.Delete(c.Request.Context(), currentUserID(c), groupID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Group deleted successfully"})
}

// Messages returns the group conversation; members only.
func (h *GroupHandler) Messages(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	messages, err := h.messageService.GroupHistory(currentUserID(c), groupID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

// SendMessage is the REST counterpart of the sendMessage socket event for
// group messages.
func (h *GroupHandler) SendMessage(c *gin.Context) {
	groupID, ok := pathID(c, "groupId")
	if !ok {
		return
	}
	var body sendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messageService.SendMessage(c.Request.Context(), currentUserID(c), models.SendMessageInput{
		GroupID: &groupID,
		Text:    body.Text,
		Image:   body.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
