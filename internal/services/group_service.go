package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
	"github.com/regulus1128/lynkup-chat-app/internal/realtime"
	"github.com/regulus1128/lynkup-chat-app/internal/repositories"
)

type GroupService interface {
	Create(ctx context.Context, creatorID int, req models.CreateGroupRequest) (*models.Group, error)
	GetByID(groupID int) (*models.Group, error)
	ListByMember(userID int) ([]*models.Group, error)
	// AddMembers is creator-only. A successful add persists and broadcasts a
	// system message announcing the joiners.
	AddMembers(ctx context.Context, requesterID, groupID int, newMembers []int) (*models.Group, error)
	// Leave removes a non-creator member. The creator cannot leave and must
	// delete the group instead.
	Leave(ctx context.Context, userID, groupID int) error
	Edit(ctx context.Context, requesterID, groupID int, req models.EditGroupRequest) (*models.Group, error)
	Delete(ctx context.Context, requesterID, groupID int) error
}

type groupService struct {
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	messages repositories.MessageRepository
	uploader Uploader
	delivery Delivery
}

func NewGroupService(
	groups repositories.GroupRepository,
	users repositories.UserRepository,
	messages repositories.MessageRepository,
	uploader Uploader,
	delivery Delivery,
) GroupService {
	return &groupService{
		groups:   groups,
		users:    users,
		messages: messages,
		uploader: uploader,
		delivery: delivery,
	}
}

func (s *groupService) Create(ctx context.Context, creatorID int, req models.CreateGroupRequest) (*models.Group, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: group name is required", ErrValidation)
	}
	if len(req.Members) == 0 {
		return nil, fmt.Errorf("%w: at least one member is required", ErrValidation)
	}

	// The creator is always a member.
	seen := map[int]struct{}{creatorID: {}}
	members := []int{creatorID}
	for _, id := range req.Members {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		members = append(members, id)
	}

	group := &models.Group{
		Name:      strings.TrimSpace(req.Name),
		Avatar:    req.Avatar,
		CreatedBy: creatorID,
		Members:   members,
	}
	if err := s.groups.Create(group); err != nil {
		return nil, err
	}

	// Connected members join the channel now; offline ones pick it up on
	// their next connect.
	for _, userID := range members {
		s.delivery.SubscribeUser(userID, group.ID)
	}
	return group, nil
}

func (s *groupService) GetByID(groupID int) (*models.Group, error) {
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	return group, nil
}

func (s *groupService) ListByMember(userID int) ([]*models.Group, error) {
	return s.groups.ListByMember(userID)
}

func (s *groupService) AddMembers(ctx context.Context, requesterID, groupID int, newMembers []int) (*models.Group, error) {
	if len(newMembers) == 0 {
		return nil, fmt.Errorf("%w: no members provided", ErrValidation)
	}
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	if group.CreatedBy != requesterID {
		return nil, fmt.Errorf("only the group creator can add members: %w", ErrForbidden)
	}

	added, err := s.groups.AddMembers(groupID, newMembers)
	if err != nil {
		return nil, err
	}

	if len(added) > 0 {
		names, err := s.users.GetNames(added)
		if err != nil {
			return nil, err
		}
		for _, userID := range added {
			s.delivery.SubscribeUser(userID, groupID)
		}
		if err := s.announce(groupID, joinedText(names)); err != nil {
			return nil, err
		}
	}

	return s.GetByID(groupID)
}

func (s *groupService) Leave(ctx context.Context, userID, groupID int) error {
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	if group.CreatedBy == userID {
		return fmt.Errorf("group creator cannot leave the group, delete it instead: %w", ErrForbidden)
	}

	member, err := s.groups.IsMember(groupID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotGroupMember
	}

	if err := s.groups.RemoveMember(groupID, userID); err != nil {
		return err
	}
	s.delivery.UnsubscribeUser(userID, groupID)

	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	name := "A member"
	if user != nil {
		name = user.FullName
	}
	return s.announce(groupID, fmt.Sprintf("%s has left the group.", name))
}

func (s *groupService) Edit(ctx context.Context, requesterID, groupID int, req models.EditGroupRequest) (*models.Group, error) {
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	if group.CreatedBy != requesterID {
		return nil, fmt.Errorf("only the group creator can edit the group: %w", ErrForbidden)
	}

	var avatarURL string
	if req.Avatar != "" {
		avatarURL, err = s.uploader.UploadImage(ctx, req.Avatar)
		if err != nil {
			return nil, err
		}
	}
	if err := s.groups.UpdateDetails(groupID, req.Name, avatarURL); err != nil {
		return nil, err
	}
	return s.GetByID(groupID)
}

func (s *groupService) Delete(ctx context.Context, requesterID, groupID int) error {
	group, err := s.groups.GetByID(groupID)
	if err != nil {
		return err
	}
	if group == nil {
		return fmt.Errorf("group %d: %w", groupID, ErrNotFound)
	}
	if group.CreatedBy != requesterID {
		return fmt.Errorf("only the group creator can delete this group: %w", ErrForbidden)
	}
	if err := s.groups.Delete(groupID); err != nil {
		return err
	}
	s.delivery.DropGroup(groupID)
	return nil
}

// announce persists a system message on the group and broadcasts it to the
// channel exactly like a regular message.
func (s *groupService) announce(groupID int, text string) error {
	msg := &models.Message{
		SenderID: models.SystemUserID,
		GroupID:  &groupID,
		Text:     text,
		IsSystem: true,
	}
	if err := s.messages.Create(msg); err != nil {
		return err
	}
	s.delivery.BroadcastToGroup(groupID, -1, realtime.EventNewMessage, msg)
	return nil
}

// joinedText renders the membership announcement:
//
//	1 joiner:  "X has joined the group."
//	2 joiners: "X and Y have joined the group."
//	3 joiners: "X, Y and Z have joined the group."
//	4+:        "X, Y and N others have joined the group." (N = count - 2)
func joinedText(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("%s has joined the group.", names[0])
	case 2:
		return fmt.Sprintf("%s and %s have joined the group.", names[0], names[1])
	case 3:
		return fmt.Sprintf("%s, %s and %s have joined the group.", names[0], names[1], names[2])
	default:
		return fmt.Sprintf("%s and %d others have joined the group.", strings.Join(names[:2], ", "), len(names)-2)
	}
}
