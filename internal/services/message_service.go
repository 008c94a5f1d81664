package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
	"github.com/regulus1128/lynkup-chat-app/internal/realtime"
	"github.com/regulus1128/lynkup-chat-app/internal/repositories"
)

type MessageService interface {
	// SendMessage persists and routes a direct or group message. The message
	// is durable before any live delivery is attempted; delivery to offline
	// recipients is silently skipped.
	SendMessage(ctx context.Context, senderID int, in models.SendMessageInput) (*models.Message, error)
	// MarkRead flips is_read on a conversation's unread messages and
	// notifies the affected side. Idempotent: re-invoking with nothing
	// unread emits the same notification and no error.
	MarkRead(ctx context.Context, readerID int, in models.MarkReadInput) error
	DirectHistory(requesterID, otherID int) ([]*models.Message, error)
	GroupHistory(requesterID, groupID int) ([]*models.Message, error)
}

type messageService struct {
	messages repositories.MessageRepository
	groups   repositories.GroupRepository
	users    repositories.UserRepository
	uploader Uploader
	delivery Delivery
}

func NewMessageService(
	messages repositories.MessageRepository,
	groups repositories.GroupRepository,
	users repositories.UserRepository,
	uploader Uploader,
	delivery Delivery,
) MessageService {
	return &messageService{
		messages: messages,
		groups:   groups,
		users:    users,
		uploader: uploader,
		delivery: delivery,
	}
}

func (s *messageService) SendMessage(ctx context.Context, senderID int, in models.SendMessageInput) (*models.Message, error) {
	if (in.ReceiverID != nil) == (in.GroupID != nil) {
		return nil, fmt.Errorf("%w: exactly one of receiverId and groupId must be set", ErrValidation)
	}
	if strings.TrimSpace(in.Text) == "" && in.Image == "" {
		return nil, fmt.Errorf("%w: message content is required", ErrValidation)
	}

	if in.GroupID != nil {
		group, err := s.groups.GetByID(*in.GroupID)
		if err != nil {
			return nil, err
		}
		if group == nil {
			return nil, fmt.Errorf("group %d: %w", *in.GroupID, ErrNotFound)
		}
		member, err := s.groups.IsMember(*in.GroupID, senderID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, ErrNotGroupMember
		}
	} else {
		receiver, err := s.users.GetByID(*in.ReceiverID)
		if err != nil {
			return nil, err
		}
		if receiver == nil {
			return nil, fmt.Errorf("user %d: %w", *in.ReceiverID, ErrNotFound)
		}
	}

	var imageURL string
	if in.Image != "" {
		url, err := s.uploader.UploadImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	sender, err := s.users.GetByID(senderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, fmt.Errorf("user %d: %w", senderID, ErrNotFound)
	}

	msg := &models.Message{
		SenderID:   senderID,
		ReceiverID: in.ReceiverID,
		GroupID:    in.GroupID,
		Text:       in.Text,
		Image:      imageURL,
		SenderName: sender.FullName,
		SenderPic:  sender.ProfilePic,
	}
	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}

	// Durable now; push best-effort. The sender's connection always gets a
	// loopback copy so their UI updates from the authoritative event.
	if msg.GroupID != nil {
		s.delivery.BroadcastToGroup(*msg.GroupID, senderID, realtime.EventNewMessage, msg)
	} else {
		s.delivery.SendToUser(*msg.ReceiverID, realtime.EventNewMessage, msg)
	}
	s.delivery.SendToUser(senderID, realtime.EventNewMessage, msg)

	return msg, nil
}

func (s *messageService) MarkRead(ctx context.Context, readerID int, in models.MarkReadInput) error {
	if (in.SenderID != nil) == (in.GroupID != nil) {
		return fmt.Errorf("%w: exactly one of senderId and groupId must be set", ErrValidation)
	}

	if in.GroupID != nil {
		member, err := s.groups.IsMember(*in.GroupID, readerID)
		if err != nil {
			return err
		}
		if !member {
			return ErrNotGroupMember
		}
		if _, err := s.messages.MarkGroupRead(*in.GroupID, readerID); err != nil {
			return err
		}
		notice := realtime.ReadNotice{ReaderID: readerID, GroupID: in.GroupID}
		s.delivery.BroadcastToGroup(*in.GroupID, -1, realtime.EventMessagesRead, notice)
		return nil
	}

	if _, err := s.messages.MarkDirectRead(*in.SenderID, readerID); err != nil {
		return err
	}
	notice := realtime.ReadNotice{ReaderID: readerID, SenderID: in.SenderID}
	s.delivery.SendToUser(*in.SenderID, realtime.EventMessagesRead, notice)
	return nil
}

func (s *messageService) DirectHistory(requesterID, otherID int) ([]*models.Message, error) {
	return s.messages.ListDirect(requesterID, otherID)
}

func (s *messageService) GroupHistory(requesterID, groupID int) ([]*models.Message, error) {
	member, err := s.groups.IsMember(groupID, requesterID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotGroupMember
	}
	return s.messages.ListGroup(groupID)
}
