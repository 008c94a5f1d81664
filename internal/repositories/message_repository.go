package repositories

import (
	"database/sql"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
)

type MessageRepository interface {
	Create(msg *models.Message) error
	// ListDirect returns the full two-way conversation between two users in
	// insertion order.
	ListDirect(userA, userB int) ([]*models.Message, error)
	ListGroup(groupID int) ([]*models.Message, error)
	// MarkDirectRead flips is_read on unread messages from sender to receiver
	// and reports how many rows changed.
	MarkDirectRead(senderID, receiverID int) (int64, error)
	// MarkGroupRead flips is_read on unread group messages not authored by
	// the reader.
	MarkGroupRead(groupID, readerID int) (int64, error)
}

type messageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) MessageRepository {
	return &messageRepository{DB: db}
}

func (r *messageRepository) Create(msg *models.Message) error {
	const q = `
		INSERT INTO messages (sender_id, receiver_id, group_id, text, image, is_system)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_read, created_at
	`
	return r.DB.QueryRow(q,
		msg.SenderID,
		msg.ReceiverID,
		msg.GroupID,
		msg.Text,
		msg.Image,
		msg.IsSystem,
	).Scan(&msg.ID, &msg.IsRead, &msg.CreatedAt)
}

const selectMessages = `
	SELECT m.id, m.sender_id, m.receiver_id, m.group_id, m.text, m.image,
	       m.is_read, m.is_system, m.created_at,
	       u.full_name, u.profile_pic
	FROM messages m
	JOIN users u ON u.id = m.sender_id
`

func (r *messageRepository) ListDirect(userA, userB int) ([]*models.Message, error) {
	q := selectMessages + `
		WHERE (m.sender_id = $1 AND m.receiver_id = $2)
		   OR (m.sender_id = $2 AND m.receiver_id = $1)
		ORDER BY m.created_at ASC, m.id ASC
	`
	return r.list(q, userA, userB)
}

func (r *messageRepository) ListGroup(groupID int) ([]*models.Message, error) {
	q := selectMessages + `
		WHERE m.group_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`
	return r.list(q, groupID)
}

func (r *messageRepository) list(q string, args ...any) ([]*models.Message, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		msg := &models.Message{}
		if err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.ReceiverID, &msg.GroupID,
			&msg.Text, &msg.Image, &msg.IsRead, &msg.IsSystem, &msg.CreatedAt,
			&msg.SenderName, &msg.SenderPic,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *messageRepository) MarkDirectRead(senderID, receiverID int) (int64, error) {
	const q = `
		UPDATE messages
		SET is_read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND is_read = FALSE
	`
	res, err := r.DB.Exec(q, senderID, receiverID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *messageRepository) MarkGroupRead(groupID, readerID int) (int64, error) {
	const q = `
		UPDATE messages
		SET is_read = TRUE
		WHERE group_id = $1 AND sender_id <> $2 AND is_read = FALSE
	`
	res, err := r.DB.Exec(q, groupID, readerID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
