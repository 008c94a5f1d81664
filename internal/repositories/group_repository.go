package repositories

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
)

type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id int) (*models.Group, error)
	ListByMember(userID int) ([]*models.Group, error)
	ListIDsByMember(userID int) ([]int, error)
	MemberIDs(groupID int) ([]int, error)
	IsMember(groupID, userID int) (bool, error)
	// AddMembers inserts the given users, skipping ones already in the group,
	// and returns the ids that were actually added.
	AddMembers(groupID int, userIDs []int) ([]int, error)
	RemoveMember(groupID, userID int) error
	UpdateDetails(groupID int, name, avatar string) error
	Delete(groupID int) error
}

type groupRepository struct {
	DB *sql.DB
}

func NewGroupRepository(db *sql.DB) GroupRepository {
	return &groupRepository{DB: db}
}

func (r *groupRepository) Create(group *models.Group) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertGroup = `
		INSERT INTO groups (name, avatar, created_by)
		VALUES ($1, COALESCE(NULLIF($2, ''), '/group2.png'), $3)
		RETURNING id, avatar, created_at, updated_at
	`
	if err := tx.QueryRow(insertGroup, group.Name, group.Avatar, group.CreatedBy).
		Scan(&group.ID, &group.Avatar, &group.CreatedAt, &group.UpdatedAt); err != nil {
		return err
	}

	const insertMember = `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`
	for _, userID := range group.Members {
		if _, err := tx.Exec(insertMember, group.ID, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const selectGroup = `
	SELECT g.id, g.name, g.avatar, g.created_by, g.created_at, g.updated_at,
	       COALESCE(array_agg(gm.user_id ORDER BY gm.joined_at, gm.user_id), '{}') AS members
	FROM groups g
	JOIN group_members gm ON gm.group_id = g.id
`

func (r *groupRepository) GetByID(id int) (*models.Group, error) {
	q := selectGroup + `
		WHERE g.id = $1
		GROUP BY g.id
	`
	group := &models.Group{}
	var members pq.Int64Array
	err := r.DB.QueryRow(q, id).Scan(
		&group.ID, &group.Name, &group.Avatar, &group.CreatedBy,
		&group.CreatedAt, &group.UpdatedAt, &members,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		group.Members = append(group.Members, int(m))
	}
	return group, nil
}

func (r *groupRepository) ListByMember(userID int) ([]*models.Group, error) {
	q := selectGroup + `
		WHERE g.id IN (SELECT group_id FROM group_members WHERE user_id = $1)
		GROUP BY g.id
		ORDER BY g.updated_at DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		var members pq.Int64Array
		if err := rows.Scan(
			&group.ID, &group.Name, &group.Avatar, &group.CreatedBy,
			&group.CreatedAt, &group.UpdatedAt, &members,
		); err != nil {
			return nil, err
		}
		for _, m := range members {
			group.Members = append(group.Members, int(m))
		}
		groups = append(groups, group)
	}
	return groups, rows.Err()
}

func (r *groupRepository) ListIDsByMember(userID int) ([]int, error) {
	const q = `SELECT group_id FROM group_members WHERE user_id = $1 ORDER BY group_id`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *groupRepository) MemberIDs(groupID int) ([]int, error) {
	const q = `SELECT user_id FROM group_members WHERE group_id = $1 ORDER BY joined_at, user_id`
	rows, err := r.DB.Query(q, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *groupRepository) IsMember(groupID, userID int) (bool, error) {
	const q = `SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2 LIMIT 1`
	var dummy int
	err := r.DB.QueryRow(q, groupID, userID).Scan(&dummy)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *groupRepository) AddMembers(groupID int, userIDs []int) ([]int, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const q = `
		INSERT INTO group_members (group_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (group_id, user_id) DO NOTHING
		RETURNING user_id
	`
	var added []int
	for _, userID := range userIDs {
		var id int
		err := tx.QueryRow(q, groupID, userID).Scan(&id)
		if err == sql.ErrNoRows {
			continue // already a member
		}
		if err != nil {
			return nil, err
		}
		added = append(added, id)
	}

	if _, err := tx.Exec(`UPDATE groups SET updated_at = now() WHERE id = $1`, groupID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return added, nil
}

func (r *groupRepository) RemoveMember(groupID, userID int) error {
	const q = `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`
	_, err := r.DB.Exec(q, groupID, userID)
	return err
}

func (r *groupRepository) UpdateDetails(groupID int, name, avatar string) error {
	const q = `
		UPDATE groups
		SET name = COALESCE(NULLIF($1, ''), name),
		    avatar = COALESCE(NULLIF($2, ''), avatar),
		    updated_at = now()
		WHERE id = $3
	`
	_, err := r.DB.Exec(q, name, avatar, groupID)
	return err
}

func (r *groupRepository) Delete(groupID int) error {
	_, err := r.DB.Exec(`DELETE FROM groups WHERE id = $1`, groupID)
	return err
}
