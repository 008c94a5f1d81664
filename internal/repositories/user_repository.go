package repositories

import (
	"database/sql"

	"github.com/lib/pq"

	"github.com/regulus1128/lynkup-chat-app/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	List(excludeID int) ([]*models.User, error)
	GetNames(ids []int) ([]string, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (full_name, email, password_hash, profile_pic, bio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		user.FullName,
		user.Email,
		user.PasswordHash,
		user.ProfilePic,
		user.Bio,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `
		SELECT id, full_name, email, password_hash, profile_pic, bio, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `
		SELECT id, full_name, email, password_hash, profile_pic, bio, created_at, updated_at
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.DB.QueryRow(q, email))
}

func (r *userRepository) scanOne(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.ProfilePic,
		&user.Bio,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET full_name = $1, email = $2, profile_pic = $3, bio = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`
	return r.DB.QueryRow(q,
		user.FullName,
		user.Email,
		user.ProfilePic,
		user.Bio,
		user.ID,
	).Scan(&user.UpdatedAt)
}

// List returns every registered user except the given id and the system user.
// Used for the contact sidebar.
func (r *userRepository) List(excludeID int) ([]*models.User, error) {
	const q = `
		SELECT id, full_name, email, password_hash, profile_pic, bio, created_at, updated_at
		FROM users
		WHERE id <> $1 AND id <> $2
		ORDER BY full_name ASC
	`
	rows, err := r.DB.Query(q, excludeID, models.SystemUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.ID,
			&user.FullName,
			&user.Email,
			&user.PasswordHash,
			&user.ProfilePic,
			&user.Bio,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetNames resolves display names in the order of the given ids. Unknown ids
// are skipped.
func (r *userRepository) GetNames(ids []int) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `SELECT id, full_name FROM users WHERE id = ANY($1)`
	rows, err := r.DB.Query(q, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int]string, len(ids))
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		byID[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names, nil
}
