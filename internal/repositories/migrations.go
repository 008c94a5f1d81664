package repositories

import (
	"database/sql"
	"fmt"
)

// RunMigrations applies the schema idempotently at startup. The final insert
// seeds the reserved system user that authors group membership announcements.
func RunMigrations(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			full_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			profile_pic TEXT NOT NULL DEFAULT '',
			bio TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS groups (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			avatar TEXT NOT NULL DEFAULT '/group2.png',
			created_by INTEGER NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS group_members (
			group_id INTEGER NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
			user_id INTEGER NOT NULL REFERENCES users(id),
			joined_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (group_id, user_id)
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			sender_id INTEGER NOT NULL REFERENCES users(id),
			receiver_id INTEGER REFERENCES users(id),
			group_id INTEGER REFERENCES groups(id) ON DELETE CASCADE,
			text TEXT NOT NULL DEFAULT '',
			image TEXT NOT NULL DEFAULT '',
			is_read BOOLEAN NOT NULL DEFAULT FALSE,
			is_system BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK ((receiver_id IS NULL) <> (group_id IS NULL))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_direct
			ON messages (sender_id, receiver_id) WHERE receiver_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_messages_group
			ON messages (group_id) WHERE group_id IS NOT NULL`,
		`CREATE INDEX IF NOT EXISTS idx_group_members_user ON group_members (user_id)`,
		`INSERT INTO users (id, full_name, email, password_hash)
			VALUES (0, 'System', 'system@lynkup.local', '')
			ON CONFLICT (id) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
