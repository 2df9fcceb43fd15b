package postgres

import (
	"context"
	"errors"
	"fmt"

	db_models "ifeelu-backend/internal/models"
	"ifeelu-backend/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Compile-time check to ensure PostgresStore implements store.Store
var _ store.Store = (*PostgresStore)(nil)

// uniqueViolation is the PostgreSQL error code for unique_violation.
const uniqueViolation = "23505"

type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
    display_id    uuid PRIMARY KEY DEFAULT gen_random_uuid(),
    user_email    varchar NOT NULL UNIQUE,
    user_password varchar(255) NOT NULL
);

CREATE TABLE IF NOT EXISTS chat_messages (
    display_id uuid PRIMARY KEY,
    user_id    uuid NOT NULL REFERENCES users(display_id) ON DELETE CASCADE,
    title      varchar NOT NULL DEFAULT '',
    content    jsonb NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS chat_messages_user_idx
    ON chat_messages (user_id, created_at DESC);
`

// Migrate creates the schema if it does not exist yet.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("database error applying schema: %w", err)
	}
	return nil
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT display_id, user_email, user_password
FROM users
WHERE user_email = $1;
`

// GetUserByEmail retrieves a user by their email address.
// Returns store.ErrNotFound if the user does not exist.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*db_models.User, error) {
	user := &db_models.User{}
	err := s.db.QueryRow(ctx, getUserByEmail, email).Scan(
		&user.DisplayID,
		&user.Email,
		&user.HashedPassword,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching user by email: %w", err)
	}
	return user, nil
}

const createUser = `-- name: CreateUser :exec
INSERT INTO users (display_id, user_email, user_password)
VALUES ($1, $2, $3);
`

// CreateUser inserts a new user record. A duplicate email surfaces as
// store.ErrDuplicate so callers can distinguish it from generic failures.
func (s *PostgresStore) CreateUser(ctx context.Context, user *db_models.User) error {
	_, err := s.db.Exec(ctx, createUser,
		user.DisplayID,
		user.Email,
		user.HashedPassword,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return store.ErrDuplicate
		}
		return fmt.Errorf("database error creating user: %w", err)
	}
	return nil
}
