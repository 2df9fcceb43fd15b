package postgres

import (
	"context"
	"errors"
	"fmt"

	db_models "ifeelu-backend/internal/models"
	"ifeelu-backend/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const getConversation = `-- name: GetConversation :one
SELECT display_id, user_id, title, content, created_at
FROM chat_messages
WHERE display_id = $1 AND user_id = $2;
`

// GetConversation retrieves one conversation scoped to its owner.
// Returns store.ErrNotFound if no row matched.
func (s *PostgresStore) GetConversation(ctx context.Context, displayID, userID uuid.UUID) (*db_models.Conversation, error) {
	conv := &db_models.Conversation{}
	err := s.db.QueryRow(ctx, getConversation, displayID, userID).Scan(
		&conv.DisplayID,
		&conv.UserID,
		&conv.Title,
		&conv.Content,
		&conv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("database error fetching conversation: %w", err)
	}
	return conv, nil
}

const upsertConversation = `-- name: UpsertConversation :exec
INSERT INTO chat_messages (display_id, user_id, title, content)
VALUES ($1, $2, $3, $4)
ON CONFLICT (display_id) DO UPDATE SET content = EXCLUDED.content
WHERE chat_messages.user_id = EXCLUDED.user_id;
`

// UpsertConversation inserts a conversation or replaces its message content
// in a single statement. The ON CONFLICT clause keeps two concurrent first
// saves for the same identifier from both inserting; the title of an
// existing row is left untouched. A conflicting row owned by a different
// user is never updated, which leaves zero rows affected and surfaces as
// store.ErrNotFound rather than a silent no-write.
func (s *PostgresStore) UpsertConversation(ctx context.Context, arg store.UpsertConversationParams) error {
	tag, err := s.db.Exec(ctx, upsertConversation,
		arg.DisplayID,
		arg.UserID,
		arg.Title,
		arg.Content,
	)
	if err != nil {
		return fmt.Errorf("database error upserting conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

const listConversationsByUser = `-- name: ListConversationsByUser :many
SELECT display_id, user_id, title, content, created_at
FROM chat_messages
WHERE user_id = $1
ORDER BY created_at DESC;
`

// ListConversationsByUser returns all of a user's conversations, newest first.
func (s *PostgresStore) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Conversation, error) {
	rows, err := s.db.Query(ctx, listConversationsByUser, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var items []db_models.Conversation
	for rows.Next() {
		var c db_models.Conversation
		if err := rows.Scan(
			&c.DisplayID,
			&c.UserID,
			&c.Title,
			&c.Content,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning conversation row: %w", err)
		}
		items = append(items, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversation rows: %w", err)
	}

	return items, nil
}

const deleteConversation = `-- name: DeleteConversation :exec
DELETE FROM chat_messages
WHERE display_id = $1 AND user_id = $2;
`

// DeleteConversation removes a conversation row scoped to its owner.
// Returns store.ErrNotFound if no row matched.
func (s *PostgresStore) DeleteConversation(ctx context.Context, displayID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, deleteConversation, displayID, userID)
	if err != nil {
		return fmt.Errorf("database error deleting conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
