package store

import (
	"context"
	"encoding/json"
	"errors"

	db_models "ifeelu-backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a specific record is not found.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("record already exists")

// UpsertConversationParams contains parameters for the atomic
// insert-or-replace of a conversation. Title is only applied on insert;
// an existing row keeps its original title.
type UpsertConversationParams struct {
	DisplayID uuid.UUID
	UserID    uuid.UUID
	Title     string
	Content   json.RawMessage
}

// Store defines the interface for database operations.
// This allows for mocking in tests and potential DB backend switching.
type Store interface {
	// User operations
	GetUserByEmail(ctx context.Context, email string) (*db_models.User, error)
	CreateUser(ctx context.Context, user *db_models.User) error

	// Conversation operations. Reads and writes are scoped to the owning
	// user; a display id held by a different user behaves as if it does
	// not exist.
	GetConversation(ctx context.Context, displayID, userID uuid.UUID) (*db_models.Conversation, error)
	UpsertConversation(ctx context.Context, arg UpsertConversationParams) error
	ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]db_models.Conversation, error)
	DeleteConversation(ctx context.Context, displayID, userID uuid.UUID) error
}
