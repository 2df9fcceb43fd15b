package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User represents a user row in the database.
type User struct {
	DisplayID      uuid.UUID `db:"display_id"`
	Email          string    `db:"user_email"`
	HashedPassword string    `db:"user_password"`
}

// Conversation represents one saved chat in the database. The full ordered
// message sequence lives in Content as a JSONB array and is replaced
// wholesale on every save.
type Conversation struct {
	DisplayID uuid.UUID       `db:"display_id"`
	UserID    uuid.UUID       `db:"user_id"`
	Title     string          `db:"title"`
	Content   json.RawMessage `db:"content"`
	CreatedAt time.Time       `db:"created_at"`
}

// Messages decodes the stored content column into the message sequence.
func (c *Conversation) Messages() ([]ChatMessage, error) {
	var msgs []ChatMessage
	if err := json.Unmarshal(c.Content, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}
