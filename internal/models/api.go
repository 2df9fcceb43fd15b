package models

import (
	"time"

	"github.com/google/uuid"
)

// --- Request Structs ---

// RegisterRequest defines the expected body for the registration endpoint.
// Field names follow the frontend's payload shape.
type RegisterRequest struct {
	UserEmail    string `json:"userEmail"`
	UserPassword string `json:"userPassword"`
}

// LoginRequest defines the expected body for the login endpoint.
type LoginRequest struct {
	UserEmail    string `json:"userEmail"`
	UserPassword string `json:"userPassword"`
}

// ChatMessage represents a single message in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`    // "user" or "assistant"
	Content string `json:"content"` // The message text
}

// CompletionRequest defines the body shared by the completion and mood
// proxy endpoints.
type CompletionRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

// SpeechRequest defines the body for the text-to-speech endpoint.
type SpeechRequest struct {
	Message string `json:"message"`
}

// SaveConversationRequest defines the body for saving a conversation.
// DisplayID is optional; a blank value asks the server to mint one.
type SaveConversationRequest struct {
	DisplayID string        `json:"display_id,omitempty"`
	UserID    string        `json:"user_id"`
	Chat      []ChatMessage `json:"chat"`
}

// ListConversationsRequest defines the body for listing a user's conversations.
type ListConversationsRequest struct {
	UserID string `json:"user_id"`
}

// DeleteConversationRequest defines the body for deleting a conversation.
type DeleteConversationRequest struct {
	DisplayID string `json:"display_id"`
}

// --- Response Structs ---

// MessageResponse is the generic `{message}` success body used by the
// proxy and auth endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthResponse defines the response body for successful authentication.
type AuthResponse struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	UserID  uuid.UUID `json:"user_id"`
}

// SaveConversationResponse echoes the resolved conversation identifier.
type SaveConversationResponse struct {
	Status    int    `json:"status"`
	DisplayID string `json:"display_id"`
}

// ConversationResponse is one conversation as returned by the list endpoint.
type ConversationResponse struct {
	DisplayID uuid.UUID     `json:"display_id"`
	UserID    uuid.UUID     `json:"user_id"`
	Title     string        `json:"title"`
	Chat      []ChatMessage `json:"chat"`
	CreatedAt time.Time     `json:"created_at"`
}

// ListConversationsResponse wraps the list endpoint's result array.
type ListConversationsResponse struct {
	Result []ConversationResponse `json:"result"`
}

// ErrorResponse defines the standard structure for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
