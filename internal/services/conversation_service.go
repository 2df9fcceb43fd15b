package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ifeelu-backend/internal/llm"
	"ifeelu-backend/internal/models"
	"ifeelu-backend/internal/store"
	"ifeelu-backend/pkg/logger"
	"ifeelu-backend/pkg/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Custom errors for the conversation service
var (
	ErrInvalidUserID        = errors.New("invalid user id")
	ErrInvalidConversation  = errors.New("invalid conversation id")
	ErrConversationNotFound = errors.New("conversation not found")
)

// DefaultTitle is used when the message sequence is empty or title
// generation fails.
const DefaultTitle = "新對話"

// ConversationService owns the save / list / delete flow for per-user
// chat history.
type ConversationService struct {
	store store.Store
	llm   llm.Client
	log   *logger.Logger
}

func NewConversationService(s store.Store, client llm.Client, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store: s,
		llm:   client,
		log:   log,
	}
}

// Save persists a conversation. A blank display id mints a fresh one. The
// first save of an identifier generates a title; subsequent saves replace
// the message content and leave the title alone. The existence check and
// the write race against concurrent saves is closed by the store's single
// upsert statement.
//
// An empty message sequence or blank user id is a deliberate no-op: the
// call succeeds without touching storage.
func (s *ConversationService) Save(ctx context.Context, displayID, userID string, chat []models.ChatMessage) (string, error) {
	if len(chat) == 0 || userID == "" {
		return displayID, nil
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}

	id := uuid.Nil
	if displayID != "" {
		if id, err = uuid.Parse(displayID); err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidConversation, displayID)
		}
	} else {
		id = uuid.New()
	}

	content, err := json.Marshal(chat)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat content: %w", err)
	}

	title := ""
	_, err = s.store.GetConversation(ctx, id, uid)
	switch {
	case err == nil:
		// Existing conversation: content replaced, title untouched.
		metrics.ConversationsSaved.WithLabelValues("update").Inc()
	case errors.Is(err, store.ErrNotFound):
		title = s.generateTitle(ctx, chat)
		metrics.ConversationsSaved.WithLabelValues("create").Inc()
	default:
		return "", fmt.Errorf("failed to check conversation existence: %w", err)
	}

	if err := s.store.UpsertConversation(ctx, store.UpsertConversationParams{
		DisplayID: id,
		UserID:    uid,
		Title:     title,
		Content:   content,
	}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The identifier is taken by a row this user does not own.
			return "", ErrConversationNotFound
		}
		return "", fmt.Errorf("failed to save conversation: %w", err)
	}

	s.log.Info("conversation saved",
		zap.String("display_id", id.String()),
		zap.String("user_id", uid.String()),
		zap.Int("messages", len(chat)),
	)
	return id.String(), nil
}

// generateTitle asks the provider for a short title, falling back to the
// fixed default on any failure.
func (s *ConversationService) generateTitle(ctx context.Context, chat []models.ChatMessage) string {
	title, err := s.llm.GenerateTitle(ctx, chat)
	if err != nil {
		s.log.Warn("title generation failed, using default", zap.Error(err))
		return DefaultTitle
	}
	return title
}

// List returns all of a user's conversations ordered newest-first. An empty
// result is not an error.
func (s *ConversationService) List(ctx context.Context, userID string) ([]models.ConversationResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}

	convs, err := s.store.ListConversationsByUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	result := make([]models.ConversationResponse, 0, len(convs))
	for i := range convs {
		msgs, err := convs[i].Messages()
		if err != nil {
			return nil, fmt.Errorf("failed to parse chat content for %s: %w", convs[i].DisplayID, err)
		}
		result = append(result, models.ConversationResponse{
			DisplayID: convs[i].DisplayID,
			UserID:    convs[i].UserID,
			Title:     convs[i].Title,
			Chat:      msgs,
			CreatedAt: convs[i].CreatedAt,
		})
	}
	return result, nil
}

// Delete removes one of the user's conversations by id. A missing row and
// a row owned by someone else both surface as ErrConversationNotFound.
func (s *ConversationService) Delete(ctx context.Context, displayID, userID string) error {
	id, err := uuid.Parse(displayID)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidConversation, displayID)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidUserID, userID)
	}

	if err := s.store.DeleteConversation(ctx, id, uid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrConversationNotFound
		}
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	s.log.Info("conversation deleted", zap.String("display_id", id.String()))
	return nil
}
