package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ifeelu-backend/internal/auth"
	api_models "ifeelu-backend/internal/models"
	"ifeelu-backend/internal/services"
	"ifeelu-backend/pkg/httputil"
	"ifeelu-backend/pkg/logger"

	"go.uber.org/zap"
)

// ConversationService defines the interface expected from the conversation
// service.
type ConversationService interface {
	Save(ctx context.Context, displayID, userID string, chat []api_models.ChatMessage) (string, error)
	List(ctx context.Context, userID string) ([]api_models.ConversationResponse, error)
	Delete(ctx context.Context, displayID, userID string) error
}

type ConversationHandlers struct {
	conversations ConversationService
	log           *logger.Logger
}

func NewConversationHandlers(svc ConversationService, log *logger.Logger) *ConversationHandlers {
	return &ConversationHandlers{
		conversations: svc,
		log:           log,
	}
}

// validRoles mirrors the request schema: only user and assistant messages
// may be persisted.
func validRoles(chat []api_models.ChatMessage) bool {
	for _, m := range chat {
		if m.Role != "user" && m.Role != "assistant" {
			return false
		}
	}
	return true
}

// claimedUserID resolves the authenticated user from the request context
// and verifies the body's user_id, when present, names the same user. The
// token claim is the authority; the body field only survives for the
// frontend's request shape.
func claimedUserID(w http.ResponseWriter, r *http.Request, bodyUserID string) (string, bool) {
	claim, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "Authentication required")
		return "", false
	}
	if bodyUserID != "" && bodyUserID != claim.String() {
		httputil.RespondError(w, http.StatusForbidden, "Forbidden")
		return "", false
	}
	return claim.String(), true
}

// HandleSave handles PUT /api/UserChatSave.
func (h *ConversationHandlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req api_models.SaveConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Content")
		return
	}
	defer r.Body.Close()

	if !validRoles(req.Chat) {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Content")
		return
	}

	userID, ok := claimedUserID(w, r, req.UserID)
	if !ok {
		return
	}

	displayID, err := h.conversations.Save(r.Context(), req.DisplayID, userID, req.Chat)
	if err != nil {
		h.log.Error("conversation save failed", zap.Error(err))
		switch {
		case errors.Is(err, services.ErrInvalidUserID), errors.Is(err, services.ErrInvalidConversation):
			httputil.RespondError(w, http.StatusBadRequest, "Invalid Content")
		case errors.Is(err, services.ErrConversationNotFound):
			httputil.RespondError(w, http.StatusNotFound, "No chat message found with the given displayId")
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Something went wrong when uploading chat")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.SaveConversationResponse{
		Status:    http.StatusOK,
		DisplayID: displayID,
	})
}

// HandleList handles POST /api/GetUserChat.
func (h *ConversationHandlers) HandleList(w http.ResponseWriter, r *http.Request) {
	var req api_models.ListConversationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Content")
		return
	}
	defer r.Body.Close()

	userID, ok := claimedUserID(w, r, req.UserID)
	if !ok {
		return
	}

	result, err := h.conversations.List(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidUserID):
			httputil.RespondError(w, http.StatusBadRequest, "Invalid Content")
		default:
			h.log.Error("conversation list failed", zap.Error(err))
			httputil.RespondError(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.ListConversationsResponse{Result: result})
}

// HandleDelete handles PUT /api/UserChatDelete.
func (h *ConversationHandlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	var req api_models.DeleteConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}
	defer r.Body.Close()

	if req.DisplayID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "No displayId provided")
		return
	}

	userID, ok := claimedUserID(w, r, "")
	if !ok {
		return
	}

	if err := h.conversations.Delete(r.Context(), req.DisplayID, userID); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidConversation):
			httputil.RespondError(w, http.StatusBadRequest, "Invalid ID")
		case errors.Is(err, services.ErrConversationNotFound):
			httputil.RespondError(w, http.StatusNotFound, "No chat message found with the given displayId")
		default:
			h.log.Error("conversation delete failed", zap.Error(err))
			httputil.RespondError(w, http.StatusInternalServerError, "Something went wrong when deleting chat")
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.MessageResponse{Message: "Chat message deleted successfully"})
}
