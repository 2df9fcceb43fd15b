package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	db_models "ifeelu-backend/internal/models"
	"ifeelu-backend/internal/services"
	"ifeelu-backend/pkg/httputil"
	"ifeelu-backend/pkg/logger"

	"go.uber.org/zap"
)

// AuthService defines the interface expected from the auth service.
// This promotes loose coupling and testability.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*db_models.User, error)
	Login(ctx context.Context, email, password string) (string, *db_models.User, error)
}

type AuthHandler struct {
	authService AuthService
	log         *logger.Logger
}

func NewAuthHandler(authSvc AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authSvc,
		log:         log,
	}
}

// HandleRegister handles the POST /api/UserRegistration request.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req db_models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Input")
		return
	}
	defer r.Body.Close()

	if req.UserEmail == "" || req.UserPassword == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	_, err := h.authService.Register(r.Context(), req.UserEmail, req.UserPassword)
	if err != nil {
		h.log.Warn("registration failed", zap.Error(err))
		switch {
		case errors.Is(err, services.ErrUserAlreadyExists):
			httputil.RespondError(w, http.StatusConflict, err.Error()) // 409
		case errors.Is(err, services.ErrValidation):
			httputil.RespondError(w, http.StatusBadRequest, err.Error()) // 400
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Something went wrong during registration") // 500
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, db_models.MessageResponse{Message: "ok"})
}

// HandleLogin handles the POST /api/UserLoginAuthentication request.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req db_models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Input")
		return
	}
	defer r.Body.Close()

	if req.UserEmail == "" || req.UserPassword == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, user, err := h.authService.Login(r.Context(), req.UserEmail, req.UserPassword)
	if err != nil {
		h.log.Warn("login failed", zap.Error(err))
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			// Same shape for unknown email and wrong password.
			httputil.RespondError(w, http.StatusUnauthorized, "Invalid email or password") // 401
		default:
			httputil.RespondError(w, http.StatusInternalServerError, "Internal server error") // 500
		}
		return
	}

	httputil.RespondJSON(w, http.StatusOK, db_models.AuthResponse{
		Message: "Login successful",
		Token:   token,
		UserID:  user.DisplayID,
	})
}
