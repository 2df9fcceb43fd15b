package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"ifeelu-backend/internal/auth"
	"ifeelu-backend/internal/config"
	"ifeelu-backend/internal/models"
	"ifeelu-backend/internal/store"
	"ifeelu-backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Custom errors for auth service
var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrHashingPassword    = errors.New("failed to hash password")
	ErrCreatingToken      = errors.New("failed to create access token")
	ErrValidation         = errors.New("input validation failed")
)

// Password length policy carried over from the registration form.
const (
	minPasswordLen = 8
	maxPasswordLen = 20
)

type AuthService struct {
	store store.Store
	cfg   *config.Config
	log   *logger.Logger
}

func NewAuthService(s store.Store, cfg *config.Config, log *logger.Logger) *AuthService {
	return &AuthService{
		store: s,
		cfg:   cfg,
		log:   log,
	}
}

// Register validates the credentials, hashes the password, and inserts a
// new user row. A duplicate email is surfaced as ErrUserAlreadyExists, not
// a generic server error.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return nil, fmt.Errorf("%w: password must be %d-%d characters", ErrValidation, minPasswordLen, maxPasswordLen)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		s.log.Error("hashing password failed", zap.String("email", email), zap.Error(err))
		return nil, ErrHashingPassword
	}

	user := &models.User{
		DisplayID:      uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		s.log.Error("creating user failed", zap.String("email", email), zap.Error(err))
		return nil, fmt.Errorf("creating user failed: %w", err)
	}

	s.log.Info("user registered", zap.String("user_id", user.DisplayID.String()))
	return user, nil
}

// Login verifies user credentials and returns an access token and user info.
// Unknown email and wrong password collapse into the same error so the
// response does not reveal which one failed.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", nil, ErrInvalidCredentials // Basic check before hitting DB
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		s.log.Error("retrieving user failed", zap.String("email", email), zap.Error(err))
		return "", nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !auth.CheckPasswordHash(password, user.HashedPassword) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := auth.NewAccessToken(user.DisplayID, s.cfg.JWTSecret, s.cfg.TokenExpiration)
	if err != nil {
		s.log.Error("generating token failed", zap.String("user_id", user.DisplayID.String()), zap.Error(err))
		return "", nil, ErrCreatingToken
	}

	s.log.Info("user logged in", zap.String("user_id", user.DisplayID.String()))
	return token, user, nil
}
