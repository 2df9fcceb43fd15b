package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ifeelu-backend/internal/config"
	"ifeelu-backend/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		TokenExpiration: time.Hour,
	}
}

func TestRegisterThenLogin(t *testing.T) {
	svc := NewAuthService(newFakeStore(), testConfig(), logger.NewNop())
	ctx := context.Background()

	user, err := svc.Register(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("unexpected email: %q", user.Email)
	}
	if user.HashedPassword == "password1" {
		t.Fatal("password stored in plaintext")
	}

	token, got, err := svc.Login(ctx, "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if got.DisplayID != user.DisplayID {
		t.Fatalf("login returned wrong user: got %s want %s", got.DisplayID, user.DisplayID)
	}
}

func TestLoginNormalizesEmail(t *testing.T) {
	svc := NewAuthService(newFakeStore(), testConfig(), logger.NewNop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "  A@X.com ", "password1"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if _, _, err := svc.Login(ctx, "a@x.com", "password1"); err != nil {
		t.Fatalf("Login with normalized email failed: %v", err)
	}
}

func TestLoginCollapsesFailureModes(t *testing.T) {
	svc := NewAuthService(newFakeStore(), testConfig(), logger.NewNop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "password1"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Wrong password for an existing email and a nonexistent email must
	// fail with the same error.
	_, _, wrongPass := svc.Login(ctx, "a@x.com", "wrong-password")
	_, _, noUser := svc.Login(ctx, "nobody@x.com", "password1")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(noUser, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v want ErrInvalidCredentials", noUser)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeStore(), testConfig(), logger.NewNop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@x.com", "password1"); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}
	_, err := svc.Register(ctx, "a@x.com", "password1")
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("duplicate registration: got %v want ErrUserAlreadyExists", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewAuthService(newFakeStore(), testConfig(), logger.NewNop())
	ctx := context.Background()

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"malformed email", "not-an-email", "password1"},
		{"short password", "a@x.com", "short"},
		{"long password", "a@x.com", "this-password-is-way-too-long-for-policy"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Register(ctx, tc.email, tc.password); !errors.Is(err, ErrValidation) {
				t.Fatalf("got %v want ErrValidation", err)
			}
		})
	}
}

func TestLoginStoreFailure(t *testing.T) {
	fs := newFakeStore()
	fs.failUserLookup = errBoom
	svc := NewAuthService(fs, testConfig(), logger.NewNop())

	_, _, err := svc.Login(context.Background(), "a@x.com", "password1")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("storage failure must not masquerade as bad credentials, got %v", err)
	}
}
