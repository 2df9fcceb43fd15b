package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ifeelu-backend/internal/auth"

	"github.com/google/uuid"
)

func protectedEcho(t *testing.T, secret string) http.Handler {
	t.Helper()
	return JwtAuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			t.Error("user id missing from context")
		}
		w.Write([]byte(userID.String()))
	}))
}

func TestJwtAuthMiddlewareAcceptsValidToken(t *testing.T) {
	userID := uuid.New()
	token, err := auth.NewAccessToken(userID, "secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken returned error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/GetUserChat", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedEcho(t, "secret").ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body)
	}
	if rec.Body.String() != userID.String() {
		t.Fatalf("context user id = %q, want %q", rec.Body.String(), userID)
	}
}

func TestJwtAuthMiddlewareRejections(t *testing.T) {
	expired, err := auth.NewAccessToken(uuid.New(), "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken returned error: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + mustSign(t)},
		{"expired", "Bearer " + expired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/GetUserChat", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			protectedEcho(t, "secret").ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func mustSign(t *testing.T) string {
	t.Helper()
	token, err := auth.NewAccessToken(uuid.New(), "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken returned error: %v", err)
	}
	return token
}
