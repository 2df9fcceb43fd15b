package services

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"time"

	"ifeelu-backend/internal/llm"
	"ifeelu-backend/internal/models"
	"ifeelu-backend/internal/store"

	"github.com/google/uuid"
)

// fakeStore is an in-memory store.Store for service tests. Inserts get
// strictly increasing timestamps so list ordering matches the real store's
// newest-first contract.
type fakeStore struct {
	users         map[string]*models.User // keyed by email
	conversations map[uuid.UUID]*models.Conversation

	failUserLookup error // forced error for GetUserByEmail
	upsertCalls    int
	clock          time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[string]*models.User),
		conversations: make(map[uuid.UUID]*models.Conversation),
		clock:         time.Date(2024, 10, 20, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if f.failUserLookup != nil {
		return nil, f.failUserLookup
	}
	u, ok := f.users[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return store.ErrDuplicate
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeStore) GetConversation(_ context.Context, displayID, userID uuid.UUID) (*models.Conversation, error) {
	c, ok := f.conversations[displayID]
	if !ok || c.UserID != userID {
		return nil, store.ErrNotFound
	}
	return c, nil
}

func (f *fakeStore) UpsertConversation(_ context.Context, arg store.UpsertConversationParams) error {
	f.upsertCalls++
	if existing, ok := f.conversations[arg.DisplayID]; ok {
		if existing.UserID != arg.UserID {
			// Foreign row untouched: zero rows affected.
			return store.ErrNotFound
		}
		existing.Content = arg.Content
		return nil
	}
	f.clock = f.clock.Add(time.Second)
	f.conversations[arg.DisplayID] = &models.Conversation{
		DisplayID: arg.DisplayID,
		UserID:    arg.UserID,
		Title:     arg.Title,
		Content:   arg.Content,
		CreatedAt: f.clock,
	}
	return nil
}

func (f *fakeStore) ListConversationsByUser(_ context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) DeleteConversation(_ context.Context, displayID, userID uuid.UUID) error {
	c, ok := f.conversations[displayID]
	if !ok || c.UserID != userID {
		return store.ErrNotFound
	}
	delete(f.conversations, displayID)
	return nil
}

// stubLLM is a canned llm.Client.
type stubLLM struct {
	title      string
	titleErr   error
	titleCalls int
}

func (s *stubLLM) Complete(context.Context, string, []models.ChatMessage) (string, error) {
	return "ok", nil
}

func (s *stubLLM) ClassifyMood(context.Context, string, []models.ChatMessage) (llm.Mood, error) {
	return llm.MoodUnknown, nil
}

func (s *stubLLM) GenerateTitle(context.Context, []models.ChatMessage) (string, error) {
	s.titleCalls++
	if s.titleErr != nil {
		return "", s.titleErr
	}
	return s.title, nil
}

func (s *stubLLM) Synthesize(context.Context, string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("audio")), nil
}

var errBoom = errors.New("boom")
