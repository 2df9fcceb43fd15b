package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"ifeelu-backend/internal/llm"
	"ifeelu-backend/internal/models"
	"ifeelu-backend/pkg/logger"
)

type stubLLM struct {
	reply    string
	mood     llm.Mood
	audio    string
	err      error
	lastSeen []models.ChatMessage
}

func (s *stubLLM) Complete(_ context.Context, _ string, msgs []models.ChatMessage) (string, error) {
	s.lastSeen = msgs
	return s.reply, s.err
}

func (s *stubLLM) ClassifyMood(_ context.Context, _ string, msgs []models.ChatMessage) (llm.Mood, error) {
	s.lastSeen = msgs
	return s.mood, s.err
}

func (s *stubLLM) GenerateTitle(context.Context, []models.ChatMessage) (string, error) {
	return "title", s.err
}

func (s *stubLLM) Synthesize(context.Context, string) (io.ReadCloser, error) {
	if s.err != nil {
		return nil, s.err
	}
	return io.NopCloser(strings.NewReader(s.audio)), nil
}

func TestHandleCompletion(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{"ok", `{"model":"m","messages":[{"role":"user","content":"hi"}]}`, nil, http.StatusOK},
		{"bad json", `nope`, nil, http.StatusBadRequest},
		{"missing model", `{"messages":[{"role":"user","content":"hi"}]}`, nil, http.StatusBadRequest},
		{"no messages", `{"model":"m","messages":[]}`, nil, http.StatusBadRequest},
		{"blank role", `{"model":"m","messages":[{"role":"","content":"hi"}]}`, nil, http.StatusBadRequest},
		{"blank content", `{"model":"m","messages":[{"role":"user","content":""}]}`, nil, http.StatusBadRequest},
		{"provider failure", `{"model":"m","messages":[{"role":"user","content":"hi"}]}`, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubLLM{reply: "哈囉", err: tc.err}
			h := NewGPTHandlers(stub, logger.NewNop())
			rec := doJSON(t, h.HandleCompletion, http.MethodPost, tc.body)
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.wantStatus, rec.Body)
			}
			if tc.wantStatus == http.StatusOK {
				var resp models.MessageResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Message != "哈囉" {
					t.Fatalf("unexpected body %s", rec.Body)
				}
				// The handler forwards the history untouched; the provider
				// client owns prompt shaping.
				if len(stub.lastSeen) != 1 || stub.lastSeen[0].Role != "user" || stub.lastSeen[0].Content != "hi" {
					t.Fatalf("history not forwarded verbatim: %+v", stub.lastSeen)
				}
			}
		})
	}
}

func TestHandleMoodReturnsClosedSetLabel(t *testing.T) {
	moods := map[string]bool{"開朗": true, "難過": true, "生氣": true, "困惑": true, "不確定": true}

	for _, mood := range []llm.Mood{llm.MoodSad, llm.MoodUnknown} {
		h := NewGPTHandlers(&stubLLM{mood: mood}, logger.NewNop())
		rec := doJSON(t, h.HandleMood, http.MethodPost, `{"model":"m","messages":[{"role":"user","content":"我很難過"}]}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var resp models.MessageResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if !moods[resp.Message] {
			t.Fatalf("mood %q outside the closed set", resp.Message)
		}
	}
}

func TestHandleSpeech(t *testing.T) {
	h := NewGPTHandlers(&stubLLM{audio: "mp3-bytes"}, logger.NewNop())

	rec := doJSON(t, h.HandleSpeech, http.MethodPost, `{"message":"你好"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "audio/mpeg" {
		t.Fatalf("Content-Type = %q, want audio/mpeg", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "audio.mp3") {
		t.Fatalf("Content-Disposition = %q", cd)
	}
	if rec.Body.String() != "mp3-bytes" {
		t.Fatalf("unexpected payload %q", rec.Body.String())
	}
}

func TestHandleSpeechValidation(t *testing.T) {
	h := NewGPTHandlers(&stubLLM{}, logger.NewNop())

	if rec := doJSON(t, h.HandleSpeech, http.MethodPost, `{"message":""}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("empty message: status = %d, want 400", rec.Code)
	}

	h = NewGPTHandlers(&stubLLM{err: errors.New("boom")}, logger.NewNop())
	if rec := doJSON(t, h.HandleSpeech, http.MethodPost, `{"message":"hi"}`); rec.Code != http.StatusInternalServerError {
		t.Fatalf("provider failure: status = %d, want 500", rec.Code)
	}
}
