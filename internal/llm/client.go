// Package llm wraps the external language-model and text-to-speech provider.
package llm

import (
	"context"
	"io"
	"strings"

	"ifeelu-backend/internal/models"
)

// Mood is one label from the closed set the classifier is instructed to
// emit. The provider's output is free text, so anything unrecognized is
// clamped to MoodUnknown rather than passed through.
type Mood string

const (
	MoodCheerful Mood = "開朗"
	MoodSad      Mood = "難過"
	MoodAngry    Mood = "生氣"
	MoodConfused Mood = "困惑"
	MoodUnknown  Mood = "不確定"
)

// ParseMood maps a raw provider reply onto the closed label set.
func ParseMood(raw string) Mood {
	label := strings.TrimSpace(raw)
	label = strings.Trim(label, "【】")
	switch Mood(label) {
	case MoodCheerful, MoodSad, MoodAngry, MoodConfused, MoodUnknown:
		return Mood(label)
	default:
		return MoodUnknown
	}
}

// Client is the interface to the chat-completion and speech provider.
// A narrow interface keeps handlers and services stubbable in tests.
type Client interface {
	// Complete forwards the message history, with the assistant persona
	// prepended, and returns the first completion's text.
	Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error)

	// ClassifyMood asks the provider for one label describing the user's
	// mood across the conversation.
	ClassifyMood(ctx context.Context, model string, messages []models.ChatMessage) (Mood, error)

	// GenerateTitle produces a short title for a conversation.
	GenerateTitle(ctx context.Context, messages []models.ChatMessage) (string, error)

	// Synthesize converts text to speech audio. The caller owns the reader.
	Synthesize(ctx context.Context, text string) (io.ReadCloser, error)
}
