package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"ifeelu-backend/internal/models"
	"ifeelu-backend/pkg/metrics"

	"github.com/sashabaranov/go-openai"
)

// System prompts sent verbatim to the provider. The persona prompt steers
// the assistant away from self-harm and crime topics, keeps conversational
// continuity, and pins the reply language to the user's.
const (
	personaPrompt = `你正在傾聽非常要好的朋友。以下是你需要做到的事：第一點判斷對方的人格特質並給予符合對方性格的回答。
      第二點，若對方有想要犯罪、自我傷害的意圖時，請以正面的回答做回應，避免該情形發生。
      第三點，若你從對方的回答認為話題已經結束，請試著開啟新的話題。
      第四點，如果對方說的是中文，就只能用繁體中文回答`

	moodPrompt = `請你看完以下對話後，從【開朗、難過、生氣、困惑】中，選一個你認為最符合使用者的心情，若不確定請回傳【不確定】。只需要給答案，不需要解釋或其他說明`

	titlePrompt = `請用十個字以內為以下對話取一個簡短的標題。只需要給標題，不需要解釋或其他說明`
)

const (
	// emptyCompletionPlaceholder is returned instead of failing when the
	// provider's response carries no completion.
	emptyCompletionPlaceholder = "無回應"

	completionMaxTokens = 2048
	moodMaxTokens       = 1024
	titleMaxTokens      = 64

	completionFrequencyPenalty = 1.0
	completionPresencePenalty  = 2.0
)

// Compile-time check to ensure OpenAIClient implements Client
var _ Client = (*OpenAIClient)(nil)

// OpenAIClient is the OpenAI-backed provider client.
type OpenAIClient struct {
	client       *openai.Client
	defaultModel string
}

// NewOpenAIClient creates a provider client. baseURL may be empty to use
// the public API endpoint; defaultModel is used for title generation.
func NewOpenAIClient(apiKey, baseURL, defaultModel string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &OpenAIClient{
		client:       openai.NewClientWithConfig(cfg),
		defaultModel: defaultModel,
	}, nil
}

func toOpenAIMessages(system string, msgs []models.ChatMessage) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs)+1)
	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, m := range msgs {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

// Complete sends the full history with the persona prompt prepended.
// An empty choice list yields a fixed placeholder, not an error.
func (c *OpenAIClient) Complete(ctx context.Context, model string, messages []models.ChatMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:            model,
		Messages:         toOpenAIMessages(personaPrompt, messages),
		MaxTokens:        completionMaxTokens,
		FrequencyPenalty: completionFrequencyPenalty,
		PresencePenalty:  completionPresencePenalty,
	})
	if err != nil {
		metrics.RecordLLMCall("completion", "error")
		return "", fmt.Errorf("provider completion failed: %w", err)
	}
	metrics.RecordLLMCall("completion", "ok")

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return emptyCompletionPlaceholder, nil
	}
	return resp.Choices[0].Message.Content, nil
}

// ClassifyMood sends the history with the classification prompt prepended
// and clamps the reply to the closed label set.
func (c *OpenAIClient) ClassifyMood(ctx context.Context, model string, messages []models.ChatMessage) (Mood, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		Messages:  toOpenAIMessages(moodPrompt, messages),
		MaxTokens: moodMaxTokens,
	})
	if err != nil {
		metrics.RecordLLMCall("mood", "error")
		return MoodUnknown, fmt.Errorf("provider mood classification failed: %w", err)
	}
	metrics.RecordLLMCall("mood", "ok")

	if len(resp.Choices) == 0 {
		return MoodUnknown, nil
	}
	return ParseMood(resp.Choices[0].Message.Content), nil
}

// GenerateTitle asks for a short conversation title using the default model.
func (c *OpenAIClient) GenerateTitle(ctx context.Context, messages []models.ChatMessage) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.defaultModel,
		Messages:  toOpenAIMessages(titlePrompt, messages),
		MaxTokens: titleMaxTokens,
	})
	if err != nil {
		metrics.RecordLLMCall("title", "error")
		return "", fmt.Errorf("provider title generation failed: %w", err)
	}
	metrics.RecordLLMCall("title", "ok")

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("empty title response")
	}
	return resp.Choices[0].Message.Content, nil
}

// Synthesize converts text to mp3 audio with a fixed voice and speed.
func (c *OpenAIClient) Synthesize(ctx context.Context, text string) (io.ReadCloser, error) {
	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model: openai.TTSModel1,
		Input: text,
		Voice: openai.VoiceNova,
		Speed: 1.0,
	})
	if err != nil {
		metrics.RecordLLMCall("speech", "error")
		return nil, fmt.Errorf("provider speech synthesis failed: %w", err)
	}
	metrics.RecordLLMCall("speech", "ok")
	return resp, nil
}
