package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"ifeelu-backend/internal/llm"
	api_models "ifeelu-backend/internal/models"
	"ifeelu-backend/pkg/httputil"
	"ifeelu-backend/pkg/logger"

	"go.uber.org/zap"
)

// GPTHandlers proxies requests to the external language-model and
// text-to-speech provider. Each handler is a single-shot request/response
// proxy: no retry, no deadline beyond the request context.
type GPTHandlers struct {
	llm llm.Client
	log *logger.Logger
}

func NewGPTHandlers(client llm.Client, log *logger.Logger) *GPTHandlers {
	return &GPTHandlers{
		llm: client,
		log: log,
	}
}

// validateCompletionRequest checks the shared {model, messages} shape.
// Every message must carry both a role and content string.
func validateCompletionRequest(req *api_models.CompletionRequest) string {
	if req.Model == "" {
		return "Model is required"
	}
	if len(req.Messages) == 0 {
		return "Messages are required"
	}
	for _, m := range req.Messages {
		if m.Role == "" || m.Content == "" {
			return "Invalid Input"
		}
	}
	return ""
}

// HandleCompletion handles POST /api/GPTSpeechText.
func (h *GPTHandlers) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	var req api_models.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Input")
		return
	}
	defer r.Body.Close()

	if msg := validateCompletionRequest(&req); msg != "" {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	reply, err := h.llm.Complete(r.Context(), req.Model, req.Messages)
	if err != nil {
		h.log.Error("completion proxy failed", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Error calling OpenAI API")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.MessageResponse{Message: reply})
}

// HandleMood handles POST /api/GPTGetMood. The reply is always one label
// from the closed mood set; unrecognized provider output falls back to the
// unknown label.
func (h *GPTHandlers) HandleMood(w http.ResponseWriter, r *http.Request) {
	var req api_models.CompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Input")
		return
	}
	defer r.Body.Close()

	if msg := validateCompletionRequest(&req); msg != "" {
		httputil.RespondError(w, http.StatusBadRequest, msg)
		return
	}

	mood, err := h.llm.ClassifyMood(r.Context(), req.Model, req.Messages)
	if err != nil {
		h.log.Error("mood proxy failed", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Error calling OpenAI API")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, api_models.MessageResponse{Message: string(mood)})
}

// HandleSpeech handles POST /api/GPTSpeechAudio. On success the raw audio
// bytes are streamed back as an mp3 attachment.
func (h *GPTHandlers) HandleSpeech(w http.ResponseWriter, r *http.Request) {
	var req api_models.SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid Input")
		return
	}
	defer r.Body.Close()

	if req.Message == "" {
		httputil.RespondError(w, http.StatusBadRequest, "Messages are required")
		return
	}

	audio, err := h.llm.Synthesize(r.Context(), req.Message)
	if err != nil {
		h.log.Error("speech proxy failed", zap.Error(err))
		httputil.RespondError(w, http.StatusInternalServerError, "Error calling OpenAI API")
		return
	}
	defer audio.Close()

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", `attachment; filename="audio.mp3"`)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, audio); err != nil {
		// Headers already written; nothing to do but log.
		h.log.Error("streaming audio failed", zap.Error(err))
	}
}
