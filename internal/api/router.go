package api

import (
	"net/http"
	"time"

	"ifeelu-backend/internal/config"
	"ifeelu-backend/internal/handlers"
	"ifeelu-backend/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDependencies holds all the dependencies required by the router setup,
// primarily handlers and configuration.
type RouterDependencies struct {
	AuthHandler         *handlers.AuthHandler
	GPTHandlers         *handlers.GPTHandlers
	ConversationHandler *handlers.ConversationHandlers
	Config              *config.Config
	Logger              *logger.Logger
}

// NewRouter creates and configures the main Chi router for the application.
func NewRouter(deps RouterDependencies) *chi.Mux {
	r := chi.NewRouter()

	// --- Base Middleware Stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// --- CORS Configuration ---
	// Adjust AllowedOrigins for your frontend deployment(s)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*.vercel.app"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Route names match the frontend's fetch paths.
	r.Route("/api", func(r chi.Router) {
		// --- Public Routes (No JWT Required) ---
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(30, time.Minute))
			r.Post("/UserRegistration", deps.AuthHandler.HandleRegister)
			r.Post("/UserLoginAuthentication", deps.AuthHandler.HandleLogin)
		})

		// GPT proxies are reachable from the anonymous chatroom too.
		r.Group(func(r chi.Router) {
			r.Use(httprate.LimitByIP(60, time.Minute))
			r.Post("/GPTSpeechText", deps.GPTHandlers.HandleCompletion)
			r.Post("/GPTGetMood", deps.GPTHandlers.HandleMood)
			r.Post("/GPTSpeechAudio", deps.GPTHandlers.HandleSpeech)
		})

		// --- Authenticated Routes (JWT Required) ---
		r.Group(func(r chi.Router) {
			r.Use(JwtAuthMiddleware(deps.Config.JWTSecret))
			r.Post("/GetUserChat", deps.ConversationHandler.HandleList)
			r.Put("/UserChatSave", deps.ConversationHandler.HandleSave)
			r.Put("/UserChatDelete", deps.ConversationHandler.HandleDelete)
		})
	})

	return r
}
