package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ifeelu-backend/internal/api"
	"ifeelu-backend/internal/config"
	"ifeelu-backend/internal/handlers"
	"ifeelu-backend/internal/llm"
	"ifeelu-backend/internal/services"
	"ifeelu-backend/internal/store/postgres"
	"ifeelu-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting I Feel U backend", zap.String("port", cfg.HTTPPort))

	// 2. Initialize Database Connection Pool
	// Use context.Background() for initial setup, but request-scoped contexts later.
	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	dbpool, err := pgxpool.New(dbCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("unable to create database connection pool", zap.Error(err))
	}
	defer dbpool.Close()

	if err := dbpool.Ping(dbCtx); err != nil {
		log.Fatal("unable to ping database", zap.Error(err))
	}

	// 3. Initialize Dependencies (Store, LLM client, Services, Handlers)
	pgStore := postgres.NewPostgresStore(dbpool)
	if err := pgStore.Migrate(dbCtx); err != nil {
		log.Fatal("schema bootstrap failed", zap.Error(err))
	}
	log.Info("postgres store initialized")

	llmClient, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel)
	if err != nil {
		log.Fatal("failed to create OpenAI client", zap.Error(err))
	}

	authService := services.NewAuthService(pgStore, cfg, log)
	conversationService := services.NewConversationService(pgStore, llmClient, log)

	authHandler := handlers.NewAuthHandler(authService, log)
	gptHandlers := handlers.NewGPTHandlers(llmClient, log)
	conversationHandler := handlers.NewConversationHandlers(conversationService, log)

	// 4. Setup Router & Inject Dependencies
	router := api.NewRouter(api.RouterDependencies{
		AuthHandler:         authHandler,
		GPTHandlers:         gptHandlers,
		ConversationHandler: conversationHandler,
		Config:              cfg,
		Logger:              log,
	})

	// 5. Configure and Start HTTP Server
	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
		// Production hardening: Set timeouts to avoid Slowloris attacks
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second, // provider calls can be slow
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for OS signals for graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, syscall.SIGINT, syscall.SIGTERM)

	// Run server in a goroutine so it doesn't block
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	<-stopChan
	log.Info("shutdown signal received, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("graceful shutdown failed", zap.Error(err))
	}

	log.Info("server shutdown complete")
}
