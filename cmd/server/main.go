// File: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/iyunix/go-chat/internal/config"
	"github.com/iyunix/go-chat/internal/handlers"
	"github.com/iyunix/go-chat/internal/repository"
	"github.com/iyunix/go-chat/internal/services"
	"github.com/iyunix/go-chat/internal/services/ai"
	"github.com/iyunix/go-chat/internal/services/chat"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: Failed to load config: %v", err)
	}

	logger, err := services.NewLogger("go-chat", cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// --- Repository ---
	// The backend is chosen on first use, not here.
	repo := repository.NewLazy(repository.NewFromURL(cfg.DatabaseURL, logger))

	// --- Services ---
	provider, err := ai.NewOpenAIProvider(&ai.Config{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.CompletionTimeout,
	})
	if err != nil {
		logger.Error("failed to initialize completion provider", "error", err)
		os.Exit(1)
	}
	if cfg.OpenAIAPIKey == "" {
		logger.Warn("OPENAI_API_KEY is not set; completions will fail with an authentication error")
	}

	chatService, err := chat.NewChatService(chat.DefaultConfig(), repo, provider, logger)
	if err != nil {
		logger.Error("failed to initialize chat service", "error", err)
		os.Exit(1)
	}

	// --- Router Setup ---
	router := handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}, chatService, logger)

	// --- Server Configuration ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("server starting",
		"port", cfg.ServerPort,
		"environment", cfg.Environment,
		"model", cfg.OpenAIModel,
		"completion_timeout", cfg.CompletionTimeout,
		"durable_storage", cfg.DatabaseURL != "",
	)

	// --- Start Server in Goroutine ---
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server startup failed", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server gracefully")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", "error", err)
		return
	}
	logger.Info("server stopped gracefully")
}
