// File: internal/handlers/routes.go
package handlers

import (
	"net/http"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"

	"github.com/iyunix/go-chat/internal/middleware"
	"github.com/iyunix/go-chat/internal/services/chat"
)

type RouterConfig struct {
	AllowedOrigins []string
}

// NewRouter wires the JSON API, health check and client log sink.
func NewRouter(cfg RouterConfig, chatService chat.Service, logger Logger) http.Handler {
	chatHandler := NewChatHandler(chatService, logger)
	logHandler := NewLogHandler(logger)

	r := mux.NewRouter()
	r.Use(middleware.RecoverPanic(logger))
	r.Use(middleware.LoggingMiddleware(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/api/log", logHandler.LogFrontendEvent).Methods("POST")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/chats", chatHandler.GetChats).Methods("GET")
	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{chatId}/messages", chatHandler.GetChatMessages).Methods("GET")
	api.HandleFunc("/chats/{chatId}/messages", chatHandler.SendMessage).Methods("POST")
	api.HandleFunc("/chats/{chatId}/regenerate", chatHandler.RegenerateReply).Methods("POST")

	// CORS wraps the router so preflight requests are answered before route matching.
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	return corsHandler(r)
}
