// File: internal/handlers/chat_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-chat/internal/domain"
	"github.com/iyunix/go-chat/internal/services/chat"
)

// Logger defines the logging interface used by the handlers
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

type ChatHandler struct {
	ChatService chat.Service
	Logger      Logger
}

func NewChatHandler(cs chat.Service, logger Logger) *ChatHandler {
	return &ChatHandler{
		ChatService: cs,
		Logger:      logger,
	}
}

// GetChats returns every chat, newest first.
func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.ChatService.ListChats(r.Context())
	if err != nil {
		h.Logger.Error("error fetching chats", "error", err)
		writeError(w, "Internal server error while fetching chats", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// CreateChat handles POST /api/chats with a {title} body.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, domain.FieldError{Field: "body", Message: "request body must be a JSON object"})
		return
	}
	if req.Title == nil {
		writeValidationError(w, domain.FieldError{Field: "title", Message: "title is required"})
		return
	}

	created, err := h.ChatService.CreateChat(r.Context(), *req.Title)
	if err != nil {
		h.Logger.Error("error creating chat", "error", err)
		writeError(w, "Internal server error while creating chat", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, created)
}

// GetChatMessages returns the chat's messages oldest first; unknown chats yield [].
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	messages, err := h.ChatService.ListMessages(r.Context(), chatID)
	if err != nil {
		h.Logger.Error("error fetching messages", "chat_id", chatID, "error", err)
		writeError(w, "Internal server error while fetching messages", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// SendMessage runs one user turn through the completion pipeline.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	var req domain.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, domain.FieldError{Field: "body", Message: "request body must be a JSON object"})
		return
	}

	exchange, err := h.ChatService.SendMessage(r.Context(), chatID, req.Role, req.Content)
	if err != nil {
		h.writeChatError(w, chatID, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.SendMessageResponse{
		UserMessage:      *exchange.UserMessage,
		AssistantMessage: *exchange.AssistantMessage,
	})
}

// RegenerateReply answers the chat's last unanswered user turn without posting it again.
func (h *ChatHandler) RegenerateReply(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chatId"]

	exchange, err := h.ChatService.RegenerateReply(r.Context(), chatID)
	if err != nil {
		h.writeChatError(w, chatID, err)
		return
	}

	writeJSON(w, http.StatusOK, domain.SendMessageResponse{
		UserMessage:      *exchange.UserMessage,
		AssistantMessage: *exchange.AssistantMessage,
	})
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, chatID string, err error) {
	var chatErr *chat.ChatError
	if !errors.As(err, &chatErr) {
		h.Logger.Error("error processing message", "chat_id", chatID, "error", err)
		writeError(w, "Internal server error while processing message", http.StatusInternalServerError)
		return
	}

	switch chatErr.Type {
	case chat.ErrTypeValidation:
		writeValidationError(w, chatErr.Details...)
	case chat.ErrTypeNotFound:
		writeError(w, "Chat not found", http.StatusNotFound)
	case chat.ErrTypeRateLimited:
		writeError(w, "Rate limit exceeded. Please try again in a moment.", http.StatusTooManyRequests)
	case chat.ErrTypeAuthConfig:
		writeError(w, "API authentication failed. Please check your OpenAI API key configuration.", http.StatusInternalServerError)
	case chat.ErrTypeProvider:
		message := chatErr.Message
		if message == "" {
			message = "Failed to generate response"
		}
		writeError(w, "AI service error: "+message, http.StatusInternalServerError)
	default:
		h.Logger.Error("error processing message", "chat_id", chatID, "error", err)
		writeError(w, "Internal server error while processing message", http.StatusInternalServerError)
	}
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, domain.ErrorResponse{Error: message})
}

func writeValidationError(w http.ResponseWriter, details ...domain.FieldError) {
	writeJSON(w, http.StatusBadRequest, domain.ErrorResponse{Error: "Validation error", Details: details})
}
