// File: internal/services/chat/types.go
package chat

import (
	"github.com/iyunix/go-chat/internal/domain"
	"github.com/iyunix/go-chat/internal/repository"
)

// Logger defines the logging interface used across chat services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// Store is the slice of the repository the chat service needs.
type Store interface {
	repository.ChatRepository
	repository.MessageRepository
}

// Exchange is the result of one successful send: the stored user turn and the reply.
type Exchange struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
}
