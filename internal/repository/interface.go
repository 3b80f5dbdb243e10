// File: internal/repository/interface.go
package repository

import (
	"context"
	"errors"

	"github.com/iyunix/go-chat/internal/domain"
)

var (
	// ErrStorageUnavailable wraps every failure of the backing store itself.
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDuplicateUsername  = errors.New("username already exists")
	// ErrChatNotFound is returned when a message is written to a chat that does not exist.
	ErrChatNotFound = errors.New("chat not found")
)

// UserRepository handles user data operations.
// Lookups return a nil user and a nil error when nothing matches.
type UserRepository interface {
	CreateUser(ctx context.Context, candidate domain.NewUser) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// ChatRepository handles chat data operations.
type ChatRepository interface {
	CreateChat(ctx context.Context, fields domain.NewChat) (*domain.Chat, error)
	// GetChats returns every chat, most recently created first.
	GetChats(ctx context.Context) ([]domain.Chat, error)
	GetChat(ctx context.Context, id string) (*domain.Chat, error)
	// UpdateChatTitle stores title verbatim and returns nil when the chat is unknown.
	UpdateChatTitle(ctx context.Context, id, title string) (*domain.Chat, error)
}

// MessageRepository handles message data operations.
type MessageRepository interface {
	CreateMessage(ctx context.Context, fields domain.NewMessage) (*domain.Message, error)
	// GetMessages returns the chat's messages oldest first, ties in insertion order.
	GetMessages(ctx context.Context, chatID string) ([]domain.Message, error)
}

// Repository is the full persistence surface. The in-memory and gorm backends both satisfy it.
type Repository interface {
	UserRepository
	ChatRepository
	MessageRepository
}

// Logger defines the logging interface used by the repositories
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
