// File: internal/services/chat/interface.go
package chat

import (
	"context"

	"github.com/iyunix/go-chat/internal/domain"
)

// ChatProvider handles basic chat operations
type ChatProvider interface {
	CreateChat(ctx context.Context, title string) (*domain.Chat, error)
	ListChats(ctx context.Context) ([]domain.Chat, error)
	ListMessages(ctx context.Context, chatID string) ([]domain.Message, error)
}

// MessageSender runs one user turn through the completion pipeline.
type MessageSender interface {
	SendMessage(ctx context.Context, chatID, role, content string) (*Exchange, error)
	RegenerateReply(ctx context.Context, chatID string) (*Exchange, error)
}

// Service combines all chat capabilities
type Service interface {
	ChatProvider
	MessageSender
}

var _ Service = (*ChatService)(nil)
