// File: internal/services/chat/service.go
package chat

import (
	"context"
	"strings"

	"github.com/iyunix/go-chat/internal/domain"
	"github.com/iyunix/go-chat/internal/services/ai"
)

// ChatService owns chat creation, listing and the send-message pipeline.
type ChatService struct {
	config   *Config
	store    Store
	provider ai.CompletionProvider
	logger   Logger
}

func NewChatService(config *Config, store Store, provider ai.CompletionProvider, logger Logger) (*ChatService, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &ChatService{
		config:   config,
		store:    store,
		provider: provider,
		logger:   logger,
	}, nil
}

func (s *ChatService) CreateChat(ctx context.Context, title string) (*domain.Chat, error) {
	chat, err := s.store.CreateChat(ctx, domain.NewChat{Title: title})
	if err != nil {
		s.logger.Error("failed to create chat", "error", err)
		return nil, NewStorageError("create_chat", "", err)
	}
	s.logger.Info("chat created", "chat_id", chat.ID)
	return chat, nil
}

func (s *ChatService) ListChats(ctx context.Context) ([]domain.Chat, error) {
	chats, err := s.store.GetChats(ctx)
	if err != nil {
		s.logger.Error("failed to list chats", "error", err)
		return nil, NewStorageError("list_chats", "", err)
	}
	return chats, nil
}

// ListMessages returns an empty list for unknown chats.
func (s *ChatService) ListMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	messages, err := s.store.GetMessages(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to list messages", "chat_id", chatID, "error", err)
		return nil, NewStorageError("list_messages", chatID, err)
	}
	return messages, nil
}

// SendMessage stores the user turn, asks the provider for a reply and stores that too.
// The user turn stays stored when anything after it fails.
func (s *ChatService) SendMessage(ctx context.Context, chatID, role, content string) (*Exchange, error) {
	const op = "send_message"

	if err := validateSend(role, content); err != nil {
		return nil, err
	}

	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to load chat", "chat_id", chatID, "error", err)
		return nil, NewStorageError(op, chatID, err)
	}
	if chat == nil {
		return nil, NewNotFoundError(op, chatID)
	}

	userMessage, err := s.store.CreateMessage(ctx, domain.NewMessage{
		ChatID:  chatID,
		Role:    domain.RoleUser,
		Content: content,
	})
	if err != nil {
		s.logger.Error("failed to store user message", "chat_id", chatID, "error", err)
		return nil, fromRepository(op, chatID, err)
	}

	return s.answer(ctx, op, chatID, userMessage)
}

// RegenerateReply answers the chat's trailing user turn again without storing a new one.
// It is how a client retries after SendMessage failed past the point of saving the user turn.
func (s *ChatService) RegenerateReply(ctx context.Context, chatID string) (*Exchange, error) {
	const op = "regenerate_reply"

	chat, err := s.store.GetChat(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to load chat", "chat_id", chatID, "error", err)
		return nil, NewStorageError(op, chatID, err)
	}
	if chat == nil {
		return nil, NewNotFoundError(op, chatID)
	}

	history, err := s.store.GetMessages(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to load history", "chat_id", chatID, "error", err)
		return nil, NewStorageError(op, chatID, err)
	}
	if len(history) == 0 || history[len(history)-1].Role != domain.RoleUser {
		return nil, NewValidationError(op, domain.FieldError{
			Field:   "chatId",
			Message: "chat has no unanswered user message",
		})
	}

	last := history[len(history)-1]
	return s.answer(ctx, op, chatID, &last)
}

// answer completes the stored history ending in userMessage and stores the reply.
// The title is derived when userMessage is the chat's only message.
func (s *ChatService) answer(ctx context.Context, op, chatID string, userMessage *domain.Message) (*Exchange, error) {
	history, err := s.store.GetMessages(ctx, chatID)
	if err != nil {
		s.logger.Error("failed to load history", "chat_id", chatID, "error", err)
		return nil, NewStorageError(op, chatID, err)
	}

	reply, err := s.provider.Complete(ctx, s.buildTurns(history))
	if err != nil {
		s.logger.Error("completion failed",
			"chat_id", chatID,
			"user_message_id", userMessage.ID,
			"error", err,
		)
		return nil, fromGateway(op, chatID, err)
	}

	assistantMessage, err := s.store.CreateMessage(ctx, domain.NewMessage{
		ChatID:  chatID,
		Role:    domain.RoleAssistant,
		Content: reply,
	})
	if err != nil {
		s.logger.Error("failed to store assistant message", "chat_id", chatID, "error", err)
		return nil, fromRepository(op, chatID, err)
	}

	if len(history) == 1 {
		s.deriveTitle(ctx, chatID, userMessage.Content)
	}

	s.logger.Info("message exchange completed",
		"chat_id", chatID,
		"history_length", len(history),
	)
	return &Exchange{UserMessage: userMessage, AssistantMessage: assistantMessage}, nil
}

func validateSend(role, content string) *ChatError {
	var details []domain.FieldError
	if parsed, err := domain.ParseRole(role); err != nil {
		details = append(details, domain.FieldError{Field: "role", Message: err.Error()})
	} else if parsed != domain.RoleUser {
		details = append(details, domain.FieldError{Field: "role", Message: `role must be "user"`})
	}
	if strings.TrimSpace(content) == "" {
		details = append(details, domain.FieldError{Field: "content", Message: "content is required"})
	}
	if len(details) > 0 {
		return NewValidationError("send_message", details...)
	}
	return nil
}

func (s *ChatService) buildTurns(history []domain.Message) []ai.Turn {
	turns := make([]ai.Turn, 0, len(history)+1)
	turns = append(turns, ai.Turn{Role: ai.RoleSystem, Content: s.config.SystemPrompt})
	for _, message := range history {
		turns = append(turns, ai.Turn{Role: string(message.Role), Content: message.Content})
	}
	return turns
}

// deriveTitle never fails the exchange; errors are only logged.
func (s *ChatService) deriveTitle(ctx context.Context, chatID, content string) {
	title := TruncateText(content, s.config.TitleMaxLength)
	updated, err := s.store.UpdateChatTitle(ctx, chatID, title)
	if err != nil {
		s.logger.Warn("failed to set chat title", "chat_id", chatID, "error", err)
		return
	}
	if updated == nil {
		s.logger.Warn("chat disappeared before title update", "chat_id", chatID)
	}
}
