// File: internal/repository/gorm_message_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iyunix/go-chat/internal/domain"
)

func (r *GormRepository) CreateMessage(ctx context.Context, fields domain.NewMessage) (*domain.Message, error) {
	message := &domain.Message{
		ID:      uuid.NewString(),
		ChatID:  fields.ChatID,
		Role:    fields.Role,
		Content: fields.Content,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Chat{}).Where("id = ?", fields.ChatID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrChatNotFound
		}
		message.CreatedAt = now()
		return tx.Create(message).Error
	})
	if err != nil {
		if errors.Is(err, ErrChatNotFound) {
			return nil, err
		}
		r.logger.Error("failed to create message", "chat_id", fields.ChatID, "error", err)
		return nil, unavailable(err)
	}
	return message, nil
}

func (r *GormRepository) GetMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	messages := []domain.Message{}
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&messages).Error
	if err != nil {
		r.logger.Error("failed to list messages", "chat_id", chatID, "error", err)
		return nil, unavailable(err)
	}
	return messages, nil
}
