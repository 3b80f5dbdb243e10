// File: internal/repository/gorm_chat_repository.go
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/iyunix/go-chat/internal/domain"
)

func (r *GormRepository) CreateChat(ctx context.Context, fields domain.NewChat) (*domain.Chat, error) {
	chat := &domain.Chat{
		ID:        uuid.NewString(),
		Title:     fields.Title,
		CreatedAt: now(),
	}
	if err := r.db.WithContext(ctx).Create(chat).Error; err != nil {
		r.logger.Error("failed to create chat", "error", err)
		return nil, unavailable(err)
	}
	return chat, nil
}

func (r *GormRepository) GetChats(ctx context.Context) ([]domain.Chat, error) {
	chats := []domain.Chat{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("seq DESC").
		Find(&chats).Error
	if err != nil {
		r.logger.Error("failed to list chats", "error", err)
		return nil, unavailable(err)
	}
	return chats, nil
}

func (r *GormRepository) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	var chat domain.Chat
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&chat).Error
	return handleFindError(err, &chat)
}

func (r *GormRepository) UpdateChatTitle(ctx context.Context, id, title string) (*domain.Chat, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Chat{}).
		Where("id = ?", id).
		Update("title", title)
	if result.Error != nil {
		r.logger.Error("failed to update chat title", "chat_id", id, "error", result.Error)
		return nil, unavailable(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return r.GetChat(ctx, id)
}
