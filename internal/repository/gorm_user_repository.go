// File: internal/repository/gorm_user_repository.go
package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/iyunix/go-chat/internal/domain"
)

func (r *GormRepository) CreateUser(ctx context.Context, candidate domain.NewUser) (*domain.User, error) {
	user := &domain.User{Username: candidate.Username}
	if err := user.IsValid(); err != nil {
		return nil, err
	}

	existing, err := r.GetUserByUsername(ctx, candidate.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}

	if err := user.HashPassword(candidate.Password); err != nil {
		return nil, err
	}
	user.ID = uuid.NewString()
	user.CreatedAt = now()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		// Two registrations can pass the pre-check together; the unique index settles it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateUsername
		}
		r.logger.Error("failed to create user", "error", err)
		return nil, unavailable(err)
	}

	r.logger.Debug("user created", "user_id", user.ID)
	return user, nil
}

func (r *GormRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	return handleFindError(err, &user)
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	return handleFindError(err, &user)
}
