// File: internal/repository/lazy.go
package repository

import (
	"context"
	"sync"

	"github.com/iyunix/go-chat/internal/database"
	"github.com/iyunix/go-chat/internal/domain"
)

// Factory builds the concrete backend. It runs until it first succeeds.
type Factory func() (Repository, error)

// LazyRepository defers backend selection to the first operation.
// Concurrent first callers wait on the same build and share its backend. A failed build is not
// kept, so the next call tries again once the store is reachable.
type LazyRepository struct {
	factory Factory

	mu      sync.Mutex
	backend Repository
}

func NewLazy(factory Factory) *LazyRepository {
	return &LazyRepository{factory: factory}
}

func (l *LazyRepository) resolve() (Repository, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.backend != nil {
		return l.backend, nil
	}
	backend, err := l.factory()
	if err != nil {
		return nil, err
	}
	l.backend = backend
	return backend, nil
}

// NewFromURL picks the in-memory backend when databaseURL is empty and the gorm backend otherwise.
func NewFromURL(databaseURL string, logger Logger) Factory {
	return func() (Repository, error) {
		if databaseURL == "" {
			logger.Info("no database configured, using in-memory storage")
			return NewMemoryRepository(), nil
		}

		db, err := database.Open(databaseURL)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			return nil, unavailable(err)
		}
		if err := database.Migrate(db, logger); err != nil {
			logger.Error("failed to migrate database", "error", err)
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				_ = sqlDB.Close()
			}
			return nil, unavailable(err)
		}

		logger.Info("using database storage", "dialect", db.Dialector.Name())
		return NewGormRepository(db, logger), nil
	}
}

// Backend returns the resolved backend, initialising it if needed.
func (l *LazyRepository) Backend() (Repository, error) {
	return l.resolve()
}

func (l *LazyRepository) CreateUser(ctx context.Context, candidate domain.NewUser) (*domain.User, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.CreateUser(ctx, candidate)
}

func (l *LazyRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.GetUser(ctx, id)
}

func (l *LazyRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.GetUserByUsername(ctx, username)
}

func (l *LazyRepository) CreateChat(ctx context.Context, fields domain.NewChat) (*domain.Chat, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.CreateChat(ctx, fields)
}

func (l *LazyRepository) GetChats(ctx context.Context) ([]domain.Chat, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.GetChats(ctx)
}

func (l *LazyRepository) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.GetChat(ctx, id)
}

func (l *LazyRepository) UpdateChatTitle(ctx context.Context, id, title string) (*domain.Chat, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.UpdateChatTitle(ctx, id, title)
}

func (l *LazyRepository) CreateMessage(ctx context.Context, fields domain.NewMessage) (*domain.Message, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.CreateMessage(ctx, fields)
}

func (l *LazyRepository) GetMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	repo, err := l.resolve()
	if err != nil {
		return nil, err
	}
	return repo.GetMessages(ctx, chatID)
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*GormRepository)(nil)
	_ Repository = (*LazyRepository)(nil)
)
