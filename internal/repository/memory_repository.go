// File: internal/repository/memory_repository.go
package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iyunix/go-chat/internal/domain"
)

// MemoryRepository keeps everything in process memory; data is lost on restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	users    map[string]*domain.User
	chats    map[string]*domain.Chat
	messages map[string][]domain.Message // by chat ID, in append order
	seq      uint64
	lastTime time.Time
	now      func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:    make(map[string]*domain.User),
		chats:    make(map[string]*domain.Chat),
		messages: make(map[string][]domain.Message),
		now:      time.Now,
	}
}

// stamp hands out a sequence number and a timestamp that never runs backwards. Caller holds mu.
func (r *MemoryRepository) stamp() (uint64, time.Time) {
	r.seq++
	ts := r.now().UTC()
	if ts.Before(r.lastTime) {
		ts = r.lastTime
	}
	r.lastTime = ts
	return r.seq, ts
}

func (r *MemoryRepository) CreateUser(ctx context.Context, candidate domain.NewUser) (*domain.User, error) {
	user := &domain.User{Username: candidate.Username}
	if err := user.IsValid(); err != nil {
		return nil, err
	}
	// Hash outside the lock; bcrypt is slow.
	if err := user.HashPassword(candidate.Password); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == candidate.Username {
			return nil, ErrDuplicateUsername
		}
	}

	user.Seq, user.CreatedAt = r.stamp()
	user.ID = uuid.NewString()
	r.users[user.ID] = user

	created := *user
	return &created, nil
}

func (r *MemoryRepository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	found := *user
	return &found, nil
}

func (r *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username {
			found := *user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) CreateChat(ctx context.Context, fields domain.NewChat) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat := &domain.Chat{ID: uuid.NewString(), Title: fields.Title}
	chat.Seq, chat.CreatedAt = r.stamp()
	r.chats[chat.ID] = chat

	created := *chat
	return &created, nil
}

func (r *MemoryRepository) GetChats(ctx context.Context) ([]domain.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chats := make([]domain.Chat, 0, len(r.chats))
	for _, chat := range r.chats {
		chats = append(chats, *chat)
	}
	sort.Slice(chats, func(i, j int) bool {
		if !chats[i].CreatedAt.Equal(chats[j].CreatedAt) {
			return chats[i].CreatedAt.After(chats[j].CreatedAt)
		}
		return chats[i].Seq > chats[j].Seq
	})
	return chats, nil
}

func (r *MemoryRepository) GetChat(ctx context.Context, id string) (*domain.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, nil
	}
	found := *chat
	return &found, nil
}

func (r *MemoryRepository) UpdateChatTitle(ctx context.Context, id, title string) (*domain.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chat, ok := r.chats[id]
	if !ok {
		return nil, nil
	}
	chat.Title = title
	updated := *chat
	return &updated, nil
}

func (r *MemoryRepository) CreateMessage(ctx context.Context, fields domain.NewMessage) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[fields.ChatID]; !ok {
		return nil, ErrChatNotFound
	}

	message := domain.Message{
		ID:      uuid.NewString(),
		ChatID:  fields.ChatID,
		Role:    fields.Role,
		Content: fields.Content,
	}
	message.Seq, message.CreatedAt = r.stamp()
	r.messages[fields.ChatID] = append(r.messages[fields.ChatID], message)

	return &message, nil
}

func (r *MemoryRepository) GetMessages(ctx context.Context, chatID string) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[chatID]
	messages := make([]domain.Message, len(stored))
	copy(messages, stored)
	return messages, nil
}
