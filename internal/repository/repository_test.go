package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/iyunix/go-chat/internal/database"
	"github.com/iyunix/go-chat/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Warn(string, ...interface{})  {}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "chat.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, nopLogger{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func backends(t *testing.T) map[string]func(t *testing.T) Repository {
	return map[string]func(t *testing.T) Repository{
		"memory": func(t *testing.T) Repository { return NewMemoryRepository() },
		"gorm":   func(t *testing.T) Repository { return NewGormRepository(openTestDB(t), nopLogger{}) },
	}
}

func TestRepositoryContract(t *testing.T) {
	for name, build := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("ChatLifecycle", func(t *testing.T) {
				repo := build(t)
				ctx := context.Background()

				first, err := repo.CreateChat(ctx, domain.NewChat{Title: "first"})
				require.NoError(t, err)
				assert.NotEmpty(t, first.ID)
				assert.False(t, first.CreatedAt.IsZero())

				second, err := repo.CreateChat(ctx, domain.NewChat{Title: "second"})
				require.NoError(t, err)
				assert.NotEqual(t, first.ID, second.ID)

				chats, err := repo.GetChats(ctx)
				require.NoError(t, err)
				require.Len(t, chats, 2)
				assert.Equal(t, second.ID, chats[0].ID)
				assert.Equal(t, first.ID, chats[1].ID)

				found, err := repo.GetChat(ctx, first.ID)
				require.NoError(t, err)
				require.NotNil(t, found)
				assert.Equal(t, "first", found.Title)

				updated, err := repo.UpdateChatTitle(ctx, first.ID, "renamed")
				require.NoError(t, err)
				require.NotNil(t, updated)
				assert.Equal(t, "renamed", updated.Title)
				assert.Equal(t, first.ID, updated.ID)
				assert.True(t, first.CreatedAt.Equal(updated.CreatedAt))
			})

			t.Run("AbsentChat", func(t *testing.T) {
				repo := build(t)
				ctx := context.Background()

				chat, err := repo.GetChat(ctx, "missing")
				assert.NoError(t, err)
				assert.Nil(t, chat)

				updated, err := repo.UpdateChatTitle(ctx, "missing", "title")
				assert.NoError(t, err)
				assert.Nil(t, updated)

				messages, err := repo.GetMessages(ctx, "missing")
				assert.NoError(t, err)
				assert.NotNil(t, messages)
				assert.Empty(t, messages)

				chats, err := repo.GetChats(ctx)
				assert.NoError(t, err)
				assert.NotNil(t, chats)
				assert.Empty(t, chats)
			})

			t.Run("MessagesInInsertionOrder", func(t *testing.T) {
				repo := build(t)
				ctx := context.Background()

				chat, err := repo.CreateChat(ctx, domain.NewChat{Title: domain.DefaultChatTitle})
				require.NoError(t, err)
				other, err := repo.CreateChat(ctx, domain.NewChat{Title: "other"})
				require.NoError(t, err)

				contents := []string{"one", "two", "three", "four"}
				for i, content := range contents {
					role := domain.RoleUser
					if i%2 == 1 {
						role = domain.RoleAssistant
					}
					_, err := repo.CreateMessage(ctx, domain.NewMessage{ChatID: chat.ID, Role: role, Content: content})
					require.NoError(t, err)
				}
				_, err = repo.CreateMessage(ctx, domain.NewMessage{ChatID: other.ID, Role: domain.RoleUser, Content: "elsewhere"})
				require.NoError(t, err)

				messages, err := repo.GetMessages(ctx, chat.ID)
				require.NoError(t, err)
				require.Len(t, messages, len(contents))
				for i, message := range messages {
					assert.Equal(t, contents[i], message.Content)
					assert.Equal(t, chat.ID, message.ChatID)
					if i > 0 {
						assert.False(t, message.CreatedAt.Before(messages[i-1].CreatedAt))
					}
				}
				assert.Equal(t, domain.RoleAssistant, messages[1].Role)
			})

			t.Run("MessageForUnknownChat", func(t *testing.T) {
				repo := build(t)

				message, err := repo.CreateMessage(context.Background(), domain.NewMessage{
					ChatID:  "missing",
					Role:    domain.RoleUser,
					Content: "hello",
				})
				assert.ErrorIs(t, err, ErrChatNotFound)
				assert.Nil(t, message)
			})

			t.Run("Users", func(t *testing.T) {
				repo := build(t)
				ctx := context.Background()

				user, err := repo.CreateUser(ctx, domain.NewUser{Username: "alice", Password: "secret"})
				require.NoError(t, err)
				assert.NotEqual(t, "secret", user.Password)
				assert.NoError(t, user.ValidatePassword("secret"))

				byID, err := repo.GetUser(ctx, user.ID)
				require.NoError(t, err)
				require.NotNil(t, byID)
				assert.Equal(t, "alice", byID.Username)

				byName, err := repo.GetUserByUsername(ctx, "alice")
				require.NoError(t, err)
				require.NotNil(t, byName)
				assert.Equal(t, user.ID, byName.ID)

				_, err = repo.CreateUser(ctx, domain.NewUser{Username: "alice", Password: "other"})
				assert.ErrorIs(t, err, ErrDuplicateUsername)

				missing, err := repo.GetUserByUsername(ctx, "bob")
				assert.NoError(t, err)
				assert.Nil(t, missing)
			})
		})
	}
}

func TestMemoryRepository_TiesBreakOnInsertionOrder(t *testing.T) {
	repo := NewMemoryRepository()
	fixed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()

	a, err := repo.CreateChat(ctx, domain.NewChat{Title: "a"})
	require.NoError(t, err)
	b, err := repo.CreateChat(ctx, domain.NewChat{Title: "b"})
	require.NoError(t, err)

	chats, err := repo.GetChats(ctx)
	require.NoError(t, err)
	require.Len(t, chats, 2)
	assert.Equal(t, b.ID, chats[0].ID)
	assert.Equal(t, a.ID, chats[1].ID)
}

func TestMemoryRepository_ClockNeverRunsBackwards(t *testing.T) {
	repo := NewMemoryRepository()
	times := []time.Time{
		time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC),
		time.Date(2024, 1, 1, 12, 0, 1, 0, time.UTC),
	}
	calls := 0
	repo.now = func() time.Time {
		ts := times[calls%len(times)]
		calls++
		return ts
	}
	ctx := context.Background()

	chat, err := repo.CreateChat(ctx, domain.NewChat{Title: "t"})
	require.NoError(t, err)
	message, err := repo.CreateMessage(ctx, domain.NewMessage{ChatID: chat.ID, Role: domain.RoleUser, Content: "x"})
	require.NoError(t, err)

	assert.False(t, message.CreatedAt.Before(chat.CreatedAt))
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	chat, err := repo.CreateChat(ctx, domain.NewChat{Title: "original"})
	require.NoError(t, err)
	chat.Title = "mutated"

	stored, err := repo.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Title)
}

func TestGormRepository_StorageUnavailable(t *testing.T) {
	db := openTestDB(t)
	repo := NewGormRepository(db, nopLogger{})

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.GetChats(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = repo.CreateChat(context.Background(), domain.NewChat{Title: "t"})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestLazyRepository_SelectsBackendOnce(t *testing.T) {
	var builds atomic.Int32
	lazy := NewLazy(func() (Repository, error) {
		builds.Add(1)
		time.Sleep(10 * time.Millisecond)
		return NewMemoryRepository(), nil
	})

	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := lazy.CreateChat(context.Background(), domain.NewChat{Title: "concurrent"})
			return err
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), builds.Load())

	chats, err := lazy.GetChats(context.Background())
	require.NoError(t, err)
	assert.Len(t, chats, 16)
}

func TestLazyRepository_RetriesFailedBuild(t *testing.T) {
	boom := errors.New("boom")
	var builds atomic.Int32
	lazy := NewLazy(func() (Repository, error) {
		if builds.Add(1) == 1 {
			return nil, unavailable(boom)
		}
		return NewMemoryRepository(), nil
	})

	_, err := lazy.GetChats(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	chat, err := lazy.CreateChat(context.Background(), domain.NewChat{Title: "after recovery"})
	require.NoError(t, err)

	first, err := lazy.Backend()
	require.NoError(t, err)
	found, err := first.GetChat(context.Background(), chat.ID)
	require.NoError(t, err)
	require.NotNil(t, found)

	second, err := lazy.Backend()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, int32(2), builds.Load())
}

func TestLazyRepository_RecoversWhenStoreBecomesReachable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-yet-created")
	lazy := NewLazy(NewFromURL("sqlite://"+filepath.Join(dir, "chat.db"), nopLogger{}))

	_, err := lazy.GetChats(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)

	require.NoError(t, os.MkdirAll(dir, 0o755))

	chat, err := lazy.CreateChat(context.Background(), domain.NewChat{Title: "persisted"})
	require.NoError(t, err)

	backend, err := lazy.Backend()
	require.NoError(t, err)
	gormRepo, ok := backend.(*GormRepository)
	require.True(t, ok)
	t.Cleanup(func() {
		if sqlDB, err := gormRepo.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	chats, err := lazy.GetChats(context.Background())
	require.NoError(t, err)
	require.Len(t, chats, 1)
	assert.Equal(t, chat.ID, chats[0].ID)
}

func TestNewFromURL(t *testing.T) {
	t.Run("EmptyURLUsesMemory", func(t *testing.T) {
		repo, err := NewFromURL("", nopLogger{})()
		require.NoError(t, err)
		assert.IsType(t, &MemoryRepository{}, repo)
	})

	t.Run("SQLitePathUsesGorm", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lazy.db")
		repo, err := NewFromURL("sqlite://"+path, nopLogger{})()
		require.NoError(t, err)
		gormRepo, ok := repo.(*GormRepository)
		require.True(t, ok)
		t.Cleanup(func() {
			if sqlDB, err := gormRepo.db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		})

		chat, err := repo.CreateChat(context.Background(), domain.NewChat{Title: "persisted"})
		require.NoError(t, err)
		found, err := repo.GetChat(context.Background(), chat.ID)
		require.NoError(t, err)
		assert.Equal(t, "persisted", found.Title)
	})
}
