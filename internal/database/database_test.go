package database

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-chat/internal/domain"
)

func TestDialectorFor(t *testing.T) {
	tests := []struct {
		url        string
		wantSQLite bool
		wantName   string
	}{
		{"postgres://u:p@localhost:5432/chat", false, "postgres"},
		{"postgresql://u:p@localhost:5432/chat", false, "postgres"},
		{"sqlite:///tmp/chat.db", true, "sqlite"},
		{"chat.db", true, "sqlite"},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			dialector, isSQLite, err := dialectorFor(tc.url)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQLite, isSQLite)
			assert.Equal(t, tc.wantName, dialector.Name())
		})
	}

	_, _, err := dialectorFor("")
	assert.Error(t, err)
}

func TestOpenAndMigrate_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.db")

	db, err := Open("sqlite://" + path)
	require.NoError(t, err)
	logger := &recordingLogger{}
	require.NoError(t, Migrate(db, logger))
	// Running again is a no-op.
	require.NoError(t, Migrate(db, logger))

	// Only the first run initialises a clean schema.
	assert.Equal(t, []string{"clean database detected, running full schema initialization"}, logger.infos)

	for _, model := range []any{&domain.User{}, &domain.Chat{}, &domain.Message{}} {
		assert.True(t, db.Migrator().HasTable(model))
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
}

type recordingLogger struct {
	mu    sync.Mutex
	infos []string
}

func (l *recordingLogger) Info(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(string, ...interface{}) {}
func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
