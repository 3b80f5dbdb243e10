// File: internal/repository/gorm_repository.go
package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GormRepository persists users, chats and messages through gorm.
// It works against both the Postgres and SQLite dialects opened by the database package.
type GormRepository struct {
	db     *gorm.DB
	logger Logger
}

func NewGormRepository(db *gorm.DB, logger Logger) *GormRepository {
	return &GormRepository{db: db, logger: logger}
}

// handleFindError maps gorm's not-found into the nil, nil absence convention.
func handleFindError[T any](err error, record *T) (*T, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, unavailable(err)
	}
	return record, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

func now() time.Time {
	return time.Now().UTC()
}
