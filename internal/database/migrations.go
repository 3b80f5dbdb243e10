// File: internal/database/migrations.go
package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/iyunix/go-chat/internal/domain"
)

// Logger defines the logging interface used during schema setup
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

func GetMigrator(db *gorm.DB, logger Logger) *gormigrate.Gormigrate {
	migrator := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "0",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&domain.Message{}, &domain.Chat{}, &domain.User{})
			},
		},
	})

	migrator.InitSchema(func(tx *gorm.DB) error {
		logger.Info("clean database detected, running full schema initialization",
			"dialect", tx.Dialector.Name(),
		)
		return tx.AutoMigrate(&domain.User{}, &domain.Chat{}, &domain.Message{})
	})

	return migrator
}

// Migrate brings the schema up to the latest version.
func Migrate(db *gorm.DB, logger Logger) error {
	return GetMigrator(db, logger).Migrate()
}
