package pkg

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/GokalpAyar/amplify-lms-client/internal/config"
)

// InitDraftDatabase opens the local SQLite database backing the draft
// store.
func InitDraftDatabase(cfg *config.Config) (*gorm.DB, error) {
	var logLevel logger.LogLevel
	if cfg.Environment == "production" {
		logLevel = logger.Error
	} else {
		logLevel = logger.Warn
	}

	db, err := gorm.Open(sqlite.Open(cfg.DraftDBPath), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open draft database: %w", err)
	}

	return db, nil
}
