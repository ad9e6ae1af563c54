// File: cmd/server/providers.go
package main

import (
	"log"
	"time"

	"strategy_backend/internal/auth"
	"strategy_backend/internal/config"
	"strategy_backend/internal/platform/database"
	"strategy_backend/internal/shared"
	"strategy_backend/internal/strategy"
	"strategy_backend/internal/user"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// provideGORM opens the database connection and migrates the schema.
func provideGORM(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewGORM(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&user.User{}, &strategy.Strategy{}); err != nil {
		return nil, err
	}
	return db, nil
}

// provideBlocklist builds the in-memory token blocklist. Entries live at most
// as long as an access token, so the cleanup interval tracks the token expiry.
func provideBlocklist(cfg *config.Config) shared.TokenBlocklistService {
	return auth.NewInMemoryBlocklistService(auth.InMemoryBlocklistConfig{
		DefaultExpiration: cfg.JWTAccessTokenExpiry,
		CleanupInterval:   10 * time.Minute,
	})
}

func provideCleanup(logger *zap.Logger, db *gorm.DB) func() {
	return func() {
		logger.Info("Executing cleanup tasks...")
		database.CloseGORMDB(db)
		if err := logger.Sync(); err != nil {
			log.Printf("ERROR: Failed to sync logger during cleanup: %v", err)
		}
		log.Println("Cleanup finished.")
	}
}
