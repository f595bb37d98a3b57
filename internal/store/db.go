package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"coursegen/internal/config"
	"coursegen/internal/models"
	"coursegen/internal/util"
)

// Open connects to postgres when DATABASE_URL is set, otherwise to a local sqlite file.
// No connection is made here, so an unreachable database surfaces through Ping.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DatabaseURL != "" {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	logLevel := gormLogger.Warn
	if cfg.IsProduction() {
		logLevel = gormLogger.Error
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger:               gormLogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the tables this service owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.ChapterContentSlide{},
	)
}

// MigrateUntilReady runs AutoMigrate, retrying every interval until it succeeds
// or ctx ends.
func MigrateUntilReady(ctx context.Context, db *gorm.DB, interval time.Duration) error {
	logger := util.NewLogger("Migrate")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := AutoMigrate(db.WithContext(ctx))
		if err == nil {
			logger.Success("Database schema is up to date")
			return nil
		}
		logger.Warn("Database migration failed, will retry", err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Ping runs a trivial query and reports how long it took.
func Ping(ctx context.Context, db *gorm.DB) (time.Duration, error) {
	if db == nil {
		return 0, fmt.Errorf("database not configured")
	}
	start := time.Now()
	if err := db.WithContext(ctx).Exec("SELECT 1").Error; err != nil {
		return 0, err
	}
	return time.Since(start), nil
}
