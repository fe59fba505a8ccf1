package database

import (
	"fmt"

	"github.com/provat/codetriage/internal/domain/models"
	"github.com/provat/codetriage/pkg/logger"
)

// RunMigrations creates or updates the database schema.
// gen_random_uuid() requires PostgreSQL 13+ or the pgcrypto extension.
func (d *Database) RunMigrations() error {
	d.log.Info("Running database migrations...")

	if err := d.db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		return fmt.Errorf("failed to ensure pgcrypto extension: %w", err)
	}

	if err := d.db.AutoMigrate(
		&models.User{},
		&models.Repository{},
		&models.Issue{},
		&models.Subscription{},
		&models.SentLog{},
	); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}

	d.log.Info("Database migrations completed",
		logger.Int("models", 5),
	)
	return nil
}
