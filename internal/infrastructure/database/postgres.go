package database

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/provat/codetriage/internal/config"
	"github.com/provat/codetriage/pkg/logger"
)

// Connection pool settings
const (
	maxIdleConns    = 10
	maxOpenConns    = 100
	connMaxLifetime = time.Hour
	connMaxIdleTime = 10 * time.Minute
)

// Database wraps the GORM database connection
type Database struct {
	db     *gorm.DB
	config *config.DatabaseConfig
	log    *logger.Logger
}

// NewDatabase creates a new database connection. The initial dial is retried
// with exponential backoff up to cfg.ConnectAttempts times so the service
// survives a database that is still coming up.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	log := logger.Get().WithFields(logger.Component("database"))

	log.Info("Initializing database connection...",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.DBName),
		logger.String("user", cfg.User),
		logger.String("sslmode", cfg.SSLMode),
	)

	gormCfg := &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: false,
		PrepareStmt:                              true,
		TranslateError:                           true,
	}

	dsn := cfg.DSN()

	backoff := cfg.ConnectBackoff
	if backoff <= 0 {
		backoff = time.Second
	}

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= cfg.ConnectAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), gormCfg)
		if err == nil {
			break
		}

		if attempt == cfg.ConnectAttempts {
			log.Error("Failed to connect to database",
				logger.Error(err),
				logger.String("host", cfg.Host),
				logger.Int("port", cfg.Port),
				logger.Int("attempts", cfg.ConnectAttempts),
			)
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", cfg.ConnectAttempts, err)
		}

		log.Warn("Database not reachable, retrying...",
			logger.Error(err),
			logger.Int("attempt", attempt),
			logger.Duration("backoff", backoff),
		)
		time.Sleep(backoff)
		backoff *= 2
	}

	log.Debug("Database connection established, configuring connection pool...")

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Failed to get underlying SQL DB",
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	database := &Database{
		db:     db,
		config: cfg,
		log:    log,
	}

	if err := database.Ping(context.Background()); err != nil {
		log.Error("Failed to ping database",
			logger.Error(err),
		)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("Database connection established successfully",
		logger.String("host", cfg.Host),
		logger.Int("port", cfg.Port),
		logger.String("database", cfg.DBName),
	)

	return database, nil
}

// DB returns the underlying GORM database instance
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Ping checks the database connection
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (d *Database) Close() error {
	d.log.Info("Closing database connection...")

	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying SQL DB: %w", err)
	}

	return sqlDB.Close()
}

// Stats returns database connection pool statistics
func (d *Database) Stats() map[string]any {
	sqlDB, err := d.db.DB()
	if err != nil {
		return nil
	}

	stats := sqlDB.Stats()
	return map[string]any{
		"max_open_connections": stats.MaxOpenConnections,
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"wait_count":           stats.WaitCount,
		"wait_duration":        stats.WaitDuration.String(),
	}
}
