// Package store provides the gorm-backed persistence used by every pipeline
// stage. A Store is opened once at process start, passed into each stage and
// closed at shutdown.
package store

import (
	"context"
	"fmt"

	"fjacquet/agri-potential/internal/config"
	"fjacquet/agri-potential/internal/logging"
	"fjacquet/agri-potential/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store is the database session handle.
type Store struct {
	db     *gorm.DB
	logger logging.Logger
}

// Dialector returns the gorm dialector for the configured driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "postgres":
		return postgres.Open(cfg.DSN), nil
	case "sqlite":
		return sqlite.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// Open connects to the configured database and migrates the pipeline tables.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger logging.Logger) (*Store, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Silent
	if cfg.LogQueries {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	logger.Debug("Database opened", logging.F(logging.FieldDriver, cfg.Driver))
	return s, nil
}

// Migrate creates or updates the pipeline tables.
func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.PaymentRecord{},
		&models.Customer{},
		&models.CustomerMatch{},
		&models.PotentialSnapshot{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	return sqlDB.Close()
}
