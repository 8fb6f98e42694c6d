// Package database opens the Graph Store's single embedded sqlite file and
// runs its versioned migration sequence, generalizing the base codebase's
// single AutoMigrate-on-open pattern into the incremental, idempotent runner
// spec.md §4.3/§6 requires for a long-lived local data file.
package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the Graph Store's connection configuration.
type Config struct {
	// Path is the sqlite file path, e.g. "./data/nutricore.db". The
	// containing directory is created if missing.
	Path string
	// LogLevel controls GORM's own query logger verbosity.
	LogLevel logger.LogLevel
}

// Store wraps the single *gorm.DB connection to the embedded database.
type Store struct {
	db *gorm.DB
}

// Open creates the data directory if needed, opens the sqlite file in
// write-ahead-logging mode, and returns a Store. Cascades are not wrapped in
// a database transaction, so a read concurrent with a cascade can observe
// some caches already refreshed and others not yet. Callers must still call
// Migrate before using it.
func Open(cfg Config) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(cfg.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	if err := db.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *gorm.DB for repository construction.
func (s *Store) DB() *gorm.DB { return s.db }

// Ping verifies the underlying connection is alive, backing the process
// health check of SPEC_FULL §12.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// schemaMigration is the schema_migrations tracking row: one per applied
// version, per spec.md §6 ("the schema is versioned with a monotonically
// increasing integer; migrations run at startup, idempotent").
type schemaMigration struct {
	Version   int       `gorm:"primaryKey"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// migration is one step of the versioned sequence.
type migration struct {
	Version     int
	Description string
	Apply       func(*gorm.DB) error
}

// Migrate runs every not-yet-applied migration, in version order, inside
// its own transaction, and is safe to call on every process startup.
// Schema versions follow spec.md §6: v1 (initial tables), v5 (adds
// base_unit_type/grams_per_serving/ml_per_serving/food_item_conversions),
// v6+ (additive only — indexes and constraints tightened without touching
// existing columns).
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var applied schemaMigration
		err := s.db.WithContext(ctx).First(&applied, "version = ?", m.Version).Error
		if err == nil {
			continue // already applied
		}
		if err != gorm.ErrRecordNotFound {
			return fmt.Errorf("check migration v%d: %w", m.Version, err)
		}

		txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := m.Apply(tx); err != nil {
				return fmt.Errorf("apply migration v%d (%s): %w", m.Version, m.Description, err)
			}
			return tx.Create(&schemaMigration{Version: m.Version, AppliedAt: time.Now()}).Error
		})
		if txErr != nil {
			return txErr
		}
	}
	return nil
}
