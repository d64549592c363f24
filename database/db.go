package database

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/VLP-TECH/camara-vlc/config"
	"github.com/VLP-TECH/camara-vlc/logging"
	"github.com/VLP-TECH/camara-vlc/models"
)

var DB *gorm.DB

// Open connects to the configured store. Unique violations are translated to
// gorm.ErrDuplicatedKey so the loader can tell them apart.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case config.DriverSQLite, "":
		path := cfg.Path
		if cfg.DSN != "" {
			path = cfg.DSN
		}
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil && cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxOpenConns / 2)
	}
	return db, nil
}

// InitDB opens the store, migrates it when asked and installs it as the
// process-wide handle used by the HTTP handlers.
func InitDB(cfg config.DatabaseConfig) error {
	db, err := Open(cfg)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := Migrate(db); err != nil {
			return err
		}
	}
	DB = db
	logging.Logger.Info("database connected", zap.String("driver", db.Dialector.Name()))
	return nil
}

// Migrate creates or updates every table, association tables included.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the process-wide handle.
func SetDB(db *gorm.DB) {
	DB = db
}
