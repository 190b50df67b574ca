package db

import (
	"fmt"
	"os"

	"github.com/diewo77/invoicer/internal/config"
	"github.com/diewo77/invoicer/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the configured database. For SQLite the parent directory of
// the database file is created first.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}
	gcfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		if dir := cfg.DataDir(); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}
	return conn, nil
}

// Migrate creates the invoices table if it does not exist.
// Call this at application startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.InvoiceRecord{}); err != nil {
		return fmt.Errorf("automigrate invoices: %w", err)
	}
	return nil
}

// ConnectAndMigrate opens the database and ensures the schema.
func ConnectAndMigrate(cfg config.DatabaseConfig) (*gorm.DB, error) {
	conn, err := Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}
