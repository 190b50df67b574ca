// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/diewo77/invoicer/internal/logger"
	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Server   ServerConfig
	App      AppConfig
	Log      LogConfig
}

// DatabaseConfig selects the invoice database.
// SQLite uses Path; PostgreSQL uses the connection fields.
type DatabaseConfig struct {
	Driver   string `validate:"oneof=sqlite postgres"`
	Path     string `validate:"required_if=Driver sqlite"`
	Host     string `validate:"required_if=Driver postgres"`
	Port     int    `validate:"min=1,max=65535"`
	User     string
	Password string
	DBName   string `validate:"required_if=Driver postgres"`
	SSLMode  string
	Debug    bool
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	InvoiceDir  string `validate:"required"`
	CompressPDF bool
}

// ServerConfig holds HTTP server settings for `invoicer serve`.
type ServerConfig struct {
	Port         string `validate:"required,numeric"`
	ReadTimeout  int    `validate:"gte=0"` // seconds
	WriteTimeout int    `validate:"gte=0"` // seconds
	IdleTimeout  int    `validate:"gte=0"` // seconds
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Lang string `validate:"oneof=en fr"`
	Dev  bool
}

// LogConfig mirrors logger.LogConfig with validation.
type LogConfig struct {
	Level  string `validate:"oneof=trace debug info warn error"`
	Format string `validate:"oneof=console json"`
	Output string
}

// DSN returns the connection string for the configured driver.
func (d DatabaseConfig) DSN() string {
	if d.Driver == "postgres" {
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
		)
	}
	return d.Path
}

// DataDir is the directory holding the SQLite file, empty for PostgreSQL.
func (d DatabaseConfig) DataDir() string {
	if d.Driver != "sqlite" {
		return ""
	}
	return filepath.Dir(d.Path)
}

// Logger returns the logger configuration.
func (c *Config) Logger() logger.LogConfig {
	lc := logger.DefaultConfig()
	lc.Level = c.Log.Level
	lc.Format = c.Log.Format
	lc.Output = c.Log.Output
	return lc
}

// Load reads configuration from environment variables.
// It uses sensible defaults for a local single-user install.
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "sqlite"),
			Path:     getEnv("DB_PATH", filepath.Join("data", "invoices.db")),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "invoices"),
			Password: getEnv("DB_PASSWORD", "invoices"),
			DBName:   getEnv("DB_NAME", "invoices"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		Storage: StorageConfig{
			InvoiceDir:  getEnv("INVOICE_DIR", "invoices"),
			CompressPDF: getEnvBool("PDF_COMPRESS", true),
		},
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		App: AppConfig{
			Lang: getEnv("APP_LANG", "en"),
			Dev:  getEnvBool("DEV", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
			Output: getEnv("LOG_OUTPUT", "stderr"),
		},
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}
