package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// DatabaseConfig holds the connection parameters for the remote Postgres source.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Config holds the complete application configuration.
type Config struct {
	// StorageDir is the directory the local store persists its collections in.
	StorageDir string
	Remote     DatabaseConfig
}

// ConnectionString returns a PostgreSQL connection string.
func (dc *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dc.Host, dc.Port, dc.User, dc.Password, dc.DBName, dc.SSLMode,
	)
}

// DefaultConfig returns the configuration used when no environment overrides
// are present: local storage under the working directory and a local Postgres.
func DefaultConfig() *Config {
	return &Config{
		StorageDir: ".bandstore",
		Remote: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "bandstore",
			SSLMode:  "disable",
		},
	}
}

// Load reads a .env file if present (ok if missing in prod) and applies
// environment overrides on top of the defaults.
func Load() *Config {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.StorageDir = getenv("BANDSTORE_DIR", cfg.StorageDir)
	cfg.Remote.Host = getenv("BANDSTORE_DB_HOST", cfg.Remote.Host)
	cfg.Remote.Port = getenvInt("BANDSTORE_DB_PORT", cfg.Remote.Port)
	cfg.Remote.User = getenv("BANDSTORE_DB_USER", cfg.Remote.User)
	cfg.Remote.Password = getenv("BANDSTORE_DB_PASSWORD", cfg.Remote.Password)
	cfg.Remote.DBName = getenv("BANDSTORE_DB_NAME", cfg.Remote.DBName)
	cfg.Remote.SSLMode = getenv("BANDSTORE_DB_SSLMODE", cfg.Remote.SSLMode)
	return cfg
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
