package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	dc := DatabaseConfig{
		Host:     "db.example.com",
		Port:     6432,
		User:     "app",
		Password: "secret",
		DBName:   "bandstore",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.example.com port=6432 user=app password=secret dbname=bandstore sslmode=require",
		dc.ConnectionString(),
	)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BANDSTORE_DIR", "/tmp/teststore")
	t.Setenv("BANDSTORE_DB_HOST", "override-host")
	t.Setenv("BANDSTORE_DB_PORT", "5433")

	cfg := Load()
	assert.Equal(t, "/tmp/teststore", cfg.StorageDir)
	assert.Equal(t, "override-host", cfg.Remote.Host)
	assert.Equal(t, 5433, cfg.Remote.Port)
	assert.Equal(t, "postgres", cfg.Remote.User, "untouched values keep defaults")
}

func TestLoad_BadPortFallsBack(t *testing.T) {
	t.Setenv("BANDSTORE_DB_PORT", "not-a-number")

	cfg := Load()
	assert.Equal(t, DefaultConfig().Remote.Port, cfg.Remote.Port)
}
