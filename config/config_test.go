package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("CURRENT_SEASON", "2024")
	t.Setenv("CURRENT_WEEK", "5")
	t.Setenv("ADMIN_PICKERS", "griff, ,SAM")
	t.Setenv("DB_TIMEOUT", "3s")
	t.Setenv("IMPORT_ON_START", "true")
	t.Setenv("IMPORT_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Database.Driver)
	assert.Equal(t, 2024, cfg.App.CurrentSeason)
	assert.Equal(t, 5, cfg.App.CurrentWeek)
	assert.Equal(t, []string{"griff", "SAM"}, cfg.App.AdminPickers)
	assert.Equal(t, 3*time.Second, cfg.Database.Timeout)
	assert.True(t, cfg.App.ImportOnStart)
	assert.Equal(t, 5*time.Minute, cfg.App.ImportEvery)
	assert.True(t, cfg.IsAdminPicker("GRIFF"))
	assert.False(t, cfg.IsAdminPicker("ALEX"))
	assert.Equal(t, "driver=memory season=2024 week=5", cfg.String())

	db := cfg.ToDatabaseConfig()
	assert.Equal(t, DriverMemory, db.Driver)
	assert.Equal(t, 3*time.Second, db.Timeout)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Driver: DriverMemory},
			Auth:     AuthConfig{JWTSecret: "s3cret"},
			App:      AppConfig{CurrentSeason: 2025, CurrentWeek: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "sqlite" }, "unknown DB_DRIVER"},
		{"postgres without url", func(c *Config) { c.Database.Driver = DriverPostgres }, "DATABASE_URL"},
		{"mongo without name", func(c *Config) {
			c.Database = DatabaseConfig{Driver: DriverMongo, Host: "localhost", Port: "27017"}
		}, "database name"},
		{"default secret in production", func(c *Config) { c.Auth.JWTSecret = defaultJWTSecret }, "must be changed"},
		{"default secret in development", func(c *Config) {
			c.Auth.JWTSecret = defaultJWTSecret
			c.App.IsDevelopment = true
		}, ""},
		{"season too early", func(c *Config) { c.App.CurrentSeason = 2019 }, "current season"},
		{"week too late", func(c *Config) { c.App.CurrentWeek = 19 }, "current week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
