package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"no-homers/logging"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Supported storage backends
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Authentication configuration
	Auth AuthConfig `json:"auth"`

	// Application configuration
	App AppConfig `json:"app"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port         string        `json:"port"`
	Host         string        `json:"host"`
	BehindProxy  bool          `json:"behind_proxy"`
	Environment  string        `json:"environment"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver      string        `json:"driver"`
	PostgresURL string        `json:"-"`
	AutoMigrate bool          `json:"auto_migrate"`
	Host        string        `json:"host"`
	Port        string        `json:"port"`
	Username    string        `json:"username"`
	Password    string        `json:"-"`
	Database    string        `json:"database"`
	Timeout     time.Duration `json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
	Format      string `json:"format"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret    string        `json:"-"`
	TokenExpiry  time.Duration `json:"token_expiry"`
	SeedPassword string        `json:"-"`
}

// AppConfig holds pool configuration
type AppConfig struct {
	CurrentSeason int           `json:"current_season"`
	CurrentWeek   int           `json:"current_week"`
	IsDevelopment bool          `json:"is_development"`
	AdminPickers  []string      `json:"admin_pickers"`
	Pickers       []string      `json:"pickers"`
	ESPNBaseURL   string        `json:"espn_base_url"`
	ImportOnStart bool          `json:"import_on_start"`
	ImportEvery   time.Duration `json:"import_every"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Warnf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	serverPort := getEnv("SERVER_PORT", "8080")
	if isDevelopment {
		if develPort := getEnv("DEVEL_SERVER_PORT", ""); develPort != "" {
			serverPort = develPort
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:         serverPort,
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			BehindProxy:  getBoolEnv("BEHIND_PROXY", false),
			Environment:  environment,
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:      strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
			PostgresURL: getEnv("DATABASE_URL", ""),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", true),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "27017"),
			Username:    getEnv("DB_USERNAME", ""),
			Password:    getEnv("DB_PASSWORD", ""),
			Database:    getEnv("DB_NAME", "no_homers"),
			Timeout:     getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "debug"),
			Prefix:      getEnv("LOG_PREFIX", "no-homers"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
			Format:      getEnv("LOG_FORMAT", "console"),
		},
		Auth: AuthConfig{
			JWTSecret:    getEnv("JWT_SECRET", defaultJWTSecret),
			TokenExpiry:  getDurationEnv("JWT_EXPIRY", 30*24*time.Hour),
			SeedPassword: getEnv("SEED_PASSWORD", ""),
		},
		App: AppConfig{
			CurrentSeason: getIntEnv("CURRENT_SEASON", 2025),
			CurrentWeek:   getIntEnv("CURRENT_WEEK", 1),
			IsDevelopment: isDevelopment,
			AdminPickers:  getListEnv("ADMIN_PICKERS"),
			Pickers:       getListEnv("PICKERS"),
			ESPNBaseURL:   getEnv("ESPN_BASE_URL", "https://site.api.espn.com/apis/site/v2/sports/football/nfl/scoreboard"),
			ImportOnStart: getBoolEnv("IMPORT_ON_START", false),
			ImportEvery:   getDurationEnv("IMPORT_INTERVAL", 0),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server port is required")
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.PostgresURL == "" {
			return errors.New("DATABASE_URL is required when DB_DRIVER=postgres")
		}
	case DriverMongo:
		if c.Database.Host == "" {
			return errors.New("database host is required")
		}
		if c.Database.Port == "" {
			return errors.New("database port is required")
		}
		if c.Database.Database == "" {
			return errors.New("database name is required")
		}
	case DriverMemory:
	default:
		return errors.Newf("unknown DB_DRIVER %q (want postgres, mongo or memory)", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT secret is required")
	}
	if c.Auth.JWTSecret == defaultJWTSecret && !c.App.IsDevelopment {
		return errors.New("JWT secret must be changed in production")
	}

	if c.App.CurrentSeason < 2020 || c.App.CurrentSeason > 2035 {
		return errors.Newf("current season must be between 2020 and 2035, got: %d", c.App.CurrentSeason)
	}
	if c.App.CurrentWeek < 1 || c.App.CurrentWeek > 18 {
		return errors.Newf("current week must be between 1 and 18, got: %d", c.App.CurrentWeek)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// IsAdminPicker reports whether picker may edit pool spreads
func (c *Config) IsAdminPicker(picker string) bool {
	for _, admin := range c.App.AdminPickers {
		if strings.EqualFold(admin, picker) {
			return true
		}
	}
	return false
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (Behind Proxy: %t, Environment: %s)",
		c.GetServerAddress(), c.Server.BehindProxy, c.Server.Environment)
	switch c.Database.Driver {
	case DriverPostgres:
		logging.Infof("Database: postgres (URL set: %t, AutoMigrate: %t)",
			c.Database.PostgresURL != "", c.Database.AutoMigrate)
	case DriverMongo:
		logging.Infof("Database: mongo %s:%s/%s (Username: %s, Auth: %t)",
			c.Database.Host, c.Database.Port, c.Database.Database,
			c.Database.Username, c.Database.Password != "")
	default:
		logging.Infof("Database: %s", c.Database.Driver)
	}
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t, Format=%s",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor, c.Logging.Format)
	logging.Infof("App: Season=%d, Week=%d, Development=%t, Admins=%v, Pickers=%d",
		c.App.CurrentSeason, c.App.CurrentWeek, c.App.IsDevelopment, c.App.AdminPickers, len(c.App.Pickers))
	logging.Info("================================")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getListEnv splits a comma separated variable, dropping blanks
func getListEnv(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// String renders a one-line summary for CLI tools
func (c *Config) String() string {
	return fmt.Sprintf("driver=%s season=%d week=%d", c.Database.Driver, c.App.CurrentSeason, c.App.CurrentWeek)
}
