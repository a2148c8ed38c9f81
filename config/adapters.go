package config

import (
	"os"

	"no-homers/database"
	"no-homers/logging"
)

// ToDatabaseConfig converts Config to database.Config
func (c *Config) ToDatabaseConfig() database.Config {
	return database.Config{
		Driver:      c.Database.Driver,
		PostgresURL: c.Database.PostgresURL,
		AutoMigrate: c.Database.AutoMigrate,
		Host:        c.Database.Host,
		Port:        c.Database.Port,
		Username:    c.Database.Username,
		Password:    c.Database.Password,
		Database:    c.Database.Database,
		Timeout:     c.Database.Timeout,
	}
}

// ToLoggingConfig converts Config to logging.Config
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Output:      os.Stdout,
		Prefix:      c.Logging.Prefix,
		EnableColor: c.Logging.EnableColor,
		Format:      c.Logging.Format,
	}
}
