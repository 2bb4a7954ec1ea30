package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration options for the timesheet application
type Config struct {
	Database    DatabaseConfig
	Time        TimeConfig
	Actor       ActorConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"TS_DB_DIR"`
	Filename       string        `env:"TS_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"TS_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `env:"TS_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `env:"TS_DB_DIR_PERMISSIONS"`
}

// TimeConfig holds the deployment time zone. Dates, the submission
// window and month boundaries are all resolved in this zone.
type TimeConfig struct {
	Zone string `env:"TS_TIME_ZONE"`
}

// ActorConfig identifies the principal the CLI acts as. There is no
// session layer; the caller states who they are and whether they hold
// the admin capability, the way a reverse proxy would inject identity.
type ActorConfig struct {
	UserID  int64 `env:"TS_ACTOR_ID"`
	IsAdmin bool  `env:"TS_ACTOR_ADMIN"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TS_APP_TIMEOUT"`
	Verbose bool          `env:"TS_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".timesheet")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "timesheet.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Time: TimeConfig{
			Zone: "Asia/Tehran",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// LoadFromEnvironment overlays environment variables onto the config
func (c *Config) LoadFromEnvironment() error {
	return env.Parse(c)
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Time.Zone == "" {
		return &ConfigError{Field: "time.zone", Message: "time zone cannot be empty"}
	}
	if c.Actor.UserID < 0 {
		return &ConfigError{Field: "actor.user_id", Message: "actor id cannot be negative"}
	}
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
