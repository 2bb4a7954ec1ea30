package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "timesheet.db", cfg.Database.Filename)
	assert.Equal(t, 10*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "Asia/Tehran", cfg.Time.Zone)
	assert.Equal(t, 60*time.Second, cfg.Application.Timeout)
	assert.False(t, cfg.Actor.IsAdmin)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TS_DB_DIR", "/tmp/timesheet-test")
	t.Setenv("TS_DB_FILENAME", "custom.db")
	t.Setenv("TS_TIME_ZONE", "UTC")
	t.Setenv("TS_ACTOR_ID", "7")
	t.Setenv("TS_ACTOR_ADMIN", "true")
	t.Setenv("TS_APP_TIMEOUT", "30s")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/timesheet-test", cfg.Database.Dir)
	assert.Equal(t, "custom.db", cfg.Database.Filename)
	assert.Equal(t, filepath.Join("/tmp/timesheet-test", "custom.db"), cfg.GetDatabasePath())
	assert.Equal(t, "UTC", cfg.Time.Zone)
	assert.Equal(t, int64(7), cfg.Actor.UserID)
	assert.True(t, cfg.Actor.IsAdmin)
	assert.Equal(t, 30*time.Second, cfg.Application.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"empty db dir", func(c *Config) { c.Database.Dir = "" }, "database.dir"},
		{"empty filename", func(c *Config) { c.Database.Filename = "" }, "database.filename"},
		{"zero query timeout", func(c *Config) { c.Database.QueryTimeout = 0 }, "database.query_timeout"},
		{"empty time zone", func(c *Config) { c.Time.Zone = "" }, "time.zone"},
		{"negative actor", func(c *Config) { c.Actor.UserID = -1 }, "actor.user_id"},
		{"zero app timeout", func(c *Config) { c.Application.Timeout = 0 }, "application.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			configErr, ok := err.(*ConfigError)
			require.True(t, ok)
			assert.Equal(t, tt.field, configErr.Field)
		})
	}
}

func TestLoadWithOverrides(t *testing.T) {
	actorID := int64(42)
	admin := true
	cfg, err := NewLoader().LoadWithOverrides(&ConfigOverrides{
		ActorID:    &actorID,
		ActorAdmin: &admin,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.Actor.UserID)
	assert.True(t, cfg.Actor.IsAdmin)
}
