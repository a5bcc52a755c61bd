package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, int32(8188), cfg.HTTP.Port)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, 2, cfg.ShutdownTimeoutInSeconds)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.Equal(t, 0, cfg.MaxPayloadBytes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Tasks.Enabled)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, 15*time.Minute, cfg.Tasks.ReleaseAfter)
	assert.True(t, cfg.OrphanSweep.Enabled)
	assert.Equal(t, "0 3 * * *", cfg.OrphanSweep.Schedule)
	assert.Equal(t, 24*time.Hour, cfg.Auth.SessionLifetime)
	assert.False(t, cfg.Auth.LockEnabled())
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_PATH", "/tmp/mine.db")
	t.Setenv("MAX_PAYLOAD_BYTES", "1048576")
	t.Setenv("ORPHAN_SWEEP_ENABLED", "false")
	t.Setenv("AUTH_PASSCODE_HASH", "$2a$10$abc")
	t.Setenv("AUTH_SESSION_LIFETIME", "2h")

	cfg := NewConfig()

	assert.Equal(t, int32(9000), cfg.HTTP.Port)
	assert.Equal(t, "/tmp/mine.db", cfg.Database.Path)
	assert.Equal(t, 1048576, cfg.MaxPayloadBytes)
	assert.False(t, cfg.OrphanSweep.Enabled)
	assert.True(t, cfg.Auth.LockEnabled())
	assert.Equal(t, 2*time.Hour, cfg.Auth.SessionLifetime)
}
