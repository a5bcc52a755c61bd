package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Logging
		Tasks
		OrphanSweep
		Auth
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path            string
		MaxPayloadBytes int // 0 = unlimited
	}
	Logging struct {
		Level   string
		NoColor bool
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	OrphanSweep struct {
		Enabled  bool
		Schedule string // Cron format: "0 3 * * *" = daily at 03:00
	}
	Auth struct {
		PasscodeHash    string // bcrypt hash; empty disables the lock
		SessionSecret   string // Auto-generated if empty
		SessionLifetime time.Duration
		SecureCookies   bool
	}
)

// LockEnabled reports whether a passcode has been configured.
func (a Auth) LockEnabled() bool {
	return a.PasscodeHash != ""
}

func NewConfig() *Config {
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("max_payload_bytes", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_no_color", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("orphan_sweep_enabled", true)
	v.SetDefault("orphan_sweep_schedule", DefaultOrphanSweepSchedule)

	// Passcode lock defaults
	v.SetDefault("auth_passcode_hash", "")
	v.SetDefault("auth_session_secret", "")
	v.SetDefault("auth_session_lifetime", "24h")
	v.SetDefault("auth_secure_cookies", false) // served on localhost without TLS

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:            v.GetString("DATABASE_PATH"),
			MaxPayloadBytes: v.GetInt("MAX_PAYLOAD_BYTES"),
		},
		Logging: Logging{
			Level:   v.GetString("LOG_LEVEL"),
			NoColor: v.GetBool("LOG_NO_COLOR"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		OrphanSweep: OrphanSweep{
			Enabled:  v.GetBool("ORPHAN_SWEEP_ENABLED"),
			Schedule: v.GetString("ORPHAN_SWEEP_SCHEDULE"),
		},
		Auth: Auth{
			PasscodeHash:    v.GetString("AUTH_PASSCODE_HASH"),
			SessionSecret:   v.GetString("AUTH_SESSION_SECRET"),
			SessionLifetime: v.GetDuration("AUTH_SESSION_LIFETIME"),
			SecureCookies:   v.GetBool("AUTH_SECURE_COOKIES"),
		},
	}
}
