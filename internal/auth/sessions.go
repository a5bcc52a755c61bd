package auth

import (
	"context"
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/diary/internal/config"
)

const (
	SessionKeyUnlocked   = "unlocked"
	SessionKeyUnlockedAt = "unlocked_at"
	SessionKeyWarnings   = "warnings"
)

func init() {
	gob.Register(time.Time{})
	gob.Register([]string{})
}

// SessionManager wraps scs.SessionManager with diary-specific helpers.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager stores sessions in the "sessions" table of sqlDB,
// creating it if needed.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	lifetime := cfg.SessionLifetime
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = lifetime
	sm.IdleTimeout = lifetime / 2

	sm.Cookie.Name = "diary_session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// Unlock marks the session as unlocked under a fresh token.
func (sm *SessionManager) Unlock(ctx context.Context, at time.Time) error {
	if err := sm.RenewToken(ctx); err != nil {
		return err
	}
	sm.Put(ctx, SessionKeyUnlocked, true)
	sm.Put(ctx, SessionKeyUnlockedAt, at)
	return nil
}

func (sm *SessionManager) Lock(ctx context.Context) error {
	return sm.Destroy(ctx)
}

func (sm *SessionManager) IsUnlocked(ctx context.Context) bool {
	return sm.GetBool(ctx, SessionKeyUnlocked)
}

func (sm *SessionManager) UnlockedAt(ctx context.Context) time.Time {
	return sm.GetTime(ctx, SessionKeyUnlockedAt)
}

// AddWarning queues a message shown once on the next read.
func (sm *SessionManager) AddWarning(ctx context.Context, msg string) {
	warnings, _ := sm.Get(ctx, SessionKeyWarnings).([]string)
	sm.Put(ctx, SessionKeyWarnings, append(warnings, msg))
}

// PopWarnings returns and clears queued warnings.
func (sm *SessionManager) PopWarnings(ctx context.Context) []string {
	warnings, _ := sm.Pop(ctx, SessionKeyWarnings).([]string)
	return warnings
}
