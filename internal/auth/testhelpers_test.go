package auth

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/diary/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupSessionManager(t *testing.T) *SessionManager {
	t.Helper()

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewSessionManager(sqlDB, config.Auth{SessionLifetime: time.Hour})
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}
