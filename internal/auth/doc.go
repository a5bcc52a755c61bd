// Package auth guards the diary behind an optional passcode.
//
// When AUTH_PASSCODE_HASH holds a bcrypt hash, every route except /health
// and /unlock requires an unlocked session. Sessions live in the diary's
// SQLite file (scs + sqlite3store) and also carry one-shot flash warnings
// such as "photos were dropped".
//
// # Configuration
//
//	AUTH_PASSCODE_HASH=$2a$10$...   # empty disables the lock
//	AUTH_SESSION_SECRET=<hex>       # CSRF key, auto-generated if empty
//	AUTH_SESSION_LIFETIME=24h
//	AUTH_SECURE_COOKIES=false
//
// # Usage
//
//	sm, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	lock := auth.NewLock(sm, cfg.Auth.PasscodeHash, logger)
//	router.Use(sm.SessionLoadSave(), lock.Middleware())
//	router.POST("/unlock", lock.UnlockHandler())
package auth
