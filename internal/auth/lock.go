package auth

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Lock keeps the diary closed until the passcode is entered. A Lock with an
// empty hash lets every request through.
type Lock struct {
	sessions     *SessionManager
	passcodeHash string
	limiter      *AttemptLimiter
	logger       *slog.Logger
	now          func() time.Time
	publicPaths  map[string]bool
}

func NewLock(sessions *SessionManager, passcodeHash string, logger *slog.Logger) *Lock {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lock{
		sessions:     sessions,
		passcodeHash: passcodeHash,
		limiter:      NewAttemptLimiter(DefaultAttemptLimitConfig(), nil),
		logger:       logger.With("component", "lock"),
		now:          time.Now,
		publicPaths: map[string]bool{
			"/health": true,
			"/unlock": true,
			"/lock":   true,
		},
	}
}

func (l *Lock) Enabled() bool {
	return l.passcodeHash != ""
}

// Middleware answers 401 for any non-public path while locked. It must run
// after SessionLoadSave.
func (l *Lock) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Enabled() || l.publicPaths[strings.TrimSuffix(c.Request.URL.Path, "/")] {
			c.Next()
			return
		}

		if l.sessions.IsUnlocked(c.Request.Context()) {
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "diary is locked",
			"code":  "locked",
		})
	}
}

type unlockRequest struct {
	Passcode string `json:"passcode" form:"passcode" binding:"required"`
}

// UnlockHandler checks the passcode and unlocks the session. Failed
// attempts are throttled per client IP.
func (l *Lock) UnlockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Enabled() {
			c.JSON(http.StatusOK, gin.H{"unlocked": true})
			return
		}

		var req unlockRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "passcode is required", "code": "invalid_request"})
			return
		}

		ip := c.ClientIP()
		if err := CheckPasscode(req.Passcode, l.passcodeHash); err != nil {
			locked, retryAfter := l.limiter.RecordFailure(ip)
			l.logger.Warn("unlock failed", "ip", ip, "locked_out", locked)
			if locked {
				c.JSON(http.StatusTooManyRequests, gin.H{
					"error":       "too many unlock attempts",
					"code":        "rate_limited",
					"retry_after": retryAfter.String(),
				})
				return
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": "wrong passcode", "code": "invalid_passcode"})
			return
		}

		if err := l.sessions.Unlock(c.Request.Context(), l.now()); err != nil {
			l.logger.Error("failed to unlock session", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not unlock", "code": "session"})
			return
		}
		l.limiter.RecordSuccess(ip)
		l.logger.Info("diary unlocked", "ip", ip)
		c.JSON(http.StatusOK, gin.H{"unlocked": true})
	}
}

func (l *Lock) LockHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := l.sessions.Lock(c.Request.Context()); err != nil {
			l.logger.Error("failed to lock session", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not lock", "code": "session"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// Limiter exposes the attempt limiter so it can guard the unlock route.
func (l *Lock) Limiter() *AttemptLimiter {
	return l.limiter
}
