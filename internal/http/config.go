package http

import (
	"log/slog"

	"github.com/mrlokans/diary/internal/auth"
	"github.com/mrlokans/diary/internal/diary"
	"github.com/mrlokans/diary/internal/media"
	"github.com/mrlokans/diary/internal/settingsstore"
)

// RouterConfig holds the dependencies of NewRouter.
type RouterConfig struct {
	Manager  *diary.Manager
	Settings *settingsstore.SettingsStore
	Store    StoreProbe
	Playback *media.PlaybackSlot

	// Optional: sessions carry flash warnings and the unlock state.
	SessionManager *auth.SessionManager
	Lock           *auth.Lock

	// CSRF protection is enabled when a secret is set.
	CSRFSecret    []byte
	SecureCookies bool

	// MaxUploadBytes caps multipart bodies. 0 means gin's default.
	MaxUploadBytes int64

	Version string
	Logger  *slog.Logger
}
