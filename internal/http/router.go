package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/diary/internal/auth"
	"github.com/mrlokans/diary/internal/media"
)

// NewRouter wires every controller onto a fresh gin engine.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "http")
	playback := cfg.Playback
	if playback == nil {
		playback = media.NewPlaybackSlot()
	}

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))
	router.Use(auth.SecurityHeadersMiddleware())
	if cfg.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.MaxUploadBytes
	}

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}
	if cfg.Lock != nil {
		router.Use(cfg.Lock.Middleware())
		router.POST("/unlock", cfg.Lock.Limiter().Middleware(), cfg.Lock.UnlockHandler())
		router.POST("/lock", cfg.Lock.LockHandler())
	}

	health := NewHealthController(cfg.Store, cfg.Version)
	entries := NewEntriesController(cfg.Manager, playback, cfg.SessionManager, logger)
	pending := NewPendingController(cfg.Manager, cfg.MaxUploadBytes, logger)
	settings := NewSettingsController(cfg.Settings, logger)
	store := NewStoreController(cfg.Manager, playback, logger)

	router.GET("/health", health.Status)

	api := router.Group("/api")
	{
		api.GET("/entries", entries.List)
		api.POST("/entries", entries.Submit)
		api.GET("/entries/:id/photos/:index", entries.Photo)
		api.GET("/entries/:id/audio", entries.Audio)

		api.GET("/pending", pending.Status)
		api.POST("/pending/photos", pending.AttachPhotos)
		api.DELETE("/pending/photos", pending.ClearPhotos)
		api.POST("/pending/recording", pending.UploadRecording)
		api.DELETE("/pending/recording", pending.DiscardRecording)

		api.POST("/recording/start", pending.StartRecording)
		api.POST("/recording/chunk", pending.AppendRecording)
		api.POST("/recording/stop", pending.StopRecording)

		api.GET("/settings", settings.Get)
		api.PUT("/settings", settings.Update)
		api.POST("/settings/title", settings.ToggleTitle)
		api.PUT("/settings/background", settings.SetBackground)
		api.DELETE("/settings/background", settings.RemoveBackground)

		api.DELETE("/store", store.Reset)
	}

	return router
}
