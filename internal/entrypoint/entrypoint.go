package entrypoint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/diary/internal/attachments"
	"github.com/mrlokans/diary/internal/auth"
	"github.com/mrlokans/diary/internal/config"
	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/database/audios"
	"github.com/mrlokans/diary/internal/database/entries"
	"github.com/mrlokans/diary/internal/database/photos"
	"github.com/mrlokans/diary/internal/database/settings"
	"github.com/mrlokans/diary/internal/diary"
	http_controllers "github.com/mrlokans/diary/internal/http"
	"github.com/mrlokans/diary/internal/logging"
	"github.com/mrlokans/diary/internal/media"
	"github.com/mrlokans/diary/internal/scheduler"
	"github.com/mrlokans/diary/internal/settingsstore"
	"github.com/mrlokans/diary/internal/tasks"
)

// StreamMimeType is the format browsers record voice messages in.
const StreamMimeType = "audio/webm;codecs=opus"

// App is the fully wired diary.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	DB       *database.Database
	Manager  *diary.Manager
	Settings *settingsstore.SettingsStore
	Tasks    *tasks.Client
	Sweep    *scheduler.OrphanSweepScheduler
	Router   *gin.Engine
}

// Build opens the store, loads the entries and assembles the router. Nothing
// is started; see Start.
func Build(ctx context.Context, cfg *config.Config, version string, logger *slog.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database.Path, database.Options{
		MaxPayloadBytes: cfg.Database.MaxPayloadBytes,
		LogQueries:      logging.ParseLevel(cfg.Logging.Level) == slog.LevelDebug,
		Logger:          logger,
	})
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, DB: db}

	photoRepo := photos.NewRepository(db)
	audioRepo := audios.NewRepository(db)
	app.Manager = diary.NewManager(diary.Config{
		Entries:   entries.NewRepository(db),
		Photos:    photoRepo,
		Audios:    audioRepo,
		Store:     db,
		Assembler: attachments.NewAssembler(photoRepo, audioRepo),
		Recorder:  media.NewRecorder(media.StreamCapturer{MimeType: StreamMimeType}, nil),
		Logger:    logger,
	})
	if err := app.Manager.Load(ctx); err != nil {
		app.closeStore()
		return nil, err
	}

	app.Settings = settingsstore.New(settings.NewRepository(db), settingsstore.BuiltinDefaults())

	if cfg.Tasks.Enabled {
		app.Tasks, err = tasks.NewClient(cfg.Database.Path, tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}, logger)
		if err != nil {
			app.closeStore()
			return nil, fmt.Errorf("failed to initialize task queue: %w", err)
		}
		app.Tasks.Register(tasks.NewCleanupOrphanAttachmentsQueue(app.Manager, logger))
	}

	if cfg.OrphanSweep.Enabled {
		var queue scheduler.Queue
		if app.Tasks != nil {
			queue = app.Tasks
		}
		app.Sweep = scheduler.NewOrphanSweepScheduler(cfg.OrphanSweep.Schedule, app.Manager, queue, logger)
	}

	routerCfg := http_controllers.RouterConfig{
		Manager:        app.Manager,
		Settings:       app.Settings,
		Store:          db,
		Playback:       media.NewPlaybackSlot(),
		MaxUploadBytes: int64(cfg.Database.MaxPayloadBytes),
		Version:        version,
		Logger:         logger,
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		app.Close(ctx)
		return nil, err
	}
	routerCfg.SessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	if cfg.Auth.LockEnabled() {
		logger.Info("passcode lock enabled")
		routerCfg.Lock = auth.NewLock(routerCfg.SessionManager, cfg.Auth.PasscodeHash, logger)
		routerCfg.SecureCookies = cfg.Auth.SecureCookies
		routerCfg.CSRFSecret, err = csrfSecret(cfg.Auth.SessionSecret, logger)
		if err != nil {
			app.Close(ctx)
			return nil, err
		}
	}

	app.Router = http_controllers.NewRouter(routerCfg)
	return app, nil
}

func csrfSecret(configured string, logger *slog.Logger) ([]byte, error) {
	if configured != "" {
		if secret, err := hex.DecodeString(configured); err == nil {
			return secret, nil
		}
		// Not hex, use as raw bytes
		return []byte(configured), nil
	}

	secret, err := auth.GenerateSessionSecret()
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
	}
	logger.Warn("generated session secret, set AUTH_SESSION_SECRET to persist it")
	return hex.DecodeString(secret)
}

// Start launches the task workers and the sweep schedule.
func (a *App) Start(ctx context.Context) error {
	if a.Tasks != nil {
		a.Tasks.Start(ctx)
	}
	if a.Sweep != nil {
		if err := a.Sweep.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Close stops background work and closes the store.
func (a *App) Close(ctx context.Context) {
	if a.Sweep != nil {
		a.Sweep.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
		if err := a.Tasks.Close(); err != nil {
			a.Logger.Warn("error closing task client", "error", err)
		}
	}
	a.closeStore()
}

func (a *App) closeStore() {
	if err := a.DB.Close(); err != nil {
		a.Logger.Warn("error closing database", "error", err)
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down within timeout.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server", "timeout", timeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Run serves the diary until SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	logger := logging.New(logging.Options{Level: cfg.Logging.Level, NoColor: cfg.Logging.NoColor})
	slog.SetDefault(logger)
	if logging.ParseLevel(cfg.Logging.Level) != slog.LevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Info("starting diary", "version", version, "database", cfg.Database.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := Build(ctx, cfg, version, logger)
	if err != nil {
		return err
	}

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		app.Close(closeCtx)
		logger.Info("server exiting")
	}()

	if err := app.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return Serve(ctx, srv, timeout, logger)
}
