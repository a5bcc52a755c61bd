package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SchemaVersion is the goose version the embedded migrations bring the store to.
const SchemaVersion = 3

//go:embed migrations/*.sql
var migrations embed.FS

var (
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrWriteFailed      = errors.New("write failed")
	ErrQuotaExceeded    = fmt.Errorf("%w: storage quota exceeded", ErrWriteFailed)
	ErrTableMissing     = errors.New("table does not exist")
	ErrUnknownIndex     = errors.New("unknown index")
)

// goose keeps its dialect and base FS in package globals.
var gooseMu sync.Mutex

type Options struct {
	// MaxPayloadBytes rejects photo, audio and settings writes whose payload
	// is larger. Zero disables the check.
	MaxPayloadBytes int

	// LogQueries turns on gorm's SQL logging.
	LogQueries bool

	Logger *slog.Logger
}

type Database struct {
	DB *gorm.DB

	maxPayloadBytes int
	logger          *slog.Logger
}

func NewDatabase(dbPath string, opts Options) (*Database, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	level := logger.Warn
	if opts.LogQueries {
		level = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", ErrStoreUnavailable, dbPath, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	// SQLite allows one writer; a single connection also keeps ":memory:" stable.
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if err := migrate(ctx, db); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: failed to migrate database: %w", ErrStoreUnavailable, err)
	}

	log.Info("database initialized", "path", dbPath, "schema_version", SchemaVersion)

	return &Database{
		DB:              db,
		maxPayloadBytes: opts.MaxPayloadBytes,
		logger:          log,
	}, nil
}

func migrate(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, sqlDB, "migrations")
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// SchemaVersion reports the migration version applied to the open store.
func (d *Database) SchemaVersion(ctx context.Context) (int64, error) {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return 0, err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, sqlDB)
}

func (d *Database) requireTable(ctx context.Context, table string) error {
	if !d.DB.WithContext(ctx).Migrator().HasTable(table) {
		return fmt.Errorf("%s: %w", table, ErrTableMissing)
	}
	return nil
}
