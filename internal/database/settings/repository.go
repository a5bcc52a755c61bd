// Package settings provides database operations for the preferences row.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	current, err := repo.Get(ctx)
package settings

import (
	"context"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
)

// Repository handles the singleton settings record.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new settings repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Get returns the saved settings, or nil if they were never saved.
func (r *Repository) Get(ctx context.Context) (*entities.Settings, error) {
	return database.Get[entities.Settings](ctx, r.db, entities.SettingsID)
}

// Save upserts the settings under the fixed singleton id. Last write wins.
func (r *Repository) Save(ctx context.Context, s *entities.Settings) error {
	s.ID = entities.SettingsID
	return r.db.Put(ctx, s)
}
