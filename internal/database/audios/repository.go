// Package audios provides database operations for voice recordings.
//
// # Usage
//
//	repo := audios.NewRepository(db)
//	recs, err := repo.ForEntry(ctx, entryID)
package audios

import (
	"context"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
)

type Repository struct {
	db *database.Database
}

func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, audio *entities.Audio) error {
	return r.db.Put(ctx, audio)
}

// ForEntry returns the recordings stored for an entry. The index is not
// unique, so callers that expect one recording take the first.
func (r *Repository) ForEntry(ctx context.Context, entryID int64) ([]entities.Audio, error) {
	return database.GetByIndex[entities.Audio](ctx, r.db, database.IndexEntryID, entryID)
}
