// Package photos provides database operations for entry photos.
//
// # Usage
//
//	repo := photos.NewRepository(db)
//	err := repo.Save(ctx, &entities.Photo{ID: id, EntryID: entryID, DataURL: url, Index: 0})
//	pics, err := repo.ForEntry(ctx, entryID)
package photos

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

func (r *Repository) Save(ctx context.Context, photo *entities.Photo) error {
	return r.db.Put(ctx, photo)
}

// ForEntry returns the photos of one entry. Order is not guaranteed.
func (r *Repository) ForEntry(ctx context.Context, entryID int64) ([]entities.Photo, error) {
	return database.GetByIndex[entities.Photo](ctx, r.db, database.IndexEntryID, entryID)
}
