// Package entries provides database operations for diary entries.
//
// # Usage
//
//	repo := entries.NewRepository(db)
//	all, err := repo.List(ctx)
package entries

import (
	"context"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
)

// Repository handles entry rows. Attachments are stored by the photos and
// audios repositories.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new entries repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Save writes the entry row.
func (r *Repository) Save(ctx context.Context, entry *entities.Entry) error {
	return r.db.Put(ctx, entry)
}

// Get returns the entry with the given id, or nil if there is none.
func (r *Repository) Get(ctx context.Context, id int64) (*entities.Entry, error) {
	return database.Get[entities.Entry](ctx, r.db, id)
}

// List returns all entries in storage order.
func (r *Repository) List(ctx context.Context) ([]entities.Entry, error) {
	return database.GetAll[entities.Entry](ctx, r.db)
}

// ByDate returns the entries written on the given display date.
func (r *Repository) ByDate(ctx context.Context, date string) ([]entities.Entry, error) {
	return database.GetByIndex[entities.Entry](ctx, r.db, database.IndexDate, date)
}
