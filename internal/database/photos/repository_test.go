package photos

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
)

func TestRepository_ForEntry(t *testing.T) {
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "photos.db"), database.Options{})
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entities.Photo{ID: "1-0", EntryID: 1, DataURL: "a", Index: 0}))
	require.NoError(t, repo.Save(ctx, &entities.Photo{ID: "1-1", EntryID: 1, DataURL: "b", Index: 1}))
	require.NoError(t, repo.Save(ctx, &entities.Photo{ID: "2-0", EntryID: 2, DataURL: "c", Index: 0}))

	pics, err := repo.ForEntry(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, pics, 2)
	for _, p := range pics {
		assert.Equal(t, int64(1), p.EntryID)
	}
}
