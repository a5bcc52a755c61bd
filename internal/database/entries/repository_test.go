package entries

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "entries.db"), database.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entities.Entry{ID: 1700000000000, Date: "14 Nov, 2023", Text: "Hello"}))

	entry, err := repo.Get(ctx, 1700000000000)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "Hello", entry.Text)
	assert.Equal(t, "14 Nov, 2023", entry.Date)
	assert.Empty(t, entry.Photos, "attachments are not stored on the entry row")
	assert.Nil(t, entry.Audio)
}

func TestRepository_List(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, repo.Save(ctx, &entities.Entry{ID: id, Date: "1 Jan, 2025", Text: "x"}))
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRepository_ByDate(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &entities.Entry{ID: 1, Date: "1 Jan, 2025", Text: "a"}))
	require.NoError(t, repo.Save(ctx, &entities.Entry{ID: 2, Date: "2 Jan, 2025", Text: "b"}))

	found, err := repo.ByDate(ctx, "2 Jan, 2025")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b", found[0].Text)
}
