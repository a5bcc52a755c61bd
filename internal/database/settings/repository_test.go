package settings

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_settings_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath, database.Options{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_Get_NeverSaved(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	s, err := repo.Get(context.Background())

	assert.NoError(t, err)
	assert.Nil(t, s)
}

func TestRepository_Save_New(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	err := repo.Save(ctx, &entities.Settings{TextColor: "#333333", IsRealTitle: true})
	require.NoError(t, err)

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, entities.SettingsID, s.ID)
	assert.Equal(t, "#333333", s.TextColor)
	assert.True(t, s.IsRealTitle)
	assert.Nil(t, s.BgImage)
}

func TestRepository_Save_Update(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	img := "data:image/png;base64,AAAA"
	require.NoError(t, repo.Save(ctx, &entities.Settings{BgColor: "#FFFFFF", BgImage: &img}))
	require.NoError(t, repo.Save(ctx, &entities.Settings{BgColor: "#000000"}))

	s, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "#000000", s.BgColor)
	assert.Nil(t, s.BgImage, "last write wins, including cleared fields")
}
