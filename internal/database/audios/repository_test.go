package audios

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
	db, err := database.NewDatabase(filepath.Join(t.TempDir(), "audios.db"), database.Options{})
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	blob := []byte{0x1a, 0x45, 0xdf, 0xa3}
	require.NoError(t, repo.Save(ctx, &entities.Audio{ID: "7-audio", EntryID: 7, AudioBlob: blob, Duration: 3, MimeType: "audio/webm"}))

	recs, err := repo.ForEntry(ctx, 7)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, blob, recs[0].AudioBlob)
	assert.Equal(t, 3, recs[0].Duration)
	assert.Equal(t, "audio/webm", recs[0].MimeType)

	none, err := repo.ForEntry(ctx, 8)
	require.NoError(t, err)
	assert.Empty(t, none)
}
