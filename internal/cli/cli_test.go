package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/diary/internal/auth"
	"github.com/mrlokans/diary/internal/database"
	"github.com/mrlokans/diary/internal/entities"
)

func seedStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diary.db")
	db, err := database.NewDatabase(path, database.Options{})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, db.Put(ctx, &entities.Entry{ID: 1, Date: "1 Jan, 2024", Text: "kept"}))
	require.NoError(t, db.Put(ctx, &entities.Photo{ID: "p1", EntryID: 1, DataURL: "data:image/png;base64,AA==", Index: 0}))
	require.NoError(t, db.Put(ctx, &entities.Photo{ID: "p2", EntryID: 99, DataURL: "data:image/png;base64,AA==", Index: 0}))
	return path
}

func countPhotos(t *testing.T, path string) int {
	t.Helper()
	db, err := database.NewDatabase(path, database.Options{})
	require.NoError(t, err)
	defer db.Close()
	photos, err := database.GetAll[entities.Photo](context.Background(), db)
	require.NoError(t, err)
	return len(photos)
}

func TestResetCommand(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed by flag", func(t *testing.T) {
		path := seedStore(t)
		var out bytes.Buffer
		cmd := &ResetCommand{Out: &out}
		require.NoError(t, cmd.ParseFlags([]string{"-db", path, "-yes"}))

		require.NoError(t, cmd.Run(ctx))
		assert.Contains(t, out.String(), "Store cleared")
		assert.Zero(t, countPhotos(t, path))
	})

	t.Run("confirmed at prompt", func(t *testing.T) {
		path := seedStore(t)
		cmd := &ResetCommand{DatabasePath: path, In: strings.NewReader("YES\n"), Out: &bytes.Buffer{}}

		require.NoError(t, cmd.Run(ctx))
		assert.Zero(t, countPhotos(t, path))
	})

	t.Run("declined at prompt", func(t *testing.T) {
		path := seedStore(t)
		cmd := &ResetCommand{DatabasePath: path, In: strings.NewReader("no\n"), Out: &bytes.Buffer{}}

		assert.ErrorIs(t, cmd.Run(ctx), ErrAborted)
		assert.Equal(t, 2, countPhotos(t, path))
	})
}

func TestSweepCommand(t *testing.T) {
	path := seedStore(t)
	var out bytes.Buffer
	cmd := &SweepCommand{Out: &out}
	require.NoError(t, cmd.ParseFlags([]string{"-db", path}))

	require.NoError(t, cmd.Run(context.Background()))

	assert.Equal(t, "Removed 1 orphaned attachments\n", out.String())
	assert.Equal(t, 1, countPhotos(t, path))
}

func TestHashPasscodeCommand(t *testing.T) {
	t.Run("from flag", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &HashPasscodeCommand{Out: &out}
		require.NoError(t, cmd.ParseFlags([]string{"-passcode", "2580", "-cost", "4"}))

		require.NoError(t, cmd.Run())
		assert.NoError(t, auth.CheckPasscode("2580", strings.TrimSpace(out.String())))
	})

	t.Run("from stdin", func(t *testing.T) {
		var out bytes.Buffer
		cmd := &HashPasscodeCommand{Cost: bcrypt.MinCost, In: strings.NewReader("letmein\n"), Out: &out}

		require.NoError(t, cmd.Run())
		assert.NoError(t, auth.CheckPasscode("letmein", strings.TrimSpace(out.String())))
	})

	t.Run("too short", func(t *testing.T) {
		cmd := &HashPasscodeCommand{Passcode: "12", Cost: bcrypt.MinCost, Out: &bytes.Buffer{}}
		assert.ErrorIs(t, cmd.Run(), auth.ErrPasscodeTooShort)
	})
}
