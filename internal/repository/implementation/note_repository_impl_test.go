package implementation

import (
	"context"
	"os"
	"testing"
	"time"

	"ai-notes-bot/internal/model"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real Postgres; skipped unless DB_CONNECTION_STRING is set.
func newTestRepository(t *testing.T) contract.NoteRepository {
	t.Helper()

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	marker := "it-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Unscoped().Where("title LIKE ?", marker+"%").Delete(&model.Note{})
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	t.Setenv("TEST_NOTE_MARKER", marker)
	return NewNoteRepository(db)
}

func TestNoteRepository_Postgres(t *testing.T) {
	repo := newTestRepository(t)
	marker := os.Getenv("TEST_NOTE_MARKER")
	ctx := context.Background()

	older, err := repo.Create(ctx, marker+" pasta", "pasta con tomate", []string{"Recetas"})
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	newer, err := repo.Create(ctx, marker+" viaje", "vuelo a Lima", []string{"Viajes", "Recetas"})
	require.NoError(t, err)

	t.Run("keyword newest first", func(t *testing.T) {
		notes, err := repo.Query(ctx, contract.NoteFilter{Keyword: marker})
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, newer, notes[0].Id)
		assert.Equal(t, older, notes[1].Id)
	})

	t.Run("tag is case insensitive", func(t *testing.T) {
		notes, err := repo.Query(ctx, contract.NoteFilter{Keyword: marker, Tag: "viajes"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, newer, notes[0].Id)
	})

	t.Run("update tags", func(t *testing.T) {
		require.NoError(t, repo.UpdateTags(ctx, older, []string{"Cocina"}))
		notes, err := repo.Query(ctx, contract.NoteFilter{Keyword: marker + " pasta"})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, []string{"Cocina"}, notes[0].Tags)
	})

	t.Run("update unknown note", func(t *testing.T) {
		assert.ErrorIs(t, repo.UpdateTags(ctx, uuid.NewString(), []string{"x"}), contract.ErrNoteNotFound)
		assert.ErrorIs(t, repo.UpdateTags(ctx, "not-a-uuid", []string{"x"}), contract.ErrNoteNotFound)
	})

	t.Run("tag counts", func(t *testing.T) {
		counts, err := repo.ListTagCounts(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, counts["Cocina"], 1)
		assert.GreaterOrEqual(t, counts["Viajes"], 1)
	})
}
