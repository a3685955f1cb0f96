package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *NoteRepository {
	t.Helper()

	db, err := database.NewSQLiteDB(context.Background(), filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewNoteRepository(db).(*NoteRepository)
	repo.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return repo
}

func TestNoteRepository_CreateAndQuery(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	pastaID, err := repo.Create(ctx, "Receta de pasta", "Hervir agua y sal", []string{"Recetas", " Cocina "})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Ideas para el blog", "Escribir sobre Go", []string{"Ideas"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, "Lista de compras", "Tomates, pasta", []string{"Compras", "Cocina"})
	require.NoError(t, err)

	t.Run("all newest first", func(t *testing.T) {
		notes, err := repo.Query(ctx, contract.NoteFilter{})
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, "Lista de compras", notes[0].Title)
		assert.Equal(t, "Receta de pasta", notes[2].Title)
		assert.Equal(t, pastaID, notes[2].Id)
		assert.Equal(t, []string{"Recetas", "Cocina"}, notes[2].Tags)
	})

	t.Run("by keyword", func(t *testing.T) {
		notes, err := repo.Query(ctx, contract.NoteFilter{Keyword: "PASTA"})
		require.NoError(t, err)
		assert.Len(t, notes, 2)
	})

	t.Run("by tag ignores case", func(t *testing.T) {
		notes, err := repo.Query(ctx, contract.NoteFilter{Tag: "cocina"})
		require.NoError(t, err)
		assert.Len(t, notes, 2)
	})

	t.Run("limit", func(t *testing.T) {
		notes, err := repo.Query(ctx, contract.NoteFilter{Limit: 1})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, "Lista de compras", notes[0].Title)
	})
}

func TestNoteRepository_UpdateTags(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	id, err := repo.Create(ctx, "Receta", "cuerpo", []string{"Cocina"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdateTags(ctx, id, []string{"Recetas", "Ideas"}))

	notes, err := repo.Query(ctx, contract.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, []string{"Recetas", "Ideas"}, notes[0].Tags)

	err = repo.UpdateTags(ctx, "missing", []string{"X"})
	assert.ErrorIs(t, err, contract.ErrNoteNotFound)
}

func TestNoteRepository_TagCountsAndVocabulary(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for _, tags := range [][]string{{"Recetas", "Cocina"}, {"Recetas"}, {"Ideas"}, {}} {
		_, err := repo.Create(ctx, "n", "b", tags)
		require.NoError(t, err)
	}

	counts, err := repo.ListTagCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Recetas": 2, "Cocina": 1, "Ideas": 1}, counts)

	vocab, err := repo.ListTagVocabulary(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Recetas", "Cocina", "Ideas"}, vocab)
}
