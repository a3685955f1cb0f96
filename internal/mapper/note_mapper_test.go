package mapper

import (
	"testing"
	"time"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestNoteMapper_ToEntity(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	e := NewNoteMapper().ToEntity(&model.Note{
		Id:        id,
		Title:     "Receta de pasta",
		Body:      "Hervir agua",
		Tags:      datatypes.NewJSONSlice([]string{" Cocina ", "", "Recetas"}),
		CreatedAt: created,
	})

	require.NotNil(t, e)
	assert.Equal(t, id.String(), e.Id)
	assert.Equal(t, []string{"Cocina", "Recetas"}, e.Tags)
	assert.Equal(t, created, e.CreatedAt)
}

func TestNoteMapper_ToModel(t *testing.T) {
	m := NewNoteMapper()

	t.Run("empty id stays nil for database default", func(t *testing.T) {
		out := m.ToModel(&entity.Note{Title: "x"})
		assert.Equal(t, uuid.Nil, out.Id)
		assert.Empty(t, out.Tags)
	})

	t.Run("valid id is preserved", func(t *testing.T) {
		id := uuid.New()
		out := m.ToModel(&entity.Note{Id: id.String(), Tags: []string{"Ideas"}})
		assert.Equal(t, id, out.Id)
		assert.Equal(t, []string{"Ideas"}, []string(out.Tags))
	})

	t.Run("nil in nil out", func(t *testing.T) {
		assert.Nil(t, m.ToModel(nil))
		assert.Nil(t, m.ToEntity(nil))
	})
}
