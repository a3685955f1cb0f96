package intent

import (
	"context"
	"errors"
	"testing"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	notes []entity.Note
	err   error
}

func (f fakeLister) Query(_ context.Context, _ contract.NoteFilter) ([]entity.Note, error) {
	return f.notes, f.err
}

func scored(tags ...[]string) []search.ScoredNote {
	out := make([]search.ScoredNote, 0, len(tags))
	for _, t := range tags {
		out = append(out, search.ScoredNote{Note: entity.Note{Tags: t}})
	}
	return out
}

func TestAggregateTags(t *testing.T) {
	tests := []struct {
		name  string
		notes []search.ScoredNote
		want  []string
	}{
		{
			name:  "threshold of two",
			notes: scored([]string{"A", "B", "C"}, []string{"A", "B"}, []string{"A"}),
			want:  []string{"A", "B"},
		},
		{
			name:  "counted once per note",
			notes: scored([]string{"A", "a", "A"}, []string{"B"}),
			want:  []string{},
		},
		{
			name:  "cap at three keeps first seen on ties",
			notes: scored([]string{"D", "C", "B", "A"}, []string{"A", "B", "C", "D"}),
			want:  []string{"D", "C", "B"},
		},
		{
			name:  "no notes",
			notes: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AggregateTags(tt.notes))
		})
	}
}

func TestSuggester_Enrich(t *testing.T) {
	notes := []entity.Note{
		{Title: "Pasta al pesto", Body: "albahaca", Tags: []string{"Recetas", "Italiana"}},
		{Title: "Pasta carbonara", Body: "huevo", Tags: []string{"Recetas", "Italiana"}},
		{Title: "Pasta fresca", Body: "harina", Tags: []string{"Recetas"}},
		{Title: "Viaje", Body: "Roma", Tags: []string{"Viajes"}},
	}
	s := NewSuggester(fakeLister{notes: notes}, search.NewEngine(), logger.NewNopLogger())

	got := s.Enrich(context.Background(), SaveNote{Title: "Pasta", Body: "pasta", Tags: []string{"recetas"}})

	assert.Equal(t, []string{"Recetas", "Italiana"}, got.SuggestedTags)
	assert.Equal(t, []string{"recetas"}, got.Tags)
}

func TestSuggester_EnrichFailureKeepsNote(t *testing.T) {
	s := NewSuggester(fakeLister{err: errors.New("store down")}, search.NewEngine(), logger.NewNopLogger())
	in := SaveNote{Title: "Pasta", Body: "pasta", Tags: []string{"Cocina"}}

	got := s.Enrich(context.Background(), in)

	assert.Equal(t, in, got)
	assert.Nil(t, got.SuggestedTags)
}

func TestSuggester_Suggest(t *testing.T) {
	s := NewSuggester(fakeLister{notes: []entity.Note{{Title: "x"}}}, search.NewEngine(), logger.NewNopLogger())

	got, err := s.Suggest(context.Background(), "nada que ver")
	require.NoError(t, err)
	assert.Empty(t, got)
}
