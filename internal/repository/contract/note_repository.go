package contract

import (
	"context"
	"errors"

	"ai-notes-bot/internal/entity"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteFilter narrows a Query. Zero values mean "no constraint";
// Limit <= 0 returns every matching note.
type NoteFilter struct {
	Keyword string
	Tag     string
	Limit   int
}

// NoteRepository is the narrow boundary to whatever stores the notes.
// Query results are ordered newest first.
type NoteRepository interface {
	Create(ctx context.Context, title, body string, tags []string) (string, error)
	Query(ctx context.Context, filter NoteFilter) ([]entity.Note, error)
	UpdateTags(ctx context.Context, id string, tags []string) error
	ListTagCounts(ctx context.Context) (map[string]int, error)
	ListTagVocabulary(ctx context.Context) ([]string, error)
}
