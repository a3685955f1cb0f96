package nats

import (
	"testing"

	"ai-notes-bot/pkg/events"

	"github.com/stretchr/testify/assert"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "notes.NOTE_SAVED", Subject(events.TypeNoteSaved))
	assert.Equal(t, "notes.NOTE_TAGS_CORRECTED", Subject(events.TypeNoteTagsCorrected))
}
