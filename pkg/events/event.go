package events

import "time"

const (
	TypeNoteSaved         = "NOTE_SAVED"
	TypeNoteTagsCorrected = "NOTE_TAGS_CORRECTED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "NOTE_SAVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NoteSaved(conversationID, noteID, title string, tags []string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeNoteSaved,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"note_id":         noteID,
			"title":           title,
			"tags":            tags,
			"occurred_at":     at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}

func NoteTagsCorrected(conversationID, noteID string, tags []string, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeNoteTagsCorrected,
		Data: map[string]interface{}{
			"conversation_id": conversationID,
			"note_id":         noteID,
			"tags":            tags,
			"occurred_at":     at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}
