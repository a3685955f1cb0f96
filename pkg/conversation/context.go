package conversation

import "time"

// NoteRef identifies the note a pending tag correction applies to.
type NoteRef struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

// Context is the per-conversation memory carried between turns.
// The zero value is the Idle state.
type Context struct {
	LastNote              *NoteRef  `json:"last_note,omitempty"`
	AwaitingTagCorrection bool      `json:"awaiting_tag_correction"`
	LastQuery             string    `json:"last_query,omitempty"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type State string

const (
	StateIdle               State = "IDLE"
	StateAwaitingCorrection State = "AWAITING_CORRECTION"
)

func (c Context) State() State {
	if c.AwaitingTagCorrection && c.LastNote != nil {
		return StateAwaitingCorrection
	}
	return StateIdle
}

// Clone returns a deep copy so callers can mutate it without touching the stored value.
func (c Context) Clone() Context {
	out := c
	if c.LastNote != nil {
		ref := *c.LastNote
		ref.Tags = append([]string(nil), c.LastNote.Tags...)
		out.LastNote = &ref
	}
	return out
}
