package conversation

import (
	"time"

	"ai-notes-bot/internal/pkg/logger"
)

// Manager applies state transitions to a Context.
type Manager struct {
	logger logger.ILogger
	now    func() time.Time
}

func NewManager(logger logger.ILogger) *Manager {
	return &Manager{logger: logger, now: time.Now}
}

// TransitionToAwaitingCorrection remembers the saved note and waits for a tag correction.
// A later save replaces the pending note.
func (m *Manager) TransitionToAwaitingCorrection(c *Context, note NoteRef) {
	ref := note
	ref.Tags = append([]string(nil), note.Tags...)
	c.LastNote = &ref
	c.AwaitingTagCorrection = true
	c.UpdatedAt = m.now()
	m.logger.Debug("Conversation", "Transitioned to AWAITING_CORRECTION", map[string]interface{}{
		"note_id": note.ID,
		"title":   note.Title,
	})
}

// TransitionToIdle drops any pending correction. Applying it twice is the same as once.
func (m *Manager) TransitionToIdle(c *Context) {
	c.LastNote = nil
	c.AwaitingTagCorrection = false
	c.UpdatedAt = m.now()
	m.logger.Debug("Conversation", "Transitioned to IDLE", nil)
}

// RecordQuery keeps the last search text without touching the correction state.
func (m *Manager) RecordQuery(c *Context, query string) {
	c.LastQuery = query
	c.UpdatedAt = m.now()
}
