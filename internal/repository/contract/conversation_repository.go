package contract

import (
	"context"

	"ai-notes-bot/pkg/conversation"
)

// ConversationRepository keeps one conversation.Context per conversation id.
// Get never fails: an absent or unreadable entry is the zero Context.
type ConversationRepository interface {
	Get(ctx context.Context, conversationID string) conversation.Context
	Put(ctx context.Context, conversationID string, cc conversation.Context)
}
