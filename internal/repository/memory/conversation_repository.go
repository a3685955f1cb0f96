package memory

import (
	"context"
	"time"

	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/conversation"

	"github.com/patrickmn/go-cache"
)

// ConversationRepository keeps contexts in process memory. Entries untouched
// for ttl are evicted by the cache janitor.
type ConversationRepository struct {
	cache *cache.Cache
}

func NewConversationRepository(ttl, cleanupInterval time.Duration) contract.ConversationRepository {
	return &ConversationRepository{
		cache: cache.New(ttl, cleanupInterval),
	}
}

func (r *ConversationRepository) Get(_ context.Context, conversationID string) conversation.Context {
	if x, found := r.cache.Get(conversationID); found {
		if cc, ok := x.(conversation.Context); ok {
			return cc.Clone()
		}
	}
	return conversation.Context{}
}

func (r *ConversationRepository) Put(_ context.Context, conversationID string, cc conversation.Context) {
	r.cache.Set(conversationID, cc.Clone(), cache.DefaultExpiration)
}
