package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/conversation"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "conversation:"

// ConversationRepository stores contexts as JSON so several bot instances
// can share them. Failures degrade to the zero context and are logged.
type ConversationRepository struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger logger.ILogger
}

func NewConversationRepository(rdb *redis.Client, ttl time.Duration, log logger.ILogger) contract.ConversationRepository {
	return &ConversationRepository{rdb: rdb, ttl: ttl, logger: log}
}

func (r *ConversationRepository) Get(ctx context.Context, conversationID string) conversation.Context {
	raw, err := r.rdb.Get(ctx, keyPrefix+conversationID).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("ConversationStore", "Failed to read context", map[string]interface{}{
				"conversation_id": conversationID,
				"error":           err.Error(),
			})
		}
		return conversation.Context{}
	}

	var cc conversation.Context
	if err := json.Unmarshal(raw, &cc); err != nil {
		r.logger.Warn("ConversationStore", "Discarding unreadable context", map[string]interface{}{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return conversation.Context{}
	}
	return cc
}

func (r *ConversationRepository) Put(ctx context.Context, conversationID string, cc conversation.Context) {
	raw, err := json.Marshal(cc)
	if err != nil {
		r.logger.Error("ConversationStore", "Failed to encode context", map[string]interface{}{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		return
	}

	if err := r.rdb.Set(ctx, keyPrefix+conversationID, raw, r.ttl).Err(); err != nil {
		r.logger.Error("ConversationStore", "Failed to write context", map[string]interface{}{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
	}
}
