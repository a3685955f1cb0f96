package service

import (
	"context"
	"encoding/json"

	"ai-notes-bot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NoteChangedMessage travels on the in-process bus after a note is saved or retagged.
type NoteChangedMessage struct {
	NoteId string   `json:"note_id"`
	Tags   []string `json:"tags"`
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	vocabulary ITagVocabularyService
	logger     logger.ILogger
}

// NewConsumerService drops the cached tag vocabulary whenever a note changes, so
// the next classification prompt sees new tags.
func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	vocabulary ITagVocabularyService,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		vocabulary: vocabulary,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload NoteChangedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Warn("Consumer", "Failed to unmarshal message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// invalid messages are acked so they are not redelivered forever
		msg.Ack()
		return
	}

	cs.vocabulary.Invalidate()
	cs.logger.Debug("Consumer", "Tag vocabulary invalidated", map[string]interface{}{
		"note_id": payload.NoteId,
		"tags":    payload.Tags,
	})
	msg.Ack()
}
