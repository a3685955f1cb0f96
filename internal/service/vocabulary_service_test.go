package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagVocabulary_CachesUntilInvalidated(t *testing.T) {
	notes := newFakeNotes(entity.Note{Id: "1", Tags: []string{"Recetas"}})
	vocab := NewTagVocabularyService(notes, time.Hour)
	ctx := context.Background()

	first, err := vocab.Known(ctx)
	require.NoError(t, err)
	second, err := vocab.Known(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Recetas"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, notes.vocabCalls)

	_, _ = notes.Create(ctx, "Viaje", "Lima", []string{"Viajes"})
	vocab.Invalidate()

	third, err := vocab.Known(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Recetas", "Viajes"}, third)
	assert.Equal(t, 2, notes.vocabCalls)
}

func TestTagVocabulary_ReturnsCopies(t *testing.T) {
	notes := newFakeNotes(entity.Note{Id: "1", Tags: []string{"Recetas"}})
	vocab := NewTagVocabularyService(notes, time.Hour)

	got, _ := vocab.Known(context.Background())
	got[0] = "mutated"

	again, _ := vocab.Known(context.Background())
	assert.Equal(t, []string{"Recetas"}, again)
}

func TestConsumer_NoteChangedInvalidatesVocabulary(t *testing.T) {
	notes := newFakeNotes(entity.Note{Id: "1", Tags: []string{"Recetas"}})
	vocab := NewTagVocabularyService(notes, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	consumer := NewConsumerService(pubSub, NoteChangedTopic, vocab, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	_, _ = vocab.Known(ctx)
	require.Equal(t, 1, notes.vocabCalls)

	payload, _ := json.Marshal(NoteChangedMessage{NoteId: "1", Tags: []string{"Cocina"}})
	require.NoError(t, NewPublisherService(NoteChangedTopic, pubSub).Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		_, _ = vocab.Known(ctx)
		notes.mu.Lock()
		defer notes.mu.Unlock()
		return notes.vocabCalls >= 2
	}, time.Second, 10*time.Millisecond)
}
