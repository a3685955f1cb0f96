package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"ai-notes-bot/pkg/conversation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRepository_AbsentIsZero(t *testing.T) {
	repo := NewConversationRepository(time.Hour, time.Minute)
	assert.Equal(t, conversation.Context{}, repo.Get(context.Background(), "nobody"))
}

func TestConversationRepository_PutGetIsolated(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepository(time.Hour, time.Minute)

	cc := conversation.Context{LastNote: &conversation.NoteRef{ID: "n1", Tags: []string{"A"}}, AwaitingTagCorrection: true}
	repo.Put(ctx, "c1", cc)
	cc.LastNote.Tags[0] = "changed"

	got := repo.Get(ctx, "c1")
	require.NotNil(t, got.LastNote)
	assert.Equal(t, []string{"A"}, got.LastNote.Tags)

	got.LastNote.ID = "other"
	assert.Equal(t, "n1", repo.Get(ctx, "c1").LastNote.ID)

	assert.Equal(t, conversation.Context{}, repo.Get(ctx, "c2"))
}

func TestConversationRepository_Expires(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepository(20*time.Millisecond, time.Millisecond)

	repo.Put(ctx, "c1", conversation.Context{LastQuery: "pasta"})
	assert.Equal(t, "pasta", repo.Get(ctx, "c1").LastQuery)

	assert.Eventually(t, func() bool {
		return repo.Get(ctx, "c1").LastQuery == ""
	}, time.Second, 10*time.Millisecond)
}

func TestConversationRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewConversationRepository(time.Hour, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", i%5)
			repo.Put(ctx, id, conversation.Context{LastQuery: id})
			_ = repo.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("c%d", i)
		assert.Equal(t, id, repo.Get(ctx, id).LastQuery)
	}
}
