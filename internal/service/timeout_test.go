package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallWithTimeout(t *testing.T) {
	t.Run("returns the result", func(t *testing.T) {
		v, err := callWithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
			return 7, nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("stops waiting after the deadline", func(t *testing.T) {
		release := make(chan struct{})
		defer close(release)

		_, err := callWithTimeout(context.Background(), 20*time.Millisecond, func(context.Context) (int, error) {
			<-release
			return 1, nil
		})
		assert.ErrorIs(t, err, ErrCallTimeout)
	})

	t.Run("call is not cancelled with the caller", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		seen := make(chan error, 1)

		_, _ = callWithTimeout(ctx, time.Second, func(callCtx context.Context) (int, error) {
			cancel()
			time.Sleep(10 * time.Millisecond)
			seen <- callCtx.Err()
			return 0, nil
		})

		assert.NoError(t, <-seen)
	})

	t.Run("panic becomes an error", func(t *testing.T) {
		_, err := callWithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
			panic("boom")
		})
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("non-positive timeout waits for the call", func(t *testing.T) {
		for _, timeout := range []time.Duration{0, -time.Second} {
			for i := 0; i < 20; i++ {
				v, err := callWithTimeout(context.Background(), timeout, func(context.Context) (int, error) {
					time.Sleep(time.Millisecond)
					return 1, nil
				})
				assert.NoError(t, err)
				assert.Equal(t, 1, v)
			}
		}
	})

	t.Run("non-positive timeout still honours the caller", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		release := make(chan struct{})
		defer close(release)

		go func() {
			time.Sleep(10 * time.Millisecond)
			cancel()
		}()
		_, err := callWithTimeout(ctx, 0, func(context.Context) (int, error) {
			<-release
			return 1, nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("errors pass through", func(t *testing.T) {
		want := errors.New("store down")
		_, err := callWithTimeout(context.Background(), time.Second, func(context.Context) (int, error) {
			return 0, want
		})
		assert.ErrorIs(t, err, want)
	})
}

func TestTimedNoteRepository_NoDoubleWrap(t *testing.T) {
	notes := newFakeNotes()
	once := NewTimedNoteRepository(notes, time.Second)

	assert.Same(t, once, NewTimedNoteRepository(once, time.Second))
	assert.Same(t, notes, NewTimedNoteRepository(notes, 0))
}
