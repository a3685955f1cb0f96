package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/repository/contract"
)

var ErrCallTimeout = errors.New("external call timed out")

// callWithTimeout waits at most timeout for call, or without a deadline when
// timeout is not positive. The call itself runs on a context detached from
// ctx's cancellation and is left to finish in the background when the caller
// stops waiting.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	detached := context.WithoutCancel(ctx)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("call panicked: %v", r)}
			}
		}()
		v, err := call(detached)
		done <- result{value: v, err: err}
	}()

	// A nil channel never fires, so a non-positive timeout waits for the call.
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}

	var zero T
	select {
	case r := <-done:
		return r.value, r.err
	case <-expired:
		return zero, ErrCallTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

type timedNoteRepository struct {
	next    contract.NoteRepository
	timeout time.Duration
}

// NewTimedNoteRepository bounds how long callers wait on every store operation.
func NewTimedNoteRepository(next contract.NoteRepository, timeout time.Duration) contract.NoteRepository {
	if _, ok := next.(*timedNoteRepository); ok || timeout <= 0 {
		return next
	}
	return &timedNoteRepository{next: next, timeout: timeout}
}

func (r *timedNoteRepository) Create(ctx context.Context, title, body string, tags []string) (string, error) {
	return callWithTimeout(ctx, r.timeout, func(ctx context.Context) (string, error) {
		return r.next.Create(ctx, title, body, tags)
	})
}

func (r *timedNoteRepository) Query(ctx context.Context, filter contract.NoteFilter) ([]entity.Note, error) {
	return callWithTimeout(ctx, r.timeout, func(ctx context.Context) ([]entity.Note, error) {
		return r.next.Query(ctx, filter)
	})
}

func (r *timedNoteRepository) UpdateTags(ctx context.Context, id string, tags []string) error {
	_, err := callWithTimeout(ctx, r.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.next.UpdateTags(ctx, id, tags)
	})
	return err
}

func (r *timedNoteRepository) ListTagCounts(ctx context.Context) (map[string]int, error) {
	return callWithTimeout(ctx, r.timeout, r.next.ListTagCounts)
}

func (r *timedNoteRepository) ListTagVocabulary(ctx context.Context) ([]string, error) {
	return callWithTimeout(ctx, r.timeout, r.next.ListTagVocabulary)
}
