package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/events"
	"ai-notes-bot/pkg/intent"
)

type fakeNotes struct {
	mu    sync.Mutex
	notes []entity.Note
	seq   int

	createErr error
	queryErr  error
	updateErr error
	countErr  error
	vocabErr  error
	block     chan struct{}

	updates    map[string][]string
	vocabCalls int
}

func newFakeNotes(notes ...entity.Note) *fakeNotes {
	return &fakeNotes{notes: notes, updates: map[string][]string{}}
}

func (f *fakeNotes) wait(ctx context.Context) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
		}
	}
}

func (f *fakeNotes) Create(ctx context.Context, title, body string, tags []string) (string, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.seq++
	id := fmt.Sprintf("note-%d", f.seq)
	f.notes = append(f.notes, entity.Note{
		Id: id, Title: title, Body: body, Tags: append([]string(nil), tags...),
		CreatedAt: time.Date(2026, 1, 1, 0, 0, f.seq, 0, time.UTC),
	})
	return id, nil
}

func (f *fakeNotes) Query(ctx context.Context, filter contract.NoteFilter) ([]entity.Note, error) {
	f.wait(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	var out []entity.Note
	for _, n := range f.notes {
		if filter.Tag != "" && !n.HasTag(filter.Tag) {
			continue
		}
		if filter.Keyword != "" && !strings.Contains(strings.ToLower(n.Title+" "+n.Body), strings.ToLower(filter.Keyword)) {
			continue
		}
		out = append(out, n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeNotes) UpdateTags(ctx context.Context, id string, tags []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.notes {
		if f.notes[i].Id == id {
			f.notes[i].Tags = append([]string(nil), tags...)
			f.updates[id] = append([]string(nil), tags...)
			return nil
		}
	}
	return contract.ErrNoteNotFound
}

func (f *fakeNotes) ListTagCounts(ctx context.Context) (map[string]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.countErr != nil {
		return nil, f.countErr
	}
	counts := map[string]int{}
	for _, n := range f.notes {
		for _, t := range n.Tags {
			counts[t]++
		}
	}
	return counts, nil
}

func (f *fakeNotes) ListTagVocabulary(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	f.vocabCalls++
	err := f.vocabErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	counts, _ := f.ListTagCounts(ctx)
	var tags []string
	for t := range counts {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags, nil
}

type fakeClassifier struct {
	mu      sync.Mutex
	result  intent.Intent
	err     error
	panics  bool
	block   chan struct{}
	calls   int
	lastMsg string
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (intent.Intent, error) {
	f.mu.Lock()
	f.calls++
	f.lastMsg = text
	f.mu.Unlock()

	if f.block != nil {
		<-f.block
	}
	if f.panics {
		panic("classifier exploded")
	}
	return f.result, f.err
}

type recordingSender struct {
	mu      sync.Mutex
	replies []string
	err     error
}

func (s *recordingSender) Send(ctx context.Context, conversationID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, text)
	return s.err
}

func (s *recordingSender) last() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return ""
	}
	return s.replies[len(s.replies)-1]
}

type recordingPublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (p *recordingPublisher) Publish(ctx context.Context, payload []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.payloads = append(p.payloads, payload)
	return nil
}

type recordingEvents struct {
	mu    sync.Mutex
	types []string
	err   error
}

func (e *recordingEvents) Publish(ctx context.Context, event events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, event.EventType())
	return e.err
}
