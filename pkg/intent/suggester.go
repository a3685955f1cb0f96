package intent

import (
	"context"
	"sort"
	"strings"

	"ai-notes-bot/internal/entity"
	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/search"
)

const (
	suggestionNeighbours = 5
	suggestionMinCount   = 2
	suggestionMax        = 3
)

// NoteLister is the part of the note store the suggester reads from.
type NoteLister interface {
	Query(ctx context.Context, filter contract.NoteFilter) ([]entity.Note, error)
}

// Suggester proposes tags for a new note from the tags of similar existing notes.
type Suggester struct {
	notes  NoteLister
	engine *search.Engine
	logger logger.ILogger
}

func NewSuggester(notes NoteLister, engine *search.Engine, log logger.ILogger) *Suggester {
	return &Suggester{notes: notes, engine: engine, logger: log}
}

func (s *Suggester) Suggest(ctx context.Context, body string) ([]string, error) {
	candidates, err := s.notes.Query(ctx, contract.NoteFilter{})
	if err != nil {
		return nil, err
	}

	res := s.engine.Search(candidates, body)
	return AggregateTags(res.Top(suggestionNeighbours)), nil
}

// Enrich attaches suggestions to a SaveNote. A failing lookup only means no
// suggestions. Tags the note already carries stay in the list.
func (s *Suggester) Enrich(ctx context.Context, save SaveNote) SaveNote {
	suggested, err := s.Suggest(ctx, save.Body)
	if err != nil {
		s.logger.Warn("Intent", "Tag suggestion failed, saving without suggestions", map[string]interface{}{
			"error": err.Error(),
		})
		return save
	}

	if len(suggested) > 0 {
		save.SuggestedTags = suggested
	}
	return save
}

// AggregateTags counts each tag once per note and keeps those seen on at least
// two notes, most frequent first, ties in first-seen order, at most three.
func AggregateTags(notes []search.ScoredNote) []string {
	type tally struct {
		name  string
		count int
		first int
	}

	byKey := map[string]*tally{}
	order := 0
	for _, n := range notes {
		seen := map[string]struct{}{}
		for _, tag := range n.Tags {
			tag = strings.TrimSpace(tag)
			key := strings.ToLower(tag)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			if t, ok := byKey[key]; ok {
				t.count++
				continue
			}
			byKey[key] = &tally{name: tag, count: 1, first: order}
			order++
		}
	}

	kept := make([]*tally, 0, len(byKey))
	for _, t := range byKey {
		if t.count >= suggestionMinCount {
			kept = append(kept, t)
		}
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].count != kept[j].count {
			return kept[i].count > kept[j].count
		}
		return kept[i].first < kept[j].first
	})

	if len(kept) > suggestionMax {
		kept = kept[:suggestionMax]
	}

	out := make([]string, 0, len(kept))
	for _, t := range kept {
		out = append(out, t.name)
	}
	return out
}
