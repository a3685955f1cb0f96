package service

import (
	"context"
	"time"

	"ai-notes-bot/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

const vocabularyKey = "tag_vocabulary"

// ITagVocabularyService serves the known tag list to the classifier prompt.
type ITagVocabularyService interface {
	Known(ctx context.Context) ([]string, error)
	Invalidate()
}

type tagVocabularyService struct {
	notes contract.NoteRepository
	cache *cache.Cache
}

// NewTagVocabularyService caches the store's vocabulary for ttl. Entries are also
// dropped by Invalidate when a note changes.
func NewTagVocabularyService(notes contract.NoteRepository, ttl time.Duration) ITagVocabularyService {
	return &tagVocabularyService{
		notes: notes,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (s *tagVocabularyService) Known(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(vocabularyKey); ok {
		return append([]string(nil), cached.([]string)...), nil
	}

	tags, err := s.notes.ListTagVocabulary(ctx)
	if err != nil {
		return nil, err
	}

	s.cache.SetDefault(vocabularyKey, append([]string(nil), tags...))
	return tags, nil
}

func (s *tagVocabularyService) Invalidate() {
	s.cache.Delete(vocabularyKey)
}
