package service

import (
	"context"
	"fmt"
	"strings"

	"ai-notes-bot/internal/constant"
	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/pkg/intent"
	"ai-notes-bot/pkg/llm"
)

// classifierTemperature keeps classification close to deterministic.
const classifierTemperature = 0.1

type IClassifierService interface {
	Classify(ctx context.Context, text string) (intent.Intent, error)
}

type classifierService struct {
	llm        llm.LLMProvider
	vocabulary ITagVocabularyService
	resolver   *intent.Resolver
	logger     logger.ILogger
}

func NewClassifierService(
	llmProvider llm.LLMProvider,
	vocabulary ITagVocabularyService,
	resolver *intent.Resolver,
	log logger.ILogger,
) IClassifierService {
	return &classifierService{
		llm:        llmProvider,
		vocabulary: vocabulary,
		resolver:   resolver,
		logger:     log,
	}
}

// Classify asks the model what the user wants. Only an unreachable vocabulary or
// model is an error; an unreadable answer already resolves to a Conversation.
func (s *classifierService) Classify(ctx context.Context, text string) (intent.Intent, error) {
	known, err := s.vocabulary.Known(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tag vocabulary: %w", err)
	}

	prompt := BuildClassifierPrompt(known, text)
	raw, err := s.llm.Generate(ctx, prompt,
		llm.WithTemperature(classifierTemperature),
		llm.WithJSONOutput(),
	)
	if err != nil {
		return nil, fmt.Errorf("classify message: %w", err)
	}

	s.logger.Debug("Classifier", "Raw classification", map[string]interface{}{
		"known_tags": len(known),
		"response":   raw,
	})

	return s.resolver.Resolve(raw, text), nil
}

func BuildClassifierPrompt(known []string, text string) string {
	tags := constant.NoKnownTags
	if len(known) > 0 {
		tags = strings.Join(known, ", ")
	}
	return fmt.Sprintf(constant.ClassifierPromptV1, tags, text)
}
