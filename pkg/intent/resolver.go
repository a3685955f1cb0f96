package intent

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-notes-bot/internal/mapper"
	"ai-notes-bot/internal/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// ReformulateReply is what the user sees when the classifier output cannot be used.
const ReformulateReply = "No estoy seguro de haberte entendido. ¿Podrías reformularlo? " +
	"Por ejemplo: \"guarda una nota: ...\" o \"busca mis notas sobre ...\"."

// classification is the JSON shape the classifier is asked to produce.
type classification struct {
	Type      string   `json:"type" validate:"required,oneof=save_note query conversation unclear tag_correction"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	QueryType string   `json:"query_type"`
	Parameter string   `json:"parameter"`
	Reply     string   `json:"reply"`
	Question  string   `json:"question"`
	NewTags   []string `json:"new_tags"`
}

// Resolver turns raw classifier output into a validated Intent.
type Resolver struct {
	validate *validator.Validate
	logger   logger.ILogger
}

func NewResolver(log logger.ILogger) *Resolver {
	return &Resolver{
		validate: validator.New(),
		logger:   log,
	}
}

// Resolve never fails: anything it cannot parse or validate becomes a
// Conversation asking the user to rephrase.
func (r *Resolver) Resolve(raw, userText string) Intent {
	it, err := r.parse(raw, userText)
	if err != nil {
		r.logger.Warn("Intent", "Unusable classification, asking user to rephrase", map[string]interface{}{
			"error": err.Error(),
			"raw":   truncate(raw, 500),
		})
		return Conversation{Reply: ReformulateReply}
	}
	return it
}

func (r *Resolver) parse(raw, userText string) (Intent, error) {
	jsonContent := extractJSON(stripCodeFence(raw))
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var c classification
	if err := json.Unmarshal([]byte(jsonContent), &c); err != nil {
		return nil, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	if err := r.validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid classification: %w", err)
	}

	switch c.Type {
	case string(KindSaveNote):
		title := strings.TrimSpace(c.Title)
		if err := r.validate.Var(title, "required"); err != nil {
			return nil, fmt.Errorf("save_note without title: %w", err)
		}
		body := strings.TrimSpace(c.Body)
		if body == "" {
			body = strings.TrimSpace(userText)
		}
		return SaveNote{Title: title, Body: body, Tags: mapper.CleanTags(c.Tags)}, nil

	case string(KindQuery):
		qt := strings.ToLower(strings.TrimSpace(c.QueryType))
		if err := r.validate.Var(qt, "required,oneof=by_tag by_keyword recent count"); err != nil {
			return nil, fmt.Errorf("bad query_type %q: %w", c.QueryType, err)
		}
		param := strings.TrimSpace(c.Parameter)
		if qt == string(QueryByTag) || qt == string(QueryByKeyword) {
			if err := r.validate.Var(param, "required"); err != nil {
				return nil, fmt.Errorf("%s query without parameter: %w", qt, err)
			}
		}
		return Query{QueryType: QueryType(qt), Parameter: param}, nil

	case string(KindConversation):
		reply := strings.TrimSpace(c.Reply)
		if err := r.validate.Var(reply, "required"); err != nil {
			return nil, fmt.Errorf("conversation without reply: %w", err)
		}
		return Conversation{Reply: reply}, nil

	case string(KindUnclear):
		question := strings.TrimSpace(c.Question)
		if err := r.validate.Var(question, "required"); err != nil {
			return nil, fmt.Errorf("unclear without question: %w", err)
		}
		return Unclear{ClarifyingQuestion: question}, nil

	case string(KindTagCorrection):
		tags := mapper.CleanTags(c.NewTags)
		if err := r.validate.Var(tags, "min=1"); err != nil {
			return nil, fmt.Errorf("tag_correction without tags: %w", err)
		}
		return TagCorrection{NewTags: tags}, nil
	}

	return nil, fmt.Errorf("unknown type %q", c.Type)
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.Index(s, "\n"); nl != -1 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
