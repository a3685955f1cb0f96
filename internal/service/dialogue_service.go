package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"ai-notes-bot/internal/channel"
	"ai-notes-bot/internal/config"
	"ai-notes-bot/internal/mapper"
	"ai-notes-bot/internal/metrics"
	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/pkg/conversation"
	"ai-notes-bot/pkg/events"
	"ai-notes-bot/pkg/intent"
	"ai-notes-bot/pkg/reply"
	"ai-notes-bot/pkg/search"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// greetingTokens end a pending tag correction when the user moves on.
var greetingTokens = map[string]struct{}{
	"hola": {}, "buenas": {}, "buenos": {}, "gracias": {}, "saludos": {},
	"hello": {}, "hi": {}, "hey": {}, "thanks": {},
}

// EventPublisher sends domain events to an external bus. Nil disables it.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type IDialogueService interface {
	channel.Handler
}

type dialogueService struct {
	notes         contract.NoteRepository
	conversations contract.ConversationRepository
	classifier    IClassifierService
	suggester     *intent.Suggester
	engine        *search.Engine
	manager       *conversation.Manager
	publisher     IPublisherService
	events        EventPublisher
	metrics       metrics.Recorder
	tracer        trace.Tracer
	cfg           config.DialogueConfig
	callTimeout   time.Duration
	logger        logger.ILogger
	now           func() time.Time
}

// stepError names the external operation a turn failed on.
type stepError struct {
	op  string
	err error
}

func (e *stepError) Error() string { return e.op + ": " + e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func failed(op string, err error) error {
	return &stepError{op: op, err: err}
}

func NewDialogueService(
	notes contract.NoteRepository,
	conversations contract.ConversationRepository,
	classifier IClassifierService,
	suggester *intent.Suggester,
	engine *search.Engine,
	publisher IPublisherService,
	eventPublisher EventPublisher,
	recorder metrics.Recorder,
	cfg config.DialogueConfig,
	callTimeout time.Duration,
	log logger.ILogger,
) IDialogueService {
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}
	return &dialogueService{
		notes:         NewTimedNoteRepository(notes, callTimeout),
		conversations: conversations,
		classifier:    classifier,
		suggester:     suggester,
		engine:        engine,
		manager:       conversation.NewManager(log),
		publisher:     publisher,
		events:        eventPublisher,
		metrics:       recorder,
		tracer:        otel.Tracer("ai-notes-bot/dialogue"),
		cfg:           cfg,
		callTimeout:   callTimeout,
		logger:        log,
		now:           time.Now,
	}
}

// HandleMessage runs one turn. It never panics and never returns an error: every
// failure ends in the apology reply and leaves the stored context untouched.
func (s *dialogueService) HandleMessage(ctx context.Context, sender channel.Sender, msg channel.InboundMessage) {
	ctx, span := s.tracer.Start(ctx, "dialogue.HandleMessage",
		trace.WithAttributes(attribute.String("conversation.id", msg.ConversationID)))
	defer span.End()

	start := s.now()
	kind := "unresolved"
	success := true
	defer func() {
		s.metrics.RecordTurn(kind, time.Since(start), success)
	}()

	defer func() {
		if r := recover(); r != nil {
			success = false
			s.fail(ctx, span, sender, msg.ConversationID, failed("panic", fmt.Errorf("%v", r)))
			s.logger.Error("Dialogue", "Recovered panic", map[string]interface{}{
				"conversation_id": msg.ConversationID,
				"stack":           string(debug.Stack()),
			})
		}
	}()

	working := s.conversations.Get(ctx, msg.ConversationID)

	text, resolved, err := s.turn(ctx, msg, &working)
	if resolved != "" {
		kind = string(resolved)
		span.SetAttributes(attribute.String("intent.kind", kind))
	}
	if err != nil {
		success = false
		s.fail(ctx, span, sender, msg.ConversationID, err)
		return
	}

	s.conversations.Put(ctx, msg.ConversationID, working)
	span.SetAttributes(attribute.String("conversation.state", string(working.State())))
	s.send(ctx, sender, msg.ConversationID, text)
}

func (s *dialogueService) turn(ctx context.Context, msg channel.InboundMessage, c *conversation.Context) (string, intent.Kind, error) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return intent.HelpReply, intent.KindConversation, nil
	}

	if c.State() == conversation.StateAwaitingCorrection {
		if correction, ok := intent.ParseTagCorrection(text, c.LastNote.Title); ok {
			return s.applyCorrection(ctx, msg.ConversationID, c, correction), intent.KindTagCorrection, nil
		}
	}

	in, err := s.resolve(ctx, text)
	if err != nil {
		return "", "", err
	}

	switch v := in.(type) {
	case intent.SaveNote:
		out, err := s.saveNote(ctx, msg.ConversationID, c, v)
		return out, v.Kind(), err

	case intent.Query:
		out, err := s.query(ctx, c, v)
		return out, v.Kind(), err

	case intent.TagCorrection:
		if c.State() != conversation.StateAwaitingCorrection {
			return reply.NothingToCorrect, v.Kind(), nil
		}
		if v.NoteTitle == "" {
			v.NoteTitle = c.LastNote.Title
		}
		return s.applyCorrection(ctx, msg.ConversationID, c, v), v.Kind(), nil

	case intent.Conversation:
		if c.State() == conversation.StateAwaitingCorrection && containsGreeting(text) {
			s.manager.TransitionToIdle(c)
		}
		return v.Reply, v.Kind(), nil

	case intent.Unclear:
		return v.ClarifyingQuestion, v.Kind(), nil
	}

	return "", "", failed("classify", fmt.Errorf("unhandled intent %T", in))
}

func (s *dialogueService) resolve(ctx context.Context, text string) (intent.Intent, error) {
	if cmd, ok := intent.ParseCommand(text); ok {
		return cmd, nil
	}

	in, err := callWithTimeout(ctx, s.callTimeout, func(ctx context.Context) (intent.Intent, error) {
		return s.classifier.Classify(ctx, text)
	})
	if err != nil {
		return nil, failed("classify", err)
	}
	return in, nil
}

func (s *dialogueService) saveNote(ctx context.Context, conversationID string, c *conversation.Context, save intent.SaveNote) (string, error) {
	if s.suggester != nil {
		save = s.suggester.Enrich(ctx, save)
	}

	tags := mapper.CleanTags(save.Tags)
	id, err := s.notes.Create(ctx, save.Title, save.Body, tags)
	if err != nil {
		return "", failed("store.create", err)
	}

	offer := len(save.SuggestedTags) > 0 || s.cfg.AlwaysOfferCorrection
	if offer {
		s.manager.TransitionToAwaitingCorrection(c, conversation.NoteRef{ID: id, Title: save.Title, Tags: tags})
	} else {
		s.manager.TransitionToIdle(c)
	}

	s.logger.Info("Dialogue", "Note saved", map[string]interface{}{
		"conversation_id": conversationID,
		"note_id":         id,
		"tags":            tags,
		"suggested":       save.SuggestedTags,
	})
	s.noteChanged(ctx, id, tags, events.NoteSaved(conversationID, id, save.Title, tags, s.now()))

	return reply.NoteSaved(save.Title, tags, save.SuggestedTags, offer), nil
}

// applyCorrection always leaves the conversation idle. A store failure only
// changes the wording of the reply.
func (s *dialogueService) applyCorrection(ctx context.Context, conversationID string, c *conversation.Context, correction intent.TagCorrection) string {
	note := *c.LastNote
	title := correction.NoteTitle
	if title == "" {
		title = note.Title
	}
	tags := mapper.CleanTags(correction.NewTags)

	err := s.notes.UpdateTags(ctx, note.ID, tags)
	s.manager.TransitionToIdle(c)

	if err != nil {
		s.logger.Warn("Dialogue", "Tag correction failed", map[string]interface{}{
			"conversation_id": conversationID,
			"operation":       "store.update_tags",
			"note_id":         note.ID,
			"error":           err.Error(),
		})
		s.metrics.RecordFailure("store.update_tags")
		return reply.TagsUpdateFailed(title)
	}

	s.noteChanged(ctx, note.ID, tags, events.NoteTagsCorrected(conversationID, note.ID, tags, s.now()))
	return reply.TagsUpdated(title, tags)
}

func (s *dialogueService) query(ctx context.Context, c *conversation.Context, q intent.Query) (string, error) {
	switch q.QueryType {
	case intent.QueryByKeyword:
		candidates, err := s.notes.Query(ctx, contract.NoteFilter{})
		if err != nil {
			return "", failed("store.query", err)
		}
		res := s.engine.Search(candidates, q.Parameter)
		s.metrics.RecordSearch(res.Tier.String())
		s.manager.RecordQuery(c, q.Parameter)
		return reply.SearchResults(q.Parameter, res, s.cfg.DisplayLimit), nil

	case intent.QueryByTag:
		notes, err := s.notes.Query(ctx, contract.NoteFilter{Tag: q.Parameter})
		if err != nil {
			return "", failed("store.query", err)
		}
		s.manager.RecordQuery(c, q.Parameter)
		return reply.NotesByTag(q.Parameter, notes, s.cfg.DisplayLimit), nil

	case intent.QueryRecent:
		notes, err := s.notes.Query(ctx, contract.NoteFilter{Limit: s.cfg.RecentLimit})
		if err != nil {
			return "", failed("store.query", err)
		}
		return reply.RecentNotes(notes, s.cfg.RecentLimit), nil

	case intent.QueryCount:
		counts, err := s.notes.ListTagCounts(ctx)
		if err != nil {
			return "", failed("store.list_tag_counts", err)
		}
		total := 0
		if q.Parameter == "" {
			all, err := s.notes.Query(ctx, contract.NoteFilter{})
			if err != nil {
				return "", failed("store.query", err)
			}
			total = len(all)
		}
		return reply.TagCounts(total, counts, q.Parameter), nil
	}

	return "", failed("classify", fmt.Errorf("unknown query type %q", q.QueryType))
}

// noteChanged announces a saved or retagged note. Publishing is best effort.
func (s *dialogueService) noteChanged(ctx context.Context, noteID string, tags []string, event events.Event) {
	if s.publisher != nil {
		payload, _ := json.Marshal(NoteChangedMessage{NoteId: noteID, Tags: tags})
		if err := s.publisher.Publish(ctx, payload); err != nil {
			s.logger.Warn("Dialogue", "Failed to publish note change", map[string]interface{}{
				"note_id": noteID,
				"error":   err.Error(),
			})
		}
	}

	if s.events != nil {
		if err := s.events.Publish(ctx, event); err != nil {
			s.logger.Warn("Dialogue", "Failed to publish event", map[string]interface{}{
				"event": event.EventType(),
				"error": err.Error(),
			})
		}
	}
}

func (s *dialogueService) fail(ctx context.Context, span trace.Span, sender channel.Sender, conversationID string, err error) {
	op := "unknown"
	var se *stepError
	if errors.As(err, &se) {
		op = se.op
	}

	s.logger.Error("Dialogue", "Turn failed", map[string]interface{}{
		"conversation_id": conversationID,
		"operation":       op,
		"timeout":         errors.Is(err, ErrCallTimeout),
		"error":           err.Error(),
	})
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	s.metrics.RecordFailure(op)

	s.send(ctx, sender, conversationID, reply.Apology)
}

func (s *dialogueService) send(ctx context.Context, sender channel.Sender, conversationID, text string) {
	if err := sender.Send(ctx, conversationID, text); err != nil {
		s.logger.Error("Dialogue", "Failed to send reply", map[string]interface{}{
			"conversation_id": conversationID,
			"error":           err.Error(),
		})
		s.metrics.RecordSendFailure(transportOf(conversationID))
	}
}

func transportOf(conversationID string) string {
	if i := strings.Index(conversationID, ":"); i > 0 {
		return conversationID[:i]
	}
	return "unknown"
}

func containsGreeting(text string) bool {
	for _, w := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != 'ñ'
	}) {
		if _, ok := greetingTokens[w]; ok {
			return true
		}
	}
	return false
}
