package bootstrap

import (
	"context"
	"fmt"
	"time"

	"ai-notes-bot/internal/channel"
	"ai-notes-bot/internal/channel/telegram"
	"ai-notes-bot/internal/config"
	"ai-notes-bot/internal/metrics"
	"ai-notes-bot/internal/pkg/logger"
	"ai-notes-bot/internal/repository/contract"
	"ai-notes-bot/internal/repository/implementation"
	"ai-notes-bot/internal/repository/memory"
	"ai-notes-bot/internal/repository/notion"
	"ai-notes-bot/internal/repository/redisstore"
	"ai-notes-bot/internal/repository/sqlite"
	"ai-notes-bot/internal/service"
	"ai-notes-bot/internal/websocket"
	"ai-notes-bot/pkg/database"
	"ai-notes-bot/pkg/intent"
	"ai-notes-bot/pkg/llm/factory"
	pktNats "ai-notes-bot/pkg/nats"
	"ai-notes-bot/pkg/search"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

// vocabularyTTL bounds staleness when a note changes outside this process.
const vocabularyTTL = 5 * time.Minute

// Transports selects which inbound channels the container builds.
type Transports struct {
	Telegram bool
	Web      bool
}

type Container struct {
	Logger logger.ILogger

	Notes         contract.NoteRepository
	Conversations contract.ConversationRepository
	Dialogue      service.IDialogueService
	Dispatcher    *channel.Dispatcher
	Metrics       *metrics.PrometheusExporter

	// Background Services (started by the serve command)
	ConsumerService service.IConsumerService

	// Transports, nil when not configured
	Telegram     *telegram.Channel
	WebSocketHub *websocket.Hub

	closers []func()
}

func NewContainer(ctx context.Context, cfg *config.Config, sysLogger logger.ILogger, transports Transports) (*Container, error) {
	c := &Container{Logger: sysLogger}

	// 1. Note store
	notes, err := c.newNoteRepository(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Notes = notes
	timedNotes := service.NewTimedNoteRepository(notes, cfg.App.CallTimeout)

	// 2. Redis, only when something needs it
	var rdb *redis.Client
	if cfg.Context.Backend == "redis" || transports.Web {
		rdb = c.newRedis(ctx, cfg.App.RedisURL)
	}

	// 3. Conversation context store
	if cfg.Context.Backend == "redis" && rdb != nil {
		c.Conversations = redisstore.NewConversationRepository(rdb, cfg.Context.TTL, sysLogger)
	} else {
		c.Conversations = memory.NewConversationRepository(cfg.Context.TTL, cfg.Context.CleanupInterval)
	}

	// 4. Event Bus
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	var natsPub service.EventPublisher
	if cfg.App.NatsURL != "" {
		pub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
		if err != nil {
			sysLogger.Warn("Container", "Failed to connect to NATS Publisher, events disabled", map[string]interface{}{"error": err.Error()})
		} else {
			natsPub = pub
			c.closers = append(c.closers, pub.Close)
		}
	}

	// 5. Classification
	llmProvider, err := factory.NewLLMProvider(factory.ProviderConfig{
		Provider:      cfg.Ai.LLMProvider,
		Model:         cfg.Ai.LLMModel,
		OllamaBaseURL: cfg.Ai.OllamaBaseURL,
		OpenAIBaseURL: cfg.Ai.OpenAIBaseURL,
		OpenAIAPIKey:  cfg.Ai.OpenAIAPIKey,
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	sysLogger.Info("Container", "LLM provider ready", map[string]interface{}{"provider": cfg.Ai.LLMProvider, "model": cfg.Ai.LLMModel})

	vocabulary := service.NewTagVocabularyService(timedNotes, vocabularyTTL)
	classifier := service.NewClassifierService(llmProvider, vocabulary, intent.NewResolver(sysLogger), sysLogger)

	// 6. Services
	engine := search.NewEngine()
	c.Metrics = metrics.NewPrometheusExporter()
	c.ConsumerService = service.NewConsumerService(pubSub, service.NoteChangedTopic, vocabulary, sysLogger)
	c.Dialogue = service.NewDialogueService(
		notes,
		c.Conversations,
		classifier,
		intent.NewSuggester(timedNotes, engine, sysLogger),
		engine,
		service.NewPublisherService(service.NoteChangedTopic, pubSub),
		natsPub,
		c.Metrics,
		cfg.Dialogue,
		cfg.App.CallTimeout,
		sysLogger,
	)
	c.Dispatcher = channel.NewDispatcher(c.Dialogue)

	// 7. Transports
	if transports.Telegram && cfg.Telegram.Token != "" {
		traffic := logger.NewIsolatedLogger(cfg.App.TrafficLogFilePath)
		tg, err := telegram.New(cfg.Telegram.Token, cfg.Telegram.WebhookSecret, cfg.Telegram.Debug, c.Dispatcher, sysLogger, traffic)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Telegram = tg
		c.closers = append(c.closers, func() { _ = traffic.Sync() })
	}

	if transports.Web && cfg.App.JWTSecret != "" {
		c.WebSocketHub = websocket.NewHub(rdb, c.Dispatcher, sysLogger)
	}

	return c, nil
}

func (c *Container) newNoteRepository(ctx context.Context, cfg *config.Config) (contract.NoteRepository, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Store.Connection, !cfg.IsProduction())
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		if sqlDB, err := db.DB(); err == nil {
			c.closers = append(c.closers, func() { _ = sqlDB.Close() })
		}
		return implementation.NewNoteRepository(db), nil

	case "notion":
		n := cfg.Store.Notion
		return notion.NewNoteRepository(n.Token, n.DatabaseID, notion.Schema{
			TitleProp: n.TitleProp,
			BodyProp:  n.BodyProp,
			TagsProp:  n.TagsProp,
		}, n.MaxRetries, n.QueryPageCap)

	case "sqlite", "":
		db, err := database.NewSQLiteDB(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		return sqlite.NewNoteRepository(db), nil
	}

	return nil, fmt.Errorf("unknown NOTE_STORE %q (want postgres, notion or sqlite)", cfg.Store.Driver)
}

func (c *Container) newRedis(ctx context.Context, url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		c.Logger.Warn("Container", "Failed to parse Redis URL, using it as address", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{Addr: url}
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		c.Logger.Warn("Container", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
		_ = rdb.Close()
		return nil
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })
	return rdb
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
