package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Store    StoreConfig
	Context  ContextConfig
	Ai       AIConfig
	Telegram TelegramConfig
	Dialogue DialogueConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	TrafficLogFilePath string
	CorsAllowedOrigins string
	JWTSecret          string
	NatsURL            string
	RedisURL           string
	OtelEndpoint       string
	CallTimeout        time.Duration
}

type StoreConfig struct {
	Driver     string // "postgres", "notion" or "sqlite"
	Connection string
	SQLitePath string
	Notion     NotionConfig
}

type NotionConfig struct {
	Token        string
	DatabaseID   string
	TitleProp    string
	BodyProp     string
	TagsProp     string
	MaxRetries   int
	QueryPageCap int
}

type ContextConfig struct {
	Backend         string // "memory" or "redis"
	TTL             time.Duration
	CleanupInterval time.Duration
}

type AIConfig struct {
	LLMProvider   string // "ollama" or "openai"
	LLMModel      string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
}

type TelegramConfig struct {
	Token         string
	WebhookURL    string
	WebhookSecret string
	Debug         bool
}

type DialogueConfig struct {
	AlwaysOfferCorrection bool
	DisplayLimit          int
	RecentLimit           int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			TrafficLogFilePath: getEnv("TRAFFIC_LOG_FILE_PATH", "logs/traffic.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			OtelEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			CallTimeout:        getEnvAsDuration("CALL_TIMEOUT", 20*time.Second),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(getEnv("NOTE_STORE", "sqlite")),
			Connection: getEnv("DB_CONNECTION_STRING", ""),
			SQLitePath: getEnv("SQLITE_PATH", "notes.db"),
			Notion: NotionConfig{
				Token:        getEnv("NOTION_TOKEN", ""),
				DatabaseID:   getEnv("NOTION_DATABASE_ID", ""),
				TitleProp:    getEnv("NOTION_TITLE_PROPERTY", "Nombre"),
				BodyProp:     getEnv("NOTION_BODY_PROPERTY", "Contenido"),
				TagsProp:     getEnv("NOTION_TAGS_PROPERTY", "Etiquetas"),
				MaxRetries:   getEnvAsInt("NOTION_MAX_RETRIES", 3),
				QueryPageCap: getEnvAsInt("NOTION_QUERY_PAGE_CAP", 10),
			},
		},
		Context: ContextConfig{
			Backend:         strings.ToLower(getEnv("CONTEXT_BACKEND", "memory")),
			TTL:             getEnvAsDuration("CONTEXT_TTL", 24*time.Hour),
			CleanupInterval: getEnvAsDuration("CONTEXT_CLEANUP_INTERVAL", time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:   getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:      getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
			OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		},
		Telegram: TelegramConfig{
			Token:         getEnv("TELEGRAM_BOT_TOKEN", ""),
			WebhookURL:    getEnv("TELEGRAM_WEBHOOK_URL", ""),
			WebhookSecret: getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
			Debug:         getEnvAsBool("TELEGRAM_DEBUG", false),
		},
		Dialogue: DialogueConfig{
			AlwaysOfferCorrection: getEnvAsBool("ALWAYS_OFFER_CORRECTION", true),
			DisplayLimit:          getEnvAsInt("SEARCH_DISPLAY_LIMIT", 5),
			RecentLimit:           getEnvAsInt("RECENT_NOTES_LIMIT", 5),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil && value > 0 {
		return value
	}
	return fallback
}
