package factory

import (
	"fmt"
	"strings"

	"ai-notes-bot/pkg/llm"
	"ai-notes-bot/pkg/llm/ollama"
	"ai-notes-bot/pkg/llm/openai"
)

type ProviderConfig struct {
	Provider      string
	Model         string
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
}

func NewLLMProvider(cfg ProviderConfig) (llm.LLMProvider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		baseURL := cfg.OllamaBaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "openai":
		if cfg.OpenAIAPIKey == "" && cfg.OpenAIBaseURL == "" {
			return nil, fmt.Errorf("openai provider needs OPENAI_API_KEY or OPENAI_BASE_URL")
		}
		return openai.NewProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
