package openai

import (
	"context"
	"errors"
	"fmt"

	"ai-notes-bot/pkg/llm"

	goopenai "github.com/sashabaranov/go-openai"
)

// Provider talks to OpenAI or any OpenAI-compatible endpoint.
type Provider struct {
	client    *goopenai.Client
	modelName string
}

var _ llm.LLMProvider = &Provider{}

func NewProvider(apiKey, baseURL, modelName string) *Provider {
	config := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &Provider{
		client:    goopenai.NewClientWithConfig(config),
		modelName: modelName,
	}
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.ApplyOptions(opts...)

	model := p.modelName
	if options.Model != "" {
		model = options.Model
	}

	req := goopenai.ChatCompletionRequest{
		Model:       model,
		Temperature: float32(options.Temperature),
		MaxTokens:   options.MaxTokens,
		Messages:    convertMessages(history),
	}
	if options.JSONOutput {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from LLM")
	}

	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: goopenai.ChatMessageRoleUser, Content: prompt}}, opts...)
}

func convertMessages(history []llm.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(history))
	for _, m := range history {
		role := m.Role
		switch role {
		case "model":
			role = goopenai.ChatMessageRoleAssistant
		case "":
			role = goopenai.ChatMessageRoleUser
		}
		out = append(out, goopenai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return out
}
