package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client chatCompleter
	model  string
}

// NewOpenAIClient constructs a client using the provided API key and default
// model. baseURL is optional.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	c := &OpenAIClient{model: normalizeModel(model)}
	if strings.TrimSpace(apiKey) == "" {
		return c
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	c.client = openai.NewClientWithConfig(cfg)
	return c
}

// Model returns the default model name.
func (c *OpenAIClient) Model() string {
	return c.model
}

// Generate sends chat messages and returns the first choice. TopK has no
// equivalent in the chat completions API and is ignored.
func (c *OpenAIClient) Generate(ctx context.Context, messages []ChatMessage, sampling Sampling) (Completion, error) {
	if c.client == nil {
		return Completion{}, ErrMissingAPIKey
	}

	req := openai.ChatCompletionRequest{
		Model:       resolveModel(ctx, c.model),
		Temperature: float32(sampling.Temperature),
		TopP:        float32(sampling.TopP),
		MaxTokens:   sampling.MaxOutputTokens,
	}
	for _, msg := range messages {
		role := strings.ToLower(strings.TrimSpace(msg.Role))
		switch role {
		case openai.ChatMessageRoleSystem, openai.ChatMessageRoleAssistant:
		case "model":
			role = openai.ChatMessageRoleAssistant
		default:
			role = openai.ChatMessageRoleUser
		}
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: role, Content: msg.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Completion{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Completion{}, nil
	}
	return Completion{Text: resp.Choices[0].Message.Content}, nil
}
