package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// contentGenerator is the part of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient wraps the Gemini API through the genai SDK.
type GeminiClient struct {
	models  contentGenerator
	model   string
	timeout time.Duration
}

// NewGeminiClient constructs a Gemini client for the desired model. An empty
// apiKey yields a client whose calls fail with ErrMissingAPIKey.
func NewGeminiClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiClient, error) {
	if model = normalizeModel(model); model == "" {
		model = defaultGeminiModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &GeminiClient{model: model, timeout: timeout}
	if strings.TrimSpace(apiKey) == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	c.models = client.Models
	return c, nil
}

// Model returns the default model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Generate sends the conversation to Gemini.
func (c *GeminiClient) Generate(ctx context.Context, messages []ChatMessage, sampling Sampling) (Completion, error) {
	if c.models == nil {
		return Completion{}, ErrMissingAPIKey
	}

	var systemPrompts []string
	var contents []*genai.Content
	for _, msg := range messages {
		switch strings.ToLower(strings.TrimSpace(msg.Role)) {
		case "system":
			systemPrompts = append(systemPrompts, msg.Content)
		case "assistant", "model":
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return Completion{}, fmt.Errorf("gemini: missing user or assistant messages")
	}

	config := geminiConfig(sampling)
	if len(systemPrompts) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(systemPrompts, "\n\n"), genai.RoleUser)
	}

	childCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.models.GenerateContent(childCtx, resolveModel(ctx, c.model), contents, config)
	if err != nil {
		return Completion{}, fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil {
		return Completion{}, fmt.Errorf("gemini: empty response")
	}

	return Completion{
		Text:          resp.Text(),
		CandidateText: firstCandidateText(resp),
	}, nil
}

func geminiConfig(s Sampling) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if s.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(s.Temperature))
	}
	if s.TopP > 0 {
		config.TopP = genai.Ptr(float32(s.TopP))
	}
	if s.TopK > 0 {
		config.TopK = genai.Ptr(float32(s.TopK))
	}
	if s.MaxOutputTokens > 0 {
		config.MaxOutputTokens = int32(s.MaxOutputTokens)
	}
	return config
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && strings.TrimSpace(part.Text) != "" {
			return part.Text
		}
	}
	return ""
}
