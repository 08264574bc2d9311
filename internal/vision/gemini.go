package vision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"homeDesignAi/internal/cache"
	"homeDesignAi/internal/media"
	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/prompts"
)

const defaultGeminiImageModel = "gemini-2.5-flash-image"

var errNoInlineImage = errors.New("gemini: response carried no image data")

type imageModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiRenderer produces inspiration images with a Gemini image model.
type GeminiRenderer struct {
	models   imageModels
	model    string
	timeout  time.Duration
	memo     *cache.Memo[string]
	uploader media.Uploader
}

// GeminiRendererConfig configures NewGeminiRenderer.
type GeminiRendererConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewGeminiRenderer wires a renderer. Without an API key it is built but
// disabled, and Render reports no image.
func NewGeminiRenderer(ctx context.Context, cfg GeminiRendererConfig, memo *cache.Memo[string], uploader media.Uploader) (*GeminiRenderer, error) {
	model := strings.TrimPrefix(strings.TrimSpace(cfg.Model), "models/")
	if model == "" {
		model = defaultGeminiImageModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if uploader == nil {
		uploader = media.Disabled()
	}
	r := &GeminiRenderer{model: model, timeout: timeout, memo: memo, uploader: uploader}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return r, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini image client: %w", err)
	}
	r.models = client.Models
	return r, nil
}

// Enabled reports whether an API key was configured.
func (g *GeminiRenderer) Enabled() bool {
	return g != nil && g.models != nil
}

// Render returns an image for the design or the empty Reference on any failure.
func (g *GeminiRenderer) Render(ctx context.Context, style, size, rooms string) Reference {
	if !g.Enabled() {
		log.Error().Msg("gemini image: API key is not set")
		return ""
	}

	key := g.memo.Key(g.model, style, size, rooms)
	if cached, ok := g.memo.Get(ctx, key); ok {
		return Reference(cached)
	}

	start := time.Now()
	ref, err := g.render(ctx, prompts.BuildBlueprintPrompt(style, size, rooms))
	metrics.ObserveExternal("gemini_image", start, err)
	if err != nil {
		log.Error().Err(err).Str("style", style).Msg("gemini image: generation failed")
		return ""
	}

	g.memo.Set(ctx, key, string(ref))
	return ref
}

func (g *GeminiRenderer) render(ctx context.Context, prompt string) (Reference, error) {
	childCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.models.GenerateContent(childCtx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
	)
	if err != nil {
		return "", fmt.Errorf("gemini image: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errNoInlineImage
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		return persist(ctx, g.uploader, "gemini", part.InlineData.Data, part.InlineData.MIMEType), nil
	}
	return "", errNoInlineImage
}
