package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"homeDesignAi/internal/cache"
	"homeDesignAi/internal/media"
	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/prompts"
)

const (
	defaultStabilityHost   = "https://api.stability.ai"
	defaultStabilityEngine = "stable-diffusion-v1-6"
	finishReasonSuccess    = "SUCCESS"
)

// StabilityConfig configures the text-to-image client.
type StabilityConfig struct {
	APIKey  string
	Host    string
	Engine  string
	Timeout time.Duration
}

type textPrompt struct {
	Text string `json:"text"`
}

type textToImageRequest struct {
	TextPrompts        []textPrompt `json:"text_prompts"`
	CfgScale           int          `json:"cfg_scale"`
	ClipGuidancePreset string       `json:"clip_guidance_preset"`
	Height             int          `json:"height"`
	Width              int          `json:"width"`
	Samples            int          `json:"samples"`
	Steps              int          `json:"steps"`
}

type artifact struct {
	Base64       string `json:"base64"`
	FinishReason string `json:"finishReason"`
	Seed         int64  `json:"seed"`
}

type textToImageResponse struct {
	Artifacts []artifact `json:"artifacts"`
}

// StabilityClient renders floor-plan style images with Stability AI.
type StabilityClient struct {
	apiKey   string
	engine   string
	http     *resty.Client
	memo     *cache.Memo[string]
	uploader media.Uploader
}

// NewStabilityClient builds the client. memo and uploader may be nil.
func NewStabilityClient(cfg StabilityConfig, memo *cache.Memo[string], uploader media.Uploader) *StabilityClient {
	host := strings.TrimRight(cfg.Host, "/")
	if host == "" {
		host = defaultStabilityHost
	}
	engine := strings.TrimSpace(cfg.Engine)
	if engine == "" {
		engine = defaultStabilityEngine
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if uploader == nil {
		uploader = media.Disabled()
	}

	return &StabilityClient{
		apiKey: strings.TrimSpace(cfg.APIKey),
		engine: engine,
		http: resty.New().
			SetBaseURL(host).
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		memo:     memo,
		uploader: uploader,
	}
}

// Enabled reports whether an API key is configured.
func (c *StabilityClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Render returns an image for the design or the empty Reference on any failure.
func (c *StabilityClient) Render(ctx context.Context, style, size, rooms string) Reference {
	if !c.Enabled() {
		log.Error().Msg("stability: API key is not set")
		return ""
	}

	key := c.memo.Key(c.engine, style, size, rooms)
	if cached, ok := c.memo.Get(ctx, key); ok {
		return Reference(cached)
	}

	start := time.Now()
	ref, err := c.render(ctx, style, size, rooms)
	metrics.ObserveExternal("stability", start, err)
	if err != nil {
		log.Error().Err(err).Str("style", style).Msg("stability: image generation failed")
		return ""
	}
	if ref.Empty() {
		log.Warn().Str("style", style).Msg("stability: no successful image artifact")
		return ""
	}

	c.memo.Set(ctx, key, string(ref))
	return ref
}

func (c *StabilityClient) render(ctx context.Context, style, size, rooms string) (Reference, error) {
	payload := textToImageRequest{
		TextPrompts:        []textPrompt{{Text: prompts.BuildBlueprintPrompt(style, size, rooms)}},
		CfgScale:           7,
		ClipGuidancePreset: "FAST_BLUE",
		Height:             512,
		Width:              512,
		Samples:            1,
		Steps:              30,
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(fmt.Sprintf("/v1/generation/%s/text-to-image", c.engine))
	if err != nil {
		return "", fmt.Errorf("stability request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("stability status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
	}

	var decoded textToImageResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", fmt.Errorf("stability decode response: %w", err)
	}

	for _, a := range decoded.Artifacts {
		if a.FinishReason != finishReasonSuccess || a.Base64 == "" {
			continue
		}
		return c.store(ctx, a.Base64), nil
	}
	return "", nil
}

// store decodes an artifact and hands it to persist. Payloads that do not
// decode are embedded untouched.
func (c *StabilityClient) store(ctx context.Context, payload string) Reference {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		log.Warn().Err(err).Msg("stability: artifact is not valid base64, embedding as-is")
		return Reference("data:image/png;base64," + payload)
	}
	return persist(ctx, c.uploader, "stability", raw, "image/png")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
