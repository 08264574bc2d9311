package vision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"homeDesignAi/internal/cache"
	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/prompts"
	"homeDesignAi/internal/retry"
)

const (
	defaultLexicaURL = "https://lexica.art/api/v1/search"
	lexicaLimit      = "10"
)

// LexicaPolicy is the retry schedule for search requests.
var LexicaPolicy = retry.Policy{
	MaxAttempts: 3,
	BaseDelay:   4 * time.Second,
	MaxDelay:    10 * time.Second,
}

type lexicaImage struct {
	ID     string `json:"id"`
	Src    string `json:"src"`
	Prompt string `json:"prompt"`
}

type lexicaResponse struct {
	Images []lexicaImage `json:"images"`
}

// LexicaClient finds existing inspiration images on lexica.art.
type LexicaClient struct {
	baseURL string
	http    *resty.Client
	policy  retry.Policy
	memo    *cache.Memo[string]
}

// NewLexicaClient builds the search client. memo may be nil.
func NewLexicaClient(baseURL string, timeout time.Duration, memo *cache.Memo[string]) *LexicaClient {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = defaultLexicaURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LexicaClient{
		baseURL: baseURL,
		http: resty.New().
			SetHeader("Accept", "application/json").
			SetTimeout(timeout),
		policy: LexicaPolicy,
		memo:   memo,
	}
}

// WithPolicy returns a copy of the client using p for retries.
func (c *LexicaClient) WithPolicy(p retry.Policy) *LexicaClient {
	clone := *c
	clone.policy = p
	return &clone
}

// Search returns the first image for the style or the empty Reference.
func (c *LexicaClient) Search(ctx context.Context, style string) Reference {
	key := c.memo.Key(style)
	if cached, ok := c.memo.Get(ctx, key); ok {
		return Reference(cached)
	}

	query := prompts.SearchQuery(style)
	start := time.Now()
	src, err := retry.Do(ctx, c.policy, "lexica search", func(ctx context.Context) (string, error) {
		return c.search(ctx, query)
	})
	metrics.ObserveExternal("lexica", start, err)
	if err != nil {
		log.Error().Err(err).Str("style", style).Msg("lexica: image search failed")
		return ""
	}
	if src == "" {
		log.Warn().Str("style", style).Msg("lexica: no images found")
		return ""
	}

	c.memo.Set(ctx, key, src)
	return Reference(src)
}

func (c *LexicaClient) search(ctx context.Context, query string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"limit": lexicaLimit,
		}).
		Get(c.baseURL)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", retry.Permanent(err)
		}
		return "", fmt.Errorf("lexica request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("lexica status %d", resp.StatusCode())
	}

	var decoded lexicaResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return "", retry.Permanent(fmt.Errorf("lexica decode response: %w", err))
	}
	if len(decoded.Images) == 0 {
		return "", nil
	}
	return decoded.Images[0].Src, nil
}
