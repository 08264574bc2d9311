package generation

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"homeDesignAi/internal/cache"
	"homeDesignAi/internal/design"
	"homeDesignAi/internal/llm"
	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/prompts"
)

// Generator turns a design request into a markdown plan. Implementations
// absorb provider failures and always return a document.
type Generator interface {
	Generate(ctx context.Context, req design.Request) design.Document
}

// DesignSampling is sent with every plan request.
var DesignSampling = llm.Sampling{
	Temperature:     1,
	TopP:            0.95,
	TopK:            64,
	MaxOutputTokens: 1024,
}

// NewHeuristic returns the template generator used when no model is reachable.
func NewHeuristic() Generator {
	return heuristicGenerator{}
}

type heuristicGenerator struct{}

func (heuristicGenerator) Generate(_ context.Context, req design.Request) design.Document {
	return design.Document{
		Markdown: Fallback(req.Normalize()),
		Source:   design.SourceFallback,
	}
}

// NewLLM wires the generator to a chat model. memo may be nil to disable caching.
func NewLLM(client llm.Client, service, model string, memo *cache.Memo[string]) Generator {
	return &llmGenerator{
		client:   client,
		service:  service,
		model:    model,
		memo:     memo,
		fallback: heuristicGenerator{},
	}
}

type llmGenerator struct {
	client   llm.Client
	service  string
	model    string
	memo     *cache.Memo[string]
	fallback Generator
}

func (g *llmGenerator) Generate(ctx context.Context, req design.Request) design.Document {
	req = req.Normalize()

	model := g.model
	if override := llm.ModelFromContext(ctx); override != "" {
		model = override
	}
	key := g.memo.Key(model, req)
	if text, ok := g.memo.Get(ctx, key); ok {
		log.Debug().Str("style", req.Style).Msg("design plan served from cache")
		return design.Document{Markdown: text, Source: design.SourceCache}
	}

	start := time.Now()
	completion, err := g.client.Generate(ctx, []llm.ChatMessage{
		{Role: "user", Content: prompts.BuildDesignPrompt(req)},
	}, DesignSampling)
	metrics.ObserveExternal(g.service, start, err)
	if err != nil {
		log.Error().Err(err).Str("service", g.service).Str("style", req.Style).Msg("design generation failed, using fallback plan")
		return g.fallback.Generate(ctx, req)
	}

	text := completion.Text
	if strings.TrimSpace(text) == "" {
		text = completion.CandidateText
	}
	if strings.TrimSpace(text) == "" {
		log.Warn().Str("service", g.service).Str("style", req.Style).Msg("model returned no text")
		return design.Document{Markdown: design.UnavailableText, Source: design.SourceUnavailable}
	}

	g.memo.Set(ctx, key, text)
	return design.Document{Markdown: text, Source: design.SourceAPI}
}
