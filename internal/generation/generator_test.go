package generation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeDesignAi/internal/cache"
	"homeDesignAi/internal/design"
	"homeDesignAi/internal/llm"
)

type stubClient struct {
	calls    int
	messages []llm.ChatMessage
	sampling llm.Sampling
	generate func() (llm.Completion, error)
}

func (s *stubClient) Generate(_ context.Context, messages []llm.ChatMessage, sampling llm.Sampling) (llm.Completion, error) {
	s.calls++
	s.messages = messages
	s.sampling = sampling
	return s.generate()
}

func modern() design.Request {
	return design.Request{Style: "Modern", Size: "2000 sq ft", Rooms: "4"}
}

func newMemo() *cache.Memo[string] {
	return cache.NewMemo[string](cache.NewMemoryStore(), "design", time.Hour)
}

func TestGenerateReturnsModelText(t *testing.T) {
	client := &stubClient{generate: func() (llm.Completion, error) {
		return llm.Completion{Text: "# Modern plan"}, nil
	}}
	gen := NewLLM(client, "gemini", "gemini-1.5-flash", newMemo())

	doc := gen.Generate(context.Background(), modern())

	assert.Equal(t, design.Document{Markdown: "# Modern plan", Source: design.SourceAPI}, doc)
	assert.Equal(t, DesignSampling, client.sampling)
	require.Len(t, client.messages, 1)
	assert.Equal(t, "user", client.messages[0].Role)
	assert.Contains(t, client.messages[0].Content, "Style: Modern")
}

func TestGenerateCachesIdenticalRequests(t *testing.T) {
	client := &stubClient{generate: func() (llm.Completion, error) {
		return llm.Completion{Text: "# plan"}, nil
	}}
	gen := NewLLM(client, "gemini", "gemini-1.5-flash", newMemo())
	ctx := context.Background()

	first := gen.Generate(ctx, modern())
	second := gen.Generate(ctx, design.Request{Style: " Modern", Size: "2000 sq ft", Rooms: "4 "})

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, design.SourceAPI, first.Source)
	assert.Equal(t, design.SourceCache, second.Source)
	assert.Equal(t, first.Markdown, second.Markdown)

	other := modern()
	other.Details.Bedrooms = 5
	gen.Generate(ctx, other)
	assert.Equal(t, 2, client.calls)

	gen.Generate(llm.WithModel(ctx, "gemini-2.0-flash"), modern())
	assert.Equal(t, 3, client.calls, "a different model is a different cache entry")
}

func TestGenerateFallsBackOnError(t *testing.T) {
	memo := newMemo()
	client := &stubClient{generate: func() (llm.Completion, error) {
		return llm.Completion{}, errors.New("dial tcp: connection refused")
	}}
	gen := NewLLM(client, "gemini", "gemini-1.5-flash", memo)

	doc := gen.Generate(context.Background(), modern())

	assert.Equal(t, design.SourceFallback, doc.Source)
	assert.Contains(t, doc.Markdown, "Modern")
	assert.Contains(t, doc.Markdown, "2000 sq ft")
	assert.Contains(t, doc.Markdown, "**4** rooms")

	gen.Generate(context.Background(), modern())
	assert.Equal(t, 2, client.calls, "fallback plans are not cached")
}

func TestGenerateUsesCandidateTextThenUnavailable(t *testing.T) {
	client := &stubClient{generate: func() (llm.Completion, error) {
		return llm.Completion{CandidateText: "from candidate"}, nil
	}}
	doc := NewLLM(client, "gemini", "m", nil).Generate(context.Background(), modern())
	assert.Equal(t, design.Document{Markdown: "from candidate", Source: design.SourceAPI}, doc)

	client.generate = func() (llm.Completion, error) { return llm.Completion{Text: "  "}, nil }
	doc = NewLLM(client, "gemini", "m", newMemo()).Generate(context.Background(), modern())
	assert.Equal(t, design.Document{Markdown: design.UnavailableText, Source: design.SourceUnavailable}, doc)
}

func TestFallbackSubstitutesFields(t *testing.T) {
	req := design.Request{
		Style: "Rustic",
		Size:  "Large",
		Rooms: "6",
		Details: design.Details{
			Bedrooms:               4,
			AdditionalRequirements: "Wraparound porch",
			Rooms:                  []design.RoomDetail{{Name: design.RoomKitchen, Size: "220 sq ft"}},
		},
		Preferences: design.Preferences{OutdoorSpace: "Garden", SpecialFeatures: []string{"Library"}, EcoFriendly: true},
	}.Normalize()

	text := Fallback(req)

	assert.Contains(t, text, "**Living Room:** 18ft x 15ft")
	assert.Contains(t, text, "**Kitchen:** 220 sq ft")
	assert.Contains(t, text, "**Master Bedroom:** 14ft x 16ft")
	assert.Contains(t, text, "**Additional Bedrooms:** 3 bedrooms")
	assert.Contains(t, text, "**Bathrooms:** 2 bathrooms")
	assert.Contains(t, text, "large windows (8 total)")
	assert.Contains(t, text, "* Standard (8ft) ceilings throughout")
	assert.Contains(t, text, "* Hardwood flooring")
	assert.Contains(t, text, "* Requested: Garden")
	assert.Contains(t, text, "Wraparound porch\n\n* Library")
	assert.Contains(t, text, "* Timeline: Not specified")
	assert.NotContains(t, text, "%!")
}

func TestHeuristicGenerator(t *testing.T) {
	doc := NewHeuristic().Generate(context.Background(), modern())
	assert.Equal(t, design.SourceFallback, doc.Source)
	assert.Contains(t, doc.Markdown, "**Modern** home")
}
