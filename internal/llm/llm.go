package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned by clients constructed without credentials.
var ErrMissingAPIKey = errors.New("llm: missing API key")

// ChatMessage represents a generic chat turn in the prompt history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Sampling holds the generation parameters sent with a request. Zero values
// are left to the provider default.
type Sampling struct {
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

// Completion is the text a provider returned. Text is the response-level
// accessor; CandidateText is the first part of the first candidate.
type Completion struct {
	Text          string
	CandidateText string
}

// Client defines the behaviour required by the generation package.
type Client interface {
	Generate(ctx context.Context, messages []ChatMessage, sampling Sampling) (Completion, error)
}
