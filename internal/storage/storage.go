package storage

import (
	"context"
	"errors"
	"time"

	"homeDesignAi/internal/design"
	"homeDesignAi/internal/vision"
)

// ErrNotFound indicates that a session could not be located or has expired.
var ErrNotFound = errors.New("session not found")

// Level classifies a user-facing status message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Message is one status line shown after a submission.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Session is the per-visitor state of the form page. Request and
// ImageSource hold the last submitted form so it can be shown again; Style
// is the style of the current Document.
type Session struct {
	ID          string           `json:"id"`
	Request     design.Request   `json:"request"`
	ImageSource vision.Mode      `json:"image_source,omitempty"`
	Style       string           `json:"style,omitempty"`
	Document    design.Document  `json:"document"`
	Image       vision.Reference `json:"image,omitempty"`
	Messages    []Message        `json:"messages,omitempty"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Reset drops the previous result ahead of a new generation run.
func (s *Session) Reset(style string) {
	s.Style = style
	s.Document = design.Document{}
	s.Image = ""
	s.Messages = nil
}

// HasDocument reports whether a plan is available for display and download.
func (s Session) HasDocument() bool {
	return !s.Document.Empty()
}

// AddMessage appends a status line.
func (s *Session) AddMessage(level Level, text string) {
	s.Messages = append(s.Messages, Message{Level: level, Text: text})
}

// Store persists sessions between requests.
type Store interface {
	Get(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, session Session) (Session, error)
	Delete(ctx context.Context, id string) error
	Close()
}
