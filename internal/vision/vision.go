package vision

import (
	"context"
	"strings"
)

// Reference points at an inspiration image: an http(s) URL, a /media path or
// a data: URI. The empty Reference means no image.
type Reference string

// Empty reports whether no image is available.
func (r Reference) Empty() bool {
	return strings.TrimSpace(string(r)) == ""
}

// Mode selects which image client a submission uses.
type Mode string

const (
	ModeGenerate Mode = "generate"
	ModeSearch   Mode = "search"
)

// ParseMode maps form values onto a Mode, defaulting to generation.
func ParseMode(value string) Mode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(ModeSearch), "lexica":
		return ModeSearch
	default:
		return ModeGenerate
	}
}

// Renderer produces a new image from the design parameters.
type Renderer interface {
	Render(ctx context.Context, style, size, rooms string) Reference
}

// Searcher looks up an existing image for a style.
type Searcher interface {
	Search(ctx context.Context, style string) Reference
}
