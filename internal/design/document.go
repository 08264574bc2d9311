package design

// Source records where a Document came from.
type Source string

const (
	SourceAPI         Source = "api"
	SourceCache       Source = "cache"
	SourceFallback    Source = "fallback"
	SourceUnavailable Source = "unavailable"
)

// UnavailableText is returned when the model answers without any usable text.
const UnavailableText = "Unable to generate design. Please try again."

// Document is a generated design plan in markdown.
type Document struct {
	Markdown string `json:"markdown"`
	Source   Source `json:"source"`
}

// Empty reports whether the document carries no text.
func (d Document) Empty() bool {
	return d.Markdown == ""
}
