package planner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"homeDesignAi/internal/design"
	"homeDesignAi/internal/generation"
	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/storage"
	"homeDesignAi/internal/validation"
	"homeDesignAi/internal/vision"
)

// User-facing status lines.
const (
	MsgCreating         = "Creating your custom home design..."
	MsgPlanReady        = "Home design plan generated!"
	MsgPlanFailed       = "Could not generate design plan. Please try again."
	MsgRendering        = "Generating design inspiration image using AI..."
	MsgRendered         = "AI design inspiration image generated!"
	MsgRenderFailed     = "Could not generate AI image. Please try again."
	MsgSearching        = "Fetching design inspiration image from Lexica.art..."
	MsgFound            = "Design inspiration image fetched!"
	MsgSearchFailed     = "Could not fetch image. Please try again."
	MsgNoImage          = "No image available at this time."
	unexpectedErrPrefix = "An unexpected error occurred: "
)

// Submission is one press of the generate button.
type Submission struct {
	Request     design.Request `json:"request"`
	ImageSource vision.Mode    `json:"image_source"`
}

// Outcome summarises a run. The session holds the same document and image.
type Outcome struct {
	Errors   []string          `json:"errors,omitempty"`
	Document design.Document   `json:"document"`
	Image    vision.Reference  `json:"image,omitempty"`
	Messages []storage.Message `json:"messages"`
}

// Valid reports whether the submission passed validation.
func (o Outcome) Valid() bool {
	return len(o.Errors) == 0
}

// Planner runs validation, plan generation and one image lookup in sequence.
type Planner struct {
	generator generation.Generator
	renderer  vision.Renderer
	searcher  vision.Searcher
	progress  func(sessionID string, msg storage.Message)
}

// New wires the planner. renderer or searcher may be nil, which behaves like
// a client that never finds an image.
func New(generator generation.Generator, renderer vision.Renderer, searcher vision.Searcher) *Planner {
	return &Planner{generator: generator, renderer: renderer, searcher: searcher}
}

// WithProgress registers a callback that sees every status line as it is
// added to a session.
func (p *Planner) WithProgress(fn func(sessionID string, msg storage.Message)) *Planner {
	p.progress = fn
	return p
}

// Run processes sub against sess. Failures are reported through the session
// messages and never returned or propagated as panics.
func (p *Planner) Run(ctx context.Context, sess *storage.Session, sub Submission) (out Outcome) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("session", sess.ID).Msg("design run panicked")
			p.note(sess, storage.LevelError, fmt.Sprintf("%s%v", unexpectedErrPrefix, rec))
			out = snapshot(sess, out.Errors)
		}
	}()

	req := sub.Request.Normalize()
	sess.Request = req
	sess.ImageSource = sub.ImageSource
	if errs := validation.ValidateRequest(req); len(errs) > 0 {
		sess.Messages = nil
		for _, e := range errs {
			p.note(sess, storage.LevelError, e)
		}
		return snapshot(sess, errs)
	}

	sess.Reset(req.Style)
	p.note(sess, storage.LevelInfo, MsgCreating)

	sess.Document = p.generate(ctx, sess, req)
	if sess.Document.Empty() {
		p.note(sess, storage.LevelError, MsgPlanFailed)
		return snapshot(sess, nil)
	}
	p.note(sess, storage.LevelSuccess, MsgPlanReady)

	sess.Image = p.image(ctx, sess, req, sub.ImageSource)
	return snapshot(sess, nil)
}

func (p *Planner) generate(ctx context.Context, sess *storage.Session, req design.Request) (doc design.Document) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Msg("design generation panicked")
			p.note(sess, storage.LevelError, fmt.Sprintf("Error generating design plan: %v", rec))
			doc = design.Document{}
		}
	}()

	doc = p.generator.Generate(ctx, req)
	metrics.GenerationsTotal.WithLabelValues(string(doc.Source)).Inc()
	return doc
}

func (p *Planner) image(ctx context.Context, sess *storage.Session, req design.Request, mode vision.Mode) (ref vision.Reference) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Interface("panic", rec).Str("mode", string(mode)).Msg("image lookup panicked")
			p.note(sess, storage.LevelError, fmt.Sprintf("Error with image generation/fetching: %v", rec))
			ref = ""
		}
	}()

	var ok, failed string
	switch mode {
	case vision.ModeSearch:
		p.note(sess, storage.LevelInfo, MsgSearching)
		ok, failed = MsgFound, MsgSearchFailed
		if p.searcher != nil {
			ref = p.searcher.Search(ctx, req.Style)
		}
	default:
		mode = vision.ModeGenerate
		p.note(sess, storage.LevelInfo, MsgRendering)
		ok, failed = MsgRendered, MsgRenderFailed
		if p.renderer != nil {
			ref = p.renderer.Render(ctx, req.Style, req.Size, req.Rooms)
		}
	}

	if ref.Empty() {
		metrics.ImagesTotal.WithLabelValues(string(mode), "empty").Inc()
		p.note(sess, storage.LevelError, failed)
		return ""
	}
	metrics.ImagesTotal.WithLabelValues(string(mode), "ok").Inc()
	p.note(sess, storage.LevelSuccess, ok)
	return ref
}

func (p *Planner) note(sess *storage.Session, level storage.Level, text string) {
	sess.AddMessage(level, text)
	if p.progress != nil {
		p.progress(sess.ID, storage.Message{Level: level, Text: text})
	}
}

func snapshot(sess *storage.Session, errs []string) Outcome {
	return Outcome{
		Errors:   errs,
		Document: sess.Document,
		Image:    sess.Image,
		Messages: append([]storage.Message(nil), sess.Messages...),
	}
}
