package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"homeDesignAi/internal/design"
	"homeDesignAi/internal/media"
	"homeDesignAi/internal/planner"
	"homeDesignAi/internal/storage"
	"homeDesignAi/internal/vision"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

	pages = template.Must(template.New("").Funcs(template.FuncMap{
		"has":  slices.Contains[[]string],
		"room": roomDetail,
	}).ParseFS(templateFS, "templates/*.html"))
)

// choices groups every select list the form offers.
type choices struct {
	BudgetRanges    []string
	OutdoorSpaces   []string
	SpecialFeatures []string
	CeilingHeights  []string
	FloorMaterials  []string
	Timelines       []string
	Priorities      []string
	StyleExamples   []string
	Rooms           []design.RoomOption
}

var formChoices = choices{
	BudgetRanges:    design.BudgetRanges,
	OutdoorSpaces:   design.OutdoorSpaces,
	SpecialFeatures: design.SpecialFeatures,
	CeilingHeights:  design.CeilingHeights,
	FloorMaterials:  design.FloorMaterials,
	Timelines:       design.Timelines,
	Priorities:      design.Priorities,
	StyleExamples:   design.StyleExamples,
	Rooms:           design.RoomOptions,
}

type pageData struct {
	Form        design.Request
	ImageSource vision.Mode
	Choices     choices
	Messages    []storage.Message
	Style       string
	HasPlan     bool
	Plan        template.HTML
	Image       template.URL
	NoImage     string
}

func newPageData(sess storage.Session) pageData {
	data := pageData{
		Form:        sess.Request.Normalize(),
		ImageSource: sess.ImageSource,
		Choices:     formChoices,
		Messages:    sess.Messages,
		Style:       sess.Style,
		HasPlan:     sess.HasDocument(),
		Image:       imageURL(sess.Image),
		NoImage:     planner.MsgNoImage,
	}
	if data.ImageSource == "" {
		data.ImageSource = vision.ModeGenerate
	}
	if data.HasPlan {
		plan, err := renderMarkdown(sess.Document.Markdown)
		if err != nil {
			log.Warn().Err(err).Msg("render plan markdown")
			plan = template.HTML("<pre>" + template.HTMLEscapeString(sess.Document.Markdown) + "</pre>")
		}
		data.Plan = plan
	}
	return data
}

func renderPage(w http.ResponseWriter, status int, sess storage.Session) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, "index.html", newPageData(sess)); err != nil {
		log.Error().Err(err).Msg("render page")
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderMarkdown converts a plan to HTML. Raw HTML in the source is dropped.
func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// imageURL admits only the reference shapes the image clients produce.
func imageURL(ref vision.Reference) template.URL {
	s := string(ref)
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"),
		strings.HasPrefix(s, media.LocalPathPrefix):
		return template.URL(s)
	}
	return ""
}

func roomDetail(req design.Request, key string) design.RoomDetail {
	room, _ := req.Details.Room(key)
	return room
}
