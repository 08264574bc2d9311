package vision

import (
	"encoding/json"
	"net/http"
	"strings"
	"unicode/utf8"

	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/validation"
)

// Handler exposes the image clients directly, outside the form flow.
type Handler struct {
	Renderer Renderer
	Searcher Searcher
}

type imageResponse struct {
	Image Reference `json:"image"`
	Mode  Mode      `json:"mode"`
}

// Render handles POST /api/images/render.
func (h Handler) Render(w http.ResponseWriter, r *http.Request) {
	if h.Renderer == nil {
		http.Error(w, "image generation inactive", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Style string `json:"style"`
		Size  string `json:"size"`
		Rooms string `json:"rooms"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if errs := validation.Validate(req.Style, req.Size, req.Rooms); len(errs) > 0 {
		http.Error(w, strings.Join(errs, "; "), http.StatusBadRequest)
		return
	}

	ref := h.Renderer.Render(r.Context(), strings.TrimSpace(req.Style), strings.TrimSpace(req.Size), strings.TrimSpace(req.Rooms))
	respond(w, ModeGenerate, ref)
}

// Search handles GET /api/images/search?style=.
func (h Handler) Search(w http.ResponseWriter, r *http.Request) {
	if h.Searcher == nil {
		http.Error(w, "image search inactive", http.StatusServiceUnavailable)
		return
	}
	style := strings.TrimSpace(r.URL.Query().Get("style"))
	if utf8.RuneCountInString(style) < 2 {
		http.Error(w, "style must be at least 2 characters", http.StatusBadRequest)
		return
	}

	respond(w, ModeSearch, h.Searcher.Search(r.Context(), style))
}

func respond(w http.ResponseWriter, mode Mode, ref Reference) {
	if ref.Empty() {
		metrics.ImagesTotal.WithLabelValues(string(mode), "empty").Inc()
		http.Error(w, "No image available at this time.", http.StatusBadGateway)
		return
	}
	metrics.ImagesTotal.WithLabelValues(string(mode), "ok").Inc()
	writeJSON(w, imageResponse{Image: ref, Mode: mode})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
