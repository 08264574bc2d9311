package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"homeDesignAi/internal/design"
	"homeDesignAi/internal/events"
	"homeDesignAi/internal/llm"
	"homeDesignAi/internal/planner"
	"homeDesignAi/internal/storage"
	"homeDesignAi/internal/vision"
)

// SessionCookie names the cookie that carries the visitor's session ID.
const SessionCookie = "home_design_session"

// Handler bundles dependencies for the design form and its JSON twin.
type Handler struct {
	Planner      *planner.Planner
	Sessions     storage.Store
	Broker       *events.Broker
	SessionTTL   time.Duration
	SecureCookie bool
}

// DesignRequest is the JSON body accepted by POST /api/designs.
type DesignRequest struct {
	design.Request
	ImageSource string `json:"image_source"`
	Model       string `json:"model,omitempty"`
}

// Index handles GET /.
func (h Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if sess.ID == "" {
		sess.ID = uuid.NewString()
		h.setCookie(w, sess.ID)
	}
	renderPage(w, http.StatusOK, sess)
}

// Submit handles POST /designs. The result is stored on the session and the
// browser is redirected back to the form.
func (h Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sub, err := parseSubmission(w, r)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid form: %v", err), http.StatusBadRequest)
		return
	}

	sess := h.session(r)
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	h.Planner.Run(r.Context(), &sess, sub)

	saved, err := h.Sessions.Save(r.Context(), sess)
	if err != nil {
		log.Error().Err(err).Msg("save session")
		renderPage(w, http.StatusOK, sess)
		return
	}
	h.setCookie(w, saved.ID)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Download handles GET /designs/download.
func (h Handler) Download(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if !sess.HasDocument() {
		http.Error(w, "no design plan to download", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": design.DownloadName(sess.Style),
	}))
	_, _ = w.Write([]byte(sess.Document.Markdown))
}

// Events handles GET /designs/events. It streams the progress lines of the
// visitor's runs as server-sent events until the client disconnects.
func (h Handler) Events(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	if h.Broker == nil || sess.ID == "" {
		http.Error(w, "no session", http.StatusNotFound)
		return
	}

	ch := h.Broker.Subscribe(sess.ID)
	defer h.Broker.Unsubscribe(ch)

	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case evt := <-ch:
			payload, err := json.Marshal(evt)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "event: progress\ndata: %s\n\n", payload); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}

// Generate handles POST /api/designs. It runs one submission without a
// browser session.
func (h Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var req DesignRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if req.Model != "" {
		ctx = llm.WithModel(ctx, req.Model)
	}

	var sess storage.Session
	out := h.Planner.Run(ctx, &sess, planner.Submission{
		Request:     req.Request,
		ImageSource: vision.ParseMode(req.ImageSource),
	})

	status := http.StatusOK
	if !out.Valid() {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, out)
}

// session loads the visitor's session. A well-formed cookie without a stored
// session keeps its ID so progress events stay addressable.
func (h Handler) session(r *http.Request) storage.Session {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return storage.Session{}
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return storage.Session{}
	}
	sess, err := h.Sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn().Err(err).Msg("load session")
		}
		return storage.Session{ID: cookie.Value}
	}
	return sess
}

func (h Handler) setCookie(w http.ResponseWriter, id string) {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if h.SessionTTL > 0 {
		cookie.MaxAge = int(h.SessionTTL / time.Second)
	}
	http.SetCookie(w, cookie)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}
