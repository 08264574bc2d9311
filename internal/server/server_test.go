package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeDesignAi/internal/design"
	"homeDesignAi/internal/media"
	"homeDesignAi/internal/planner"
	"homeDesignAi/internal/storage"
	"homeDesignAi/internal/vision"
	"homeDesignAi/internal/web"
)

type staticGenerator string

func (g staticGenerator) Generate(context.Context, design.Request) design.Document {
	return design.Document{Markdown: string(g), Source: design.SourceAPI}
}

type staticSearcher vision.Reference

func (s staticSearcher) Search(context.Context, string) vision.Reference {
	return vision.Reference(s)
}

func newTestServer(t *testing.T, mediaHandler http.Handler) *httptest.Server {
	t.Helper()
	searcher := staticSearcher("https://image.lexica.art/x")
	handlers := Handlers{
		Web: web.Handler{
			Planner:  planner.New(staticGenerator("# Plan"), nil, searcher),
			Sessions: storage.NewInMemoryStore(time.Hour),
		},
		Vision: vision.Handler{Searcher: searcher},
		Media:  mediaHandler,
	}
	srv := httptest.NewServer(NewRouter(handlers, zerolog.Nop()))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, body := get(t, srv.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, body)

	resp, body = get(t, srv.URL+"/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Custom Home Design Assistant")

	resp, body = get(t, srv.URL+"/api/images/search?style=Modern")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "https://image.lexica.art/x")

	resp, _ = get(t, srv.URL+"/api/images/render")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/media/missing.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = get(t, srv.URL+"/designs/download")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	srv := newTestServer(t, nil)

	get(t, srv.URL+"/health")
	resp, body := get(t, srv.URL+"/metrics")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `home_design_http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestDesignsAPI(t *testing.T) {
	srv := newTestServer(t, nil)

	resp, err := http.Post(srv.URL+"/api/designs", "application/json",
		strings.NewReader(`{"style":"Modern","size":"2000 sq ft","rooms":"4","image_source":"search"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"markdown":"# Plan"`)
}

func TestServesLocalMedia(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plan.png"), []byte("png"), 0o644))

	local, err := media.NewLocalUploader(dir)
	require.NoError(t, err)
	srv := newTestServer(t, local.Handler())

	resp, body := get(t, srv.URL+"/media/plan.png")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "png", body)
}
