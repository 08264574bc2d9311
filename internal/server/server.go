package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"homeDesignAi/internal/media"
	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/vision"
	"homeDesignAi/internal/web"
)

// Handlers groups the route handlers mounted by the router.
type Handlers struct {
	Web    web.Handler
	Vision vision.Handler
	// Media serves locally stored images under /media/. Nil disables the route.
	Media http.Handler
}

// New constructs the HTTP server with routes and middleware.
func New(port string, handlers Handlers, logger zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(handlers, logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Plan generation and image rendering run inside the request.
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info().Str("addr", srv.Addr).Msg("server ready")
	return srv
}

// NewRouter wires middleware and routes.
func NewRouter(handlers Handlers, logger zerolog.Logger) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(requestLogger(logger))
	router.Use(middleware.Recoverer)

	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Get("/", handlers.Web.Index)
	router.Route("/designs", func(r chi.Router) {
		r.Post("/", handlers.Web.Submit)
		r.Get("/download", handlers.Web.Download)
		r.Get("/events", handlers.Web.Events)
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/designs", handlers.Web.Generate)
		r.Route("/images", func(r chi.Router) {
			r.Post("/render", handlers.Vision.Render)
			r.Get("/search", handlers.Vision.Search)
		})
	})

	if handlers.Media != nil {
		router.Handle(media.LocalPathPrefix+"*", http.StripPrefix(media.LocalPathPrefix, handlers.Media))
	}

	return router
}

// requestLogger logs each request and records the HTTP metrics.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			latency := time.Since(start)

			metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
			metrics.RequestDuration.WithLabelValues(r.Method, route).Observe(latency.Seconds())

			event := logger.Info()
			if status >= 400 {
				event = logger.Warn()
			}
			if status >= 500 {
				event = logger.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", status).
				Dur("latency", latency).
				Str("client_ip", r.RemoteAddr).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("request completed")
		})
	}
}
