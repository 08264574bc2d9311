package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"homeDesignAi/internal/cache"
	"homeDesignAi/internal/config"
	"homeDesignAi/internal/events"
	"homeDesignAi/internal/generation"
	"homeDesignAi/internal/llm"
	"homeDesignAi/internal/logging"
	"homeDesignAi/internal/media"
	"homeDesignAi/internal/planner"
	"homeDesignAi/internal/server"
	"homeDesignAi/internal/storage"
	"homeDesignAi/internal/vision"
	"homeDesignAi/internal/web"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := newCacheStore(ctx, cfg.Cache, logger)
	if closer, ok := store.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	designMemo := cache.NewMemo[string](store, "design", cfg.Cache.DesignTTL)
	imageMemo := cache.NewMemo[string](store, "image", cfg.Cache.ImageTTL)

	generator, err := newGenerator(ctx, cfg.AI, designMemo, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init generator")
	}

	uploader, localMedia, err := newUploader(ctx, cfg.Media, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init media uploader")
	}

	renderer, err := newRenderer(ctx, cfg, imageMemo, uploader, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init image renderer")
	}
	lexica := vision.NewLexicaClient(cfg.Images.LexicaBaseURL, cfg.Images.SearchTimeout, imageMemo)

	sessions, err := newSessionStore(ctx, cfg.Session, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init session store")
	}
	defer sessions.Close()

	broker := events.NewBroker()
	handlers := server.Handlers{
		Web: web.Handler{
			Planner:      planner.New(generator, renderer, lexica).WithProgress(broker.Progress),
			Sessions:     sessions,
			Broker:       broker,
			SessionTTL:   cfg.Session.TTL,
			SecureCookie: cfg.Session.SecureCookie,
		},
		Vision: vision.Handler{Renderer: renderer, Searcher: lexica},
	}
	if localMedia != nil {
		handlers.Media = localMedia.Handler()
	}

	srv := server.New(cfg.Port, handlers, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down server...")
	case err := <-errCh:
		if err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}
}

func newCacheStore(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) cache.Store {
	if cfg.RedisURL == "" {
		logger.Info().Msg("cache: in-memory")
		return cache.NewMemoryStore()
	}
	store, err := cache.NewRedisStore(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("cache: redis unavailable, using in-memory store")
		return cache.NewMemoryStore()
	}
	logger.Info().Msg("cache: redis")
	return store
}

func newGenerator(ctx context.Context, cfg config.AIConfig, memo *cache.Memo[string], logger zerolog.Logger) (generation.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			logger.Warn().Msg("OPENAI_API_KEY not set; design plans will use the built-in template")
		}
		client := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL)
		logger.Info().Str("model", client.Model()).Msg("generator ready: OpenAI")
		return generation.NewLLM(client, "openai", client.Model(), memo), nil
	case "template":
		logger.Info().Msg("generator ready: template fallback")
		return generation.NewHeuristic(), nil
	default:
		if cfg.GoogleAPIKey == "" {
			logger.Warn().Msg("GOOGLE_API_KEY not set; design plans will use the built-in template")
		}
		client, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("model", client.Model()).Msg("generator ready: Gemini")
		return generation.NewLLM(client, "gemini", client.Model(), memo), nil
	}
}

func newSessionStore(ctx context.Context, cfg config.SessionConfig, logger zerolog.Logger) (storage.Store, error) {
	if cfg.DatabaseURL == "" {
		logger.Info().Msg("sessions: in-memory")
		return storage.NewInMemoryStore(cfg.TTL), nil
	}
	if err := storage.RunMigrations(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	pool, err := storage.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("sessions: postgres")
	return storage.NewPostgresStore(pool, cfg.TTL), nil
}

type enabledRenderer interface {
	vision.Renderer
	Enabled() bool
}

func newRenderer(ctx context.Context, cfg *config.Config, memo *cache.Memo[string], uploader media.Uploader, logger zerolog.Logger) (vision.Renderer, error) {
	var (
		renderer enabledRenderer
		missing  string
	)
	switch cfg.Images.Renderer {
	case "gemini":
		gemini, err := vision.NewGeminiRenderer(ctx, vision.GeminiRendererConfig{
			APIKey:  cfg.AI.GoogleAPIKey,
			Model:   cfg.Images.GeminiImageModel,
			Timeout: cfg.Images.RenderTimeout,
		}, memo, uploader)
		if err != nil {
			return nil, err
		}
		renderer, missing = gemini, "GOOGLE_API_KEY"
	case "imagen":
		renderer = vision.NewImagenRenderer(vision.ImagenConfig{
			ProjectID:          cfg.Images.ImagenProjectID,
			Location:           cfg.Images.ImagenLocation,
			Model:              cfg.Images.ImagenModel,
			APIKey:             cfg.AI.GoogleAPIKey,
			ServiceAccount:     cfg.Images.ImagenServiceAccount,
			ServiceAccountJSON: cfg.Images.ImagenServiceAccountJSON,
			Timeout:            cfg.Images.RenderTimeout,
		}, memo, uploader)
		missing = "IMAGEN_PROJECT_ID"
	default:
		renderer = vision.NewStabilityClient(vision.StabilityConfig{
			APIKey:  cfg.Images.StabilityAPIKey,
			Host:    cfg.Images.StabilityHost,
			Engine:  cfg.Images.StabilityEngine,
			Timeout: cfg.Images.RenderTimeout,
		}, memo, uploader)
		missing = "STABILITY_AI_API_KEY"
	}

	if !renderer.Enabled() {
		logger.Warn().Str("renderer", cfg.Images.Renderer).Msgf("%s not set; AI image generation will report no image", missing)
	} else {
		logger.Info().Str("renderer", cfg.Images.Renderer).Msg("image renderer ready")
	}
	return renderer, nil
}

// newUploader picks where rendered images are kept. The returned local
// uploader is non-nil only when images are stored on disk and must be served.
func newUploader(ctx context.Context, cfg config.MediaConfig, logger zerolog.Logger) (media.Uploader, *media.LocalUploader, error) {
	if cfg.S3Enabled() {
		uploader, err := media.NewS3Uploader(ctx, media.Config{
			Bucket:         cfg.Bucket,
			Region:         cfg.Region,
			Endpoint:       cfg.Endpoint,
			PublicURL:      cfg.PublicURL,
			KeyPrefix:      cfg.KeyPrefix,
			ForcePathStyle: cfg.ForcePathStyle,
		})
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("media uploader: S3")
		return media.Instrument("s3", uploader), nil, nil
	}
	if cfg.LocalDir != "" {
		local, err := media.NewLocalUploader(cfg.LocalDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info().Str("dir", local.BaseDir).Msg("media uploader: local disk")
		return media.Instrument("local", local), local, nil
	}
	logger.Info().Msg("media uploader: disabled, images are returned inline")
	return media.Disabled(), nil, nil
}
