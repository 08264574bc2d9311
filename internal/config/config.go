package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration values.
type Config struct {
	Port      string `env:"APP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`

	AI      AIConfig
	Images  ImageConfig
	Cache   CacheConfig
	Media   MediaConfig
	Session SessionConfig
}

// AIConfig selects and configures the text-generation provider.
type AIConfig struct {
	Provider      string        `env:"AI_PROVIDER" envDefault:"gemini"`
	GoogleAPIKey  string        `env:"GOOGLE_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`
	Timeout       time.Duration `env:"GEMINI_TIMEOUT" envDefault:"60s"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
}

// ImageConfig describes the inspiration image services. Renderer selects the
// backend behind "AI Image Generation": stability, gemini or imagen.
// RenderTimeout caps a single call to whichever renderer is selected.
type ImageConfig struct {
	Renderer        string        `env:"IMAGE_RENDERER" envDefault:"stability"`
	StabilityAPIKey string        `env:"STABILITY_AI_API_KEY"`
	StabilityHost   string        `env:"STABILITY_API_HOST" envDefault:"https://api.stability.ai"`
	StabilityEngine string        `env:"STABILITY_ENGINE" envDefault:"stable-diffusion-v1-6"`
	LexicaBaseURL   string        `env:"LEXICA_BASE_URL" envDefault:"https://lexica.art/api/v1/search"`
	RenderTimeout   time.Duration `env:"IMAGE_RENDER_TIMEOUT" envDefault:"30s"`
	SearchTimeout   time.Duration `env:"LEXICA_TIMEOUT" envDefault:"10s"`

	GeminiImageModel string `env:"GEMINI_IMAGE_MODEL" envDefault:"gemini-2.5-flash-image"`

	ImagenProjectID          string `env:"IMAGEN_PROJECT_ID"`
	ImagenLocation           string `env:"IMAGEN_LOCATION" envDefault:"us-central1"`
	ImagenModel              string `env:"IMAGEN_MODEL" envDefault:"imagen-3.0-generate-002"`
	ImagenServiceAccount     string `env:"IMAGEN_SERVICE_ACCOUNT"`
	ImagenServiceAccountJSON string `env:"IMAGEN_SERVICE_ACCOUNT_JSON"`
}

// CacheConfig controls result memoization.
type CacheConfig struct {
	DesignTTL time.Duration `env:"DESIGN_CACHE_TTL" envDefault:"1h"`
	ImageTTL  time.Duration `env:"IMAGE_CACHE_TTL" envDefault:"24h"`
	RedisURL  string        `env:"REDIS_URL"`
}

// MediaConfig describes S3/media related configuration.
type MediaConfig struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION"`
	Endpoint       string `env:"S3_ENDPOINT"`
	PublicURL      string `env:"S3_PUBLIC_URL"`
	KeyPrefix      string `env:"S3_KEY_PREFIX"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE" envDefault:"false"`
	LocalDir       string `env:"MEDIA_LOCAL_DIR"`
}

// SessionConfig controls where form sessions live and how long idle ones
// are kept. An empty DatabaseURL keeps them in memory.
type SessionConfig struct {
	DatabaseURL  string        `env:"DATABASE_URL"`
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	SecureCookie bool          `env:"SESSION_SECURE_COOKIE" envDefault:"false"`
}

// S3Enabled reports whether rendered images should go to a bucket.
func (m MediaConfig) S3Enabled() bool {
	return m.Bucket != "" && m.Region != ""
}

// Load reads an optional .env file and then parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(cfg.AI.Provider))
	cfg.Images.Renderer = strings.ToLower(strings.TrimSpace(cfg.Images.Renderer))
	cfg.Media.KeyPrefix = strings.Trim(cfg.Media.KeyPrefix, "/")

	if strings.TrimSpace(cfg.Port) == "" {
		return nil, errors.New("APP_PORT cannot be empty")
	}
	switch cfg.AI.Provider {
	case "gemini", "openai", "template":
	default:
		return nil, fmt.Errorf("unsupported AI_PROVIDER %q", cfg.AI.Provider)
	}
	switch cfg.Images.Renderer {
	case "stability", "gemini", "imagen":
	default:
		return nil, fmt.Errorf("unsupported IMAGE_RENDERER %q", cfg.Images.Renderer)
	}

	return cfg, nil
}
