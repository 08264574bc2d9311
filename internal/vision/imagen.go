package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"

	"homeDesignAi/internal/cache"
	"homeDesignAi/internal/media"
	"homeDesignAi/internal/metrics"
	"homeDesignAi/internal/prompts"
)

const (
	defaultImagenLocation = "us-central1"
	defaultImagenModel    = "imagen-3.0-generate-002"
)

// ImagenConfig describes how to reach Imagen on Vertex AI.
type ImagenConfig struct {
	ProjectID          string
	Location           string
	Model              string
	APIKey             string
	ServiceAccount     string
	ServiceAccountJSON string
	Timeout            time.Duration
}

type predictFunc func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error)

// ImagenRenderer produces inspiration images with Vertex AI Imagen.
type ImagenRenderer struct {
	endpoint string
	timeout  time.Duration
	predict  predictFunc
	memo     *cache.Memo[string]
	uploader media.Uploader
}

// NewImagenRenderer wires a renderer. Without a project it is disabled.
func NewImagenRenderer(cfg ImagenConfig, memo *cache.Memo[string], uploader media.Uploader) *ImagenRenderer {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = defaultImagenLocation
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultImagenModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if uploader == nil {
		uploader = media.Disabled()
	}

	r := &ImagenRenderer{timeout: timeout, memo: memo, uploader: uploader}
	if project := strings.TrimSpace(cfg.ProjectID); project != "" {
		r.endpoint = fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", project, location, model)
		r.predict = vertexPredict(location, clientOptions(cfg))
	}
	return r
}

func clientOptions(cfg ImagenConfig) []option.ClientOption {
	var opts []option.ClientOption
	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	case strings.TrimSpace(cfg.ServiceAccount) != "":
		opts = append(opts, option.WithCredentialsFile(cfg.ServiceAccount))
	case strings.TrimSpace(cfg.APIKey) != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	return opts
}

func vertexPredict(location string, opts []option.ClientOption) predictFunc {
	opts = append([]option.ClientOption{option.WithEndpoint(location + "-aiplatform.googleapis.com:443")}, opts...)
	return func(ctx context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		client, err := aiplatform.NewPredictionClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("prediction client: %w", err)
		}
		defer client.Close()
		return client.Predict(ctx, req)
	}
}

// Enabled reports whether a Vertex project was configured.
func (v *ImagenRenderer) Enabled() bool {
	return v != nil && v.predict != nil
}

// Render returns an image for the design or the empty Reference on any failure.
func (v *ImagenRenderer) Render(ctx context.Context, style, size, rooms string) Reference {
	if !v.Enabled() {
		log.Error().Msg("imagen: Vertex project is not set")
		return ""
	}

	key := v.memo.Key(v.endpoint, style, size, rooms)
	if cached, ok := v.memo.Get(ctx, key); ok {
		return Reference(cached)
	}

	start := time.Now()
	ref, err := v.render(ctx, prompts.BuildBlueprintPrompt(style, size, rooms))
	metrics.ObserveExternal("imagen", start, err)
	if err != nil {
		log.Error().Err(err).Str("style", style).Msg("imagen: generation failed")
		return ""
	}

	v.memo.Set(ctx, key, string(ref))
	return ref
}

func (v *ImagenRenderer) render(ctx context.Context, prompt string) (Reference, error) {
	instance, err := structpb.NewValue(map[string]any{"prompt": prompt})
	if err != nil {
		return "", err
	}
	params, err := structpb.NewValue(map[string]any{
		"sampleCount": 1,
		"aspectRatio": "1:1",
	})
	if err != nil {
		return "", err
	}

	childCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	resp, err := v.predict(childCtx, &aiplatformpb.PredictRequest{
		Endpoint:   v.endpoint,
		Instances:  []*structpb.Value{instance},
		Parameters: params,
	})
	if err != nil {
		return "", fmt.Errorf("imagen: predict: %w", err)
	}
	if len(resp.GetPredictions()) == 0 {
		return "", errors.New("imagen: empty prediction response")
	}

	fields := resp.GetPredictions()[0].GetStructValue().GetFields()
	encoded := fields["bytesBase64Encoded"].GetStringValue()
	if encoded == "" {
		return "", errors.New("imagen: prediction missing bytes")
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("imagen: decode result: %w", err)
	}
	return persist(ctx, v.uploader, "imagen", data, fields["mimeType"].GetStringValue()), nil
}
