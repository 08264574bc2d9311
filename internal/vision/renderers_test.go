package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeImageModels struct {
	calls  int
	model  string
	config *genai.GenerateContentConfig
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeImageModels) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.config = config
	return f.resp, f.err
}

func inlineImage(data []byte, mime string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{
			{Text: "Here is your home."},
			{InlineData: &genai.Blob{Data: data, MIMEType: mime}},
		}},
	}}}
}

func TestGeminiRendererEmbedsInlineImage(t *testing.T) {
	fake := &fakeImageModels{resp: inlineImage([]byte("jpeg"), "image/jpeg")}
	r, err := NewGeminiRenderer(context.Background(), GeminiRendererConfig{}, imageMemo(), nil)
	require.NoError(t, err)
	require.False(t, r.Enabled())
	r.models = fake

	ref := r.Render(context.Background(), "Modern", "2000 sq ft", "4")
	assert.Equal(t, Reference("data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString([]byte("jpeg"))), ref)
	assert.Equal(t, defaultGeminiImageModel, fake.model)
	assert.Equal(t, []string{"TEXT", "IMAGE"}, fake.config.ResponseModalities)

	again := r.Render(context.Background(), "Modern", "2000 sq ft", "4")
	assert.Equal(t, ref, again)
	assert.Equal(t, 1, fake.calls, "second render is served from cache")
}

func TestGeminiRendererFailsClosed(t *testing.T) {
	r, err := NewGeminiRenderer(context.Background(), GeminiRendererConfig{Model: "models/custom-image"}, nil, nil)
	require.NoError(t, err)
	assert.True(t, r.Render(context.Background(), "Modern", "2000", "4").Empty(), "disabled renderer")

	r.models = &fakeImageModels{err: errors.New("quota exceeded")}
	assert.True(t, r.Render(context.Background(), "Modern", "2000", "4").Empty())

	textOnly := &fakeImageModels{resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []*genai.Part{{Text: "no picture"}}},
	}}}}
	r.models = textOnly
	assert.True(t, r.Render(context.Background(), "Modern", "2000", "4").Empty())
	assert.Equal(t, "custom-image", textOnly.model)
}

func imagenPrediction(t *testing.T, fields map[string]any) *aiplatformpb.PredictResponse {
	t.Helper()
	v, err := structpb.NewValue(fields)
	require.NoError(t, err)
	return &aiplatformpb.PredictResponse{Predictions: []*structpb.Value{v}}
}

func TestImagenRendererDecodesPrediction(t *testing.T) {
	r := NewImagenRenderer(ImagenConfig{ProjectID: "acme"}, imageMemo(), nil)
	require.True(t, r.Enabled())
	assert.Equal(t, "projects/acme/locations/us-central1/publishers/google/models/imagen-3.0-generate-002", r.endpoint)

	var seen *aiplatformpb.PredictRequest
	r.predict = func(_ context.Context, req *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		seen = req
		return imagenPrediction(t, map[string]any{
			"bytesBase64Encoded": base64.StdEncoding.EncodeToString([]byte("png")),
			"mimeType":           "image/png",
		}), nil
	}

	ref := r.Render(context.Background(), "Rustic", "Large", "5")
	assert.Equal(t, Reference("data:image/png;base64,cG5n"), ref)
	require.NotNil(t, seen)
	require.Len(t, seen.Instances, 1)
	assert.Contains(t, seen.Instances[0].GetStructValue().GetFields()["prompt"].GetStringValue(), "Rustic")
	assert.EqualValues(t, 1, seen.Parameters.GetStructValue().GetFields()["sampleCount"].GetNumberValue())
}

func TestImagenRendererFailsClosed(t *testing.T) {
	assert.False(t, NewImagenRenderer(ImagenConfig{}, nil, nil).Enabled())
	assert.True(t, NewImagenRenderer(ImagenConfig{}, nil, nil).Render(context.Background(), "Modern", "2000", "4").Empty())

	r := NewImagenRenderer(ImagenConfig{ProjectID: "acme", Timeout: time.Second}, imageMemo(), nil)

	r.predict = func(context.Context, *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		return nil, errors.New("permission denied")
	}
	assert.True(t, r.Render(context.Background(), "Modern", "2000", "4").Empty())

	r.predict = func(context.Context, *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		return &aiplatformpb.PredictResponse{}, nil
	}
	assert.True(t, r.Render(context.Background(), "Modern", "2000", "4").Empty())

	r.predict = func(context.Context, *aiplatformpb.PredictRequest) (*aiplatformpb.PredictResponse, error) {
		return imagenPrediction(t, map[string]any{"raiFilteredReason": "blocked"}), nil
	}
	assert.True(t, r.Render(context.Background(), "Modern", "2000", "4").Empty())
}
