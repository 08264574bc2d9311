package media

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Object keys are random, so a stored render never changes under its URL.
const renderCacheControl = "public, max-age=31536000, immutable"

// Config locates the bucket that holds rendered design images. Endpoint and
// ForcePathStyle target S3-compatible stores such as MinIO.
type Config struct {
	Bucket         string
	Region         string
	Endpoint       string
	PublicURL      string
	KeyPrefix      string
	ForcePathStyle bool
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// NewS3Uploader returns an Uploader that writes renders to the configured
// bucket. Without a bucket and region it returns Disabled().
func NewS3Uploader(ctx context.Context, cfg Config) (Uploader, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return Disabled(), nil
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws sdk config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.ForcePathStyle
		}
	})
	return newRenderBucket(client, cfg), nil
}

// renderBucket stores one object per render under <prefix>/<day>/<uuid><ext>.
type renderBucket struct {
	client objectPutter
	bucket string
	prefix string
	base   string
	now    func() time.Time
}

func newRenderBucket(client objectPutter, cfg Config) *renderBucket {
	return &renderBucket{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.KeyPrefix, "/"),
		base:   publicBase(cfg),
		now:    time.Now,
	}
}

// publicBase is the URL that object keys are appended to.
func publicBase(cfg Config) string {
	if base := strings.TrimSuffix(cfg.PublicURL, "/"); base != "" {
		return base
	}
	if cfg.Endpoint != "" && cfg.ForcePathStyle {
		return strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
}

// Upload puts the render in the bucket and returns its public URL.
func (b *renderBucket) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, errors.New("upload body is required")
	}

	ext := strings.ToLower(filepath.Ext(input.Filename))
	key := b.key(ext)

	contentType := input.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(ext)
	}

	put := &s3.PutObjectInput{
		Bucket:       aws.String(b.bucket),
		Key:          aws.String(key),
		Body:         input.Body,
		CacheControl: aws.String(renderCacheControl),
	}
	if contentType != "" {
		put.ContentType = aws.String(contentType)
	}
	if input.Size > 0 {
		put.ContentLength = aws.Int64(input.Size)
	}

	if _, err := b.client.PutObject(ctx, put); err != nil {
		return UploadResult{}, fmt.Errorf("store render %s: %w", key, err)
	}
	return UploadResult{Key: key, URL: b.url(key)}, nil
}

func (b *renderBucket) key(ext string) string {
	return path.Join(b.prefix, b.now().UTC().Format("2006-01-02"), uuid.NewString()+ext)
}

func (b *renderBucket) url(key string) string {
	return b.base + "/" + key
}
