package media

import (
	"context"
	"errors"
	"io"

	"homeDesignAi/internal/metrics"
)

// ErrUploaderDisabled indicates that uploads are not currently enabled.
var ErrUploaderDisabled = errors.New("media uploader disabled")

// UploadInput wraps the payload required for persisting a file.
type UploadInput struct {
	Filename    string
	ContentType string
	Body        io.Reader
	Size        int64
}

// UploadResult captures the canonical object key and its accessible URL.
type UploadResult struct {
	Key string
	URL string
}

// Uploader hides the backing implementation for storing files.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (UploadResult, error)
}

type disabledUploader struct{}

func (disabledUploader) Upload(_ context.Context, _ UploadInput) (UploadResult, error) {
	return UploadResult{}, ErrUploaderDisabled
}

// Disabled returns an uploader that always signals disabled uploads.
func Disabled() Uploader {
	return disabledUploader{}
}

// IsDisabled reports whether u is the no-op uploader.
func IsDisabled(u Uploader) bool {
	if u == nil {
		return true
	}
	_, ok := u.(disabledUploader)
	return ok
}

// Instrument counts uploads per backend.
func Instrument(backend string, u Uploader) Uploader {
	if IsDisabled(u) {
		return Disabled()
	}
	return instrumented{backend: backend, next: u}
}

type instrumented struct {
	backend string
	next    Uploader
}

func (i instrumented) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	res, err := i.next.Upload(ctx, input)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.UploadsTotal.WithLabelValues(i.backend, status).Inc()
	return res, err
}
