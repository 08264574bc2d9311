package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalPathPrefix is the URL path under which local renders are served.
const LocalPathPrefix = "/media/"

// LocalUploader stores renders in a directory served by the HTTP server.
type LocalUploader struct {
	BaseDir string
}

// NewLocalUploader constructs an uploader that writes to the provided directory.
// If baseDir is empty, a home-design directory under os.TempDir() is used.
func NewLocalUploader(baseDir string) (*LocalUploader, error) {
	dir := baseDir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "home-design-media")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create local media dir: %w", err)
	}
	return &LocalUploader{BaseDir: dir}, nil
}

// Upload writes the content to BaseDir and returns its URL under LocalPathPrefix.
func (l *LocalUploader) Upload(_ context.Context, input UploadInput) (UploadResult, error) {
	if input.Body == nil {
		return UploadResult{}, fmt.Errorf("upload body is required")
	}

	ext := strings.ToLower(filepath.Ext(input.Filename))
	if len(ext) > 10 {
		ext = ext[:10]
	}
	name := uuid.NewString() + ext

	file, err := os.Create(filepath.Join(l.BaseDir, name))
	if err != nil {
		return UploadResult{}, fmt.Errorf("create media file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, input.Body); err != nil {
		os.Remove(file.Name())
		return UploadResult{}, fmt.Errorf("write media file: %w", err)
	}

	return UploadResult{
		Key: name,
		URL: LocalPathPrefix + name,
	}, nil
}

// Handler serves stored files, expecting LocalPathPrefix to be stripped.
func (l *LocalUploader) Handler() http.Handler {
	return http.FileServer(http.Dir(l.BaseDir))
}
