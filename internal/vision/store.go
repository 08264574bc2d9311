package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"strings"

	"github.com/rs/zerolog/log"

	"homeDesignAi/internal/media"
)

// persist turns rendered image bytes into a Reference. With an active
// uploader the image is stored and its URL returned; otherwise, or when the
// upload fails, the image is embedded as a data URI.
func persist(ctx context.Context, uploader media.Uploader, service string, data []byte, mime string) Reference {
	if len(data) == 0 {
		return ""
	}
	mime = strings.TrimSpace(mime)
	if mime == "" {
		mime = "image/png"
	}
	dataURI := Reference("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
	if media.IsDisabled(uploader) {
		return dataURI
	}

	res, err := uploader.Upload(ctx, media.UploadInput{
		Filename:    service + "-render" + extension(mime),
		ContentType: mime,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil || res.URL == "" {
		log.Warn().Err(err).Str("service", service).Msg("storing render failed, embedding instead")
		return dataURI
	}
	return Reference(res.URL)
}

func extension(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	default:
		return ".png"
	}
}
