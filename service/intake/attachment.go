package intake

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"
	"github.com/viant/chatapproval/service/transport"
)

// AttachmentLoader resolves attachment values into transport images
type AttachmentLoader struct {
	fs afs.Service
}

// Load resolves value: http(s) URLs are passed through, data URLs are
// decoded, anything else is read through afs.
func (l *AttachmentLoader) Load(ctx context.Context, value, caption string) (*transport.Image, error) {
	lower := strings.ToLower(value)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return &transport.Image{URL: value, Caption: caption}, nil
	case strings.HasPrefix(lower, "data:"):
		return decodeDataURL(value, caption)
	}
	exists, err := l.fs.Exists(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to check attachment %s: %w", value, err)
	}
	if !exists {
		return nil, fmt.Errorf("attachment does not exist: %s", value)
	}
	data, err := l.fs.DownloadWithURL(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment %s: %w", value, err)
	}
	return &transport.Image{Data: data, MimeType: imageType(url.Path(value)), Caption: caption}, nil
}

func decodeDataURL(value, caption string) (*transport.Image, error) {
	header, encoded, ok := strings.Cut(value, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URL")
	}
	mediaType := strings.TrimPrefix(header, "data:")
	mediaType, isBase64 := strings.CutSuffix(mediaType, ";base64")
	if !isBase64 {
		return nil, fmt.Errorf("data URL must be base64 encoded")
	}
	if !strings.HasPrefix(strings.ToLower(mediaType), "image/") {
		return nil, fmt.Errorf("unsupported attachment media type: %q", mediaType)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URL: %w", err)
	}
	return &transport.Image{Data: data, MimeType: mediaType, Caption: caption}, nil
}

func imageType(location string) string {
	switch strings.ToLower(path.Ext(location)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// NewAttachmentLoader creates a loader backed by afs
func NewAttachmentLoader() *AttachmentLoader {
	return &AttachmentLoader{fs: afs.New()}
}
