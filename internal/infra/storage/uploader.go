package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidImage = errors.New("storage: invalid image payload")
	errNoBucket     = errors.New("storage: bucket name is required")
)

// Uploader stores a base64 image and returns its public URL.
type Uploader interface {
	UploadBase64(ctx context.Context, data string) (string, error)
}

// objectWriter opens a writer for a new object in the bucket.
type objectWriter func(ctx context.Context, object, contentType string) io.WriteCloser

type GCSUploader struct {
	bucket  string
	baseURL string
	prefix  string
	open    objectWriter
}

var _ Uploader = (*GCSUploader)(nil)

func NewGCSUploader(client *storage.Client, bucket, publicBaseURL string) (*GCSUploader, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errNoBucket
	}
	handle := client.Bucket(bucket)
	return &GCSUploader{
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		prefix:  "deals",
		open: func(ctx context.Context, object, contentType string) io.WriteCloser {
			w := handle.Object(object).NewWriter(ctx)
			w.ContentType = contentType
			w.CacheControl = "public, max-age=86400"
			return w
		},
	}, nil
}

func (u *GCSUploader) UploadBase64(ctx context.Context, data string) (string, error) {
	raw, contentType, err := decodeImage(data)
	if err != nil {
		return "", err
	}

	object := path.Join(u.prefix, uuid.NewString()+extension(contentType))
	w := u.open(ctx, object, contentType)
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("storage: write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("storage: finalize %s: %w", object, err)
	}
	return fmt.Sprintf("%s/%s/%s", u.baseURL, u.bucket, object), nil
}

// decodeImage accepts either a data URL or bare base64.
func decodeImage(data string) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, "", fmt.Errorf("%w: empty", ErrInvalidImage)
	}
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		_, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, "", fmt.Errorf("%w: malformed data url", ErrInvalidImage)
		}
		data = payload
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	contentType := http.DetectContentType(raw)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("%w: unsupported content type %s", ErrInvalidImage, contentType)
	}
	return raw, contentType, nil
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
