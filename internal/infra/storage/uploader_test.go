package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type memObject struct {
	bytes.Buffer
	closeErr error
	closed   bool
}

func (m *memObject) Close() error {
	m.closed = true
	return m.closeErr
}

func newTestUploader(obj *memObject, gotName, gotType *string) *GCSUploader {
	return &GCSUploader{
		bucket:  "shop-images",
		baseURL: "https://storage.googleapis.com",
		prefix:  "deals",
		open: func(ctx context.Context, object, contentType string) io.WriteCloser {
			*gotName, *gotType = object, contentType
			return obj
		},
	}
}

func TestUploadBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngHeader)

	tests := []struct {
		name string
		data string
	}{
		{"bare base64", encoded},
		{"data url", "data:image/png;base64," + encoded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &memObject{}
			var name, contentType string
			u := newTestUploader(obj, &name, &contentType)

			url, err := u.UploadBase64(context.Background(), tt.data)
			require.NoError(t, err)

			assert.Equal(t, "image/png", contentType)
			assert.True(t, strings.HasPrefix(name, "deals/"))
			assert.True(t, strings.HasSuffix(name, ".png"))
			assert.Equal(t, "https://storage.googleapis.com/shop-images/"+name, url)
			assert.Equal(t, pngHeader, obj.Bytes())
			assert.True(t, obj.closed)
		})
	}
}

func TestUploadBase64Rejects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", "   "},
		{"not base64", "@@@"},
		{"data url without payload", "data:image/png;base64"},
		{"not an image", base64.StdEncoding.EncodeToString([]byte("plain text"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var name, contentType string
			u := newTestUploader(&memObject{}, &name, &contentType)
			_, err := u.UploadBase64(context.Background(), tt.data)
			assert.ErrorIs(t, err, ErrInvalidImage)
			assert.Empty(t, name)
		})
	}
}

func TestUploadBase64CloseError(t *testing.T) {
	var name, contentType string
	u := newTestUploader(&memObject{closeErr: errors.New("quota")}, &name, &contentType)

	_, err := u.UploadBase64(context.Background(), base64.StdEncoding.EncodeToString(pngHeader))
	assert.Error(t, err)
}

func TestNewGCSUploaderRequiresBucket(t *testing.T) {
	_, err := NewGCSUploader(nil, "", "https://example.com")
	assert.ErrorIs(t, err, errNoBucket)
}
