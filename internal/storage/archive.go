package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// CaptureArchive stores completed capture images in object storage under
// deterministic keys, so records can carry a storage key instead of the
// full payload.
type CaptureArchive struct {
	storage ObjectStorage
}

// NewCaptureArchive creates an archive over the given object storage.
func NewCaptureArchive(storage ObjectStorage) *CaptureArchive {
	return &CaptureArchive{storage: storage}
}

// PutCapture uploads a base64 data-URL image for one record and returns
// the object key.
func (a *CaptureArchive) PutCapture(ctx context.Context, recordID, dataURL string) (string, error) {
	contentType, raw, err := decodeDataURL(dataURL)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("captures/%s.%s", recordID, extensionFor(contentType))
	if err := a.storage.Upload(ctx, key, bytes.NewReader(raw), int64(len(raw)), contentType); err != nil {
		return "", err
	}
	return key, nil
}

// URL returns the public URL for an archived capture.
func (a *CaptureArchive) URL(key string) string {
	return a.storage.GetURL(key)
}

// Remove deletes an archived capture.
func (a *CaptureArchive) Remove(ctx context.Context, key string) error {
	return a.storage.Delete(ctx, key)
}

// decodeDataURL splits a data URL into content type and raw bytes.
func decodeDataURL(dataURL string) (string, []byte, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		raw, err := base64.StdEncoding.DecodeString(dataURL)
		if err != nil {
			return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
		}
		return "image/png", raw, nil
	}

	rest := strings.TrimPrefix(dataURL, "data:")
	idx := strings.Index(rest, ";base64,")
	if idx == -1 {
		return "", nil, fmt.Errorf("unsupported data URL encoding")
	}

	contentType := rest[:idx]
	raw, err := base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):])
	if err != nil {
		return "", nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return contentType, raw, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/webp":
		return "webp"
	case "image/jpeg":
		return "jpg"
	case "image/gif":
		return "gif"
	default:
		return "png"
	}
}
