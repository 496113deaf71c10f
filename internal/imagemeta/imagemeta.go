// Package imagemeta probes dimensions and format of captured images.
package imagemeta

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	_ "golang.org/x/image/webp"
)

// Meta describes a decoded image header.
type Meta struct {
	Width  int
	Height int
	Format string
}

// Probe decodes the image header from raw bytes.
func Probe(data []byte) (*Meta, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	return &Meta{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// ProbeDataURL decodes the image header from a base64 data URL as returned
// by the provider client.
func ProbeDataURL(dataURL string) (*Meta, error) {
	payload := dataURL
	if strings.HasPrefix(payload, "data:") {
		idx := strings.Index(payload, ";base64,")
		if idx == -1 {
			return nil, fmt.Errorf("unsupported data URL encoding")
		}
		payload = payload[idx+len(";base64,"):]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image: %w", err)
	}
	return Probe(raw)
}
