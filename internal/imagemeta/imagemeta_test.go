package imagemeta

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestProbe(t *testing.T) {
	data := encodePNG(t, 120, 80)

	meta, err := Probe(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Width != 120 || meta.Height != 80 {
		t.Errorf("expected 120x80, got %dx%d", meta.Width, meta.Height)
	}
	if meta.Format != "png" {
		t.Errorf("expected format png, got %q", meta.Format)
	}
}

func TestProbeRejectsGarbage(t *testing.T) {
	if _, err := Probe([]byte("definitely not an image")); err == nil {
		t.Error("expected error for non-image bytes")
	}
}

func TestProbeDataURL(t *testing.T) {
	data := encodePNG(t, 10, 20)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)

	meta, err := ProbeDataURL(dataURL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Width != 10 || meta.Height != 20 {
		t.Errorf("expected 10x20, got %dx%d", meta.Width, meta.Height)
	}
}

func TestProbeDataURLRawBase64(t *testing.T) {
	data := encodePNG(t, 5, 5)

	meta, err := ProbeDataURL(base64.StdEncoding.EncodeToString(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meta.Width != 5 || meta.Height != 5 {
		t.Errorf("expected 5x5, got %dx%d", meta.Width, meta.Height)
	}
}

func TestProbeDataURLRejectsNonBase64URL(t *testing.T) {
	if _, err := ProbeDataURL("data:image/png,rawpayload"); err == nil {
		t.Error("expected error for non-base64 data URL")
	}
}
