package overlay

import (
	"testing"

	"github.com/timmy/brandshot/internal/domain"
)

func TestMapToDisplay(t *testing.T) {
	tests := []struct {
		name          string
		bounds        domain.Bounds
		displayWidth  int
		displayHeight int
		expected      Rect
	}{
		{
			name:          "full image",
			bounds:        domain.Bounds{X: 0, Y: 0, Width: 1, Height: 1},
			displayWidth:  800,
			displayHeight: 600,
			expected:      Rect{X: 0, Y: 0, Width: 800, Height: 600},
		},
		{
			name:          "centered quarter",
			bounds:        domain.Bounds{X: 0.25, Y: 0.25, Width: 0.5, Height: 0.5},
			displayWidth:  800,
			displayHeight: 600,
			expected:      Rect{X: 200, Y: 150, Width: 400, Height: 300},
		},
		{
			name:          "rounding",
			bounds:        domain.Bounds{X: 0.333, Y: 0.333, Width: 0.333, Height: 0.333},
			displayWidth:  100,
			displayHeight: 100,
			expected:      Rect{X: 33, Y: 33, Width: 33, Height: 33},
		},
		{
			name:          "far edge clamped to display",
			bounds:        domain.Bounds{X: 0.995, Y: 0.995, Width: 0.01, Height: 0.01},
			displayWidth:  100,
			displayHeight: 100,
			expected:      Rect{X: 100, Y: 100, Width: 0, Height: 0},
		},
		{
			name:          "zero display dimensions",
			bounds:        domain.Bounds{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5},
			displayWidth:  0,
			displayHeight: 600,
			expected:      Rect{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapToDisplay(tt.bounds, tt.displayWidth, tt.displayHeight)
			if got != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestMapToDisplayContainment(t *testing.T) {
	// Every valid normalized box must map inside the display rectangle.
	boxes := []domain.Bounds{
		{X: 0, Y: 0, Width: 0.01, Height: 0.01},
		{X: 0.999, Y: 0.999, Width: 1, Height: 1},
		{X: 0.7, Y: 0.1, Width: 0.6, Height: 0.95},
		{X: 0.123, Y: 0.456, Width: 0.789, Height: 0.321},
	}
	const w, h = 1440, 900

	for _, b := range boxes {
		rect := MapToDisplay(b.Clamp(), w, h)
		if rect.X < 0 || rect.Y < 0 {
			t.Errorf("bounds %+v mapped to negative origin %+v", b, rect)
		}
		if rect.X+rect.Width > w || rect.Y+rect.Height > h {
			t.Errorf("bounds %+v mapped outside display: %+v", b, rect)
		}
	}
}

func TestMapAll(t *testing.T) {
	highlights := []domain.Highlight{
		{ID: "h1", Bounds: domain.Bounds{X: 0, Y: 0, Width: 0.5, Height: 0.5}},
		{ID: "h2", Bounds: domain.Bounds{X: 0.5, Y: 0.5, Width: 0.5, Height: 0.5}},
	}

	rects := MapAll(highlights, 200, 100)
	if len(rects) != 2 {
		t.Fatalf("expected 2 rects, got %d", len(rects))
	}
	if rects[0] != (Rect{X: 0, Y: 0, Width: 100, Height: 50}) {
		t.Errorf("unexpected first rect: %+v", rects[0])
	}
	if rects[1] != (Rect{X: 100, Y: 50, Width: 100, Height: 50}) {
		t.Errorf("unexpected second rect: %+v", rects[1])
	}
}
