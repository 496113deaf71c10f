// Package overlay converts normalized highlight bounding boxes into
// on-screen pixel rectangles for overlay rendering. Mapping is purely in
// CSS pixel space; device-pixel-ratio scaling is not applied.
package overlay

import (
	"math"

	"github.com/timmy/brandshot/internal/domain"
)

// Rect is an axis-aligned pixel rectangle within a displayed image.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MapToDisplay converts a normalized bounding box into a pixel rectangle
// by multiplying normalized coordinates by the displayed width/height.
// Displayed dimensions change independent of natural image dimensions, so
// callers recompute on every resize.
//
// For any box with x,y in [0,1] and width,height in (0,1], the result
// lies entirely within the displayed rectangle.
func MapToDisplay(b domain.Bounds, displayWidth, displayHeight int) Rect {
	if displayWidth <= 0 || displayHeight <= 0 {
		return Rect{}
	}

	x := int(math.Round(b.X * float64(displayWidth)))
	y := int(math.Round(b.Y * float64(displayHeight)))
	w := int(math.Round(b.Width * float64(displayWidth)))
	h := int(math.Round(b.Height * float64(displayHeight)))

	// Rounding can push the far edge past the display edge.
	if x+w > displayWidth {
		w = displayWidth - x
	}
	if y+h > displayHeight {
		h = displayHeight - y
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}

	return Rect{X: x, Y: y, Width: w, Height: h}
}

// MapAll converts a highlight list against one displayed image size.
func MapAll(highlights []domain.Highlight, displayWidth, displayHeight int) []Rect {
	rects := make([]Rect, len(highlights))
	for i, h := range highlights {
		rects[i] = MapToDisplay(h.Bounds, displayWidth, displayHeight)
	}
	return rects
}
