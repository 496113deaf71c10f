package domain

import "time"

// HighlightCategory tags a detected region with a fixed small vocabulary.
type HighlightCategory string

const (
	HighlightCategoryCTA         HighlightCategory = "cta"
	HighlightCategoryNavigation  HighlightCategory = "navigation"
	HighlightCategoryHero        HighlightCategory = "hero"
	HighlightCategorySocialProof HighlightCategory = "social_proof"
	HighlightCategoryPricing     HighlightCategory = "pricing"
	HighlightCategoryOther       HighlightCategory = "other"
)

// NormalizeCategory maps arbitrary model output to a known category,
// defaulting to "other".
func NormalizeCategory(s string) HighlightCategory {
	switch HighlightCategory(s) {
	case HighlightCategoryCTA, HighlightCategoryNavigation, HighlightCategoryHero,
		HighlightCategorySocialProof, HighlightCategoryPricing:
		return HighlightCategory(s)
	default:
		return HighlightCategoryOther
	}
}

// Bounds is a normalized bounding box with all coordinates in [0,1].
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// minBoxDimension guards against degenerate model output.
const minBoxDimension = 0.01

// InUnitSquare reports whether the box lies within the unit square with
// positive dimensions. Used to reject entries before clamping.
func (b Bounds) InUnitSquare() bool {
	if b.X < 0 || b.X > 1 || b.Y < 0 || b.Y > 1 {
		return false
	}
	if b.Width <= 0 || b.Height <= 0 {
		return false
	}
	return b.Width <= 1 && b.Height <= 1
}

// Clamp returns the box with dimensions forced into [0.01, 1] and the
// origin adjusted so the box stays inside the unit square. Clamping an
// already-clamped box is a no-op.
func (b Bounds) Clamp() Bounds {
	if b.Width < minBoxDimension {
		b.Width = minBoxDimension
	}
	if b.Width > 1 {
		b.Width = 1
	}
	if b.Height < minBoxDimension {
		b.Height = minBoxDimension
	}
	if b.Height > 1 {
		b.Height = 1
	}
	if b.X < 0 {
		b.X = 0
	}
	if b.X+b.Width > 1 {
		b.X = 1 - b.Width
	}
	if b.Y < 0 {
		b.Y = 0
	}
	if b.Y+b.Height > 1 {
		b.Y = 1 - b.Height
	}
	return b
}

// Highlight represents one detected region of interest within a captured
// image. Highlights are created in bulk by the vision response parser and
// are immutable after creation.
type Highlight struct {
	ID          string            `json:"id"`
	Bounds      Bounds            `json:"bounds"`
	Explanation string            `json:"explanation"`
	Category    HighlightCategory `json:"category"`
	AnalyzedAt  time.Time         `json:"analyzedAt"`
}
