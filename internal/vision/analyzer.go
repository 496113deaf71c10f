package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/brandshot/internal/domain"
)

// Analyzer detects highlighted regions of interest in a captured image.
// Both hosted-model backends implement the identical contract, so they
// are interchangeable at the call site.
type Analyzer interface {
	// Analyze sends the image to the backing vision model and returns the
	// parsed, validated highlight list.
	Analyze(ctx context.Context, imageData string) ([]domain.Highlight, error)

	// Name identifies the backend for logging.
	Name() string
}

// BackendConfig holds credentials for one vision backend.
type BackendConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config holds both backend configurations. Whichever has credentials is
// used, preferring OpenAI by fixed priority order.
type Config struct {
	OpenAI    BackendConfig
	Anthropic BackendConfig
}

// NewAnalyzer selects a backend by priority-ordered configuration check.
// When neither backend has credentials the returned Analyzer reports a
// ConfigurationError at first use rather than failing construction.
func NewAnalyzer(cfg *Config) Analyzer {
	if cfg != nil && cfg.OpenAI.APIKey != "" {
		return newOpenAIAnalyzer(&cfg.OpenAI)
	}
	if cfg != nil && cfg.Anthropic.APIKey != "" {
		return newAnthropicAnalyzer(&cfg.Anthropic)
	}
	return unconfigured{}
}

// unconfigured defers the missing-credentials error to first use.
type unconfigured struct{}

func (unconfigured) Analyze(ctx context.Context, imageData string) ([]domain.Highlight, error) {
	return nil, &domain.ConfigurationError{Msg: "no vision backend configured: set OPENAI_API_KEY or ANTHROPIC_API_KEY"}
}

func (unconfigured) Name() string {
	return "unconfigured"
}

// rawHighlight mirrors one element of the model's JSON array before
// validation.
type rawHighlight struct {
	ID          string         `json:"id"`
	Bounds      *domain.Bounds `json:"bounds"`
	Explanation string         `json:"explanation"`
	Category    string         `json:"category"`
}

// ParseHighlights extracts the JSON array from a model text response and
// returns the validated highlight list. Parse failures propagate; they are
// equivalent to provider failure for callers.
func ParseHighlights(text string) ([]domain.Highlight, error) {
	payload := extractJSONArray(text)

	var raw []rawHighlight
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse highlight response: %w", err)
	}

	now := time.Now()
	highlights := make([]domain.Highlight, 0, len(raw))
	for _, r := range raw {
		if r.ID == "" || r.Bounds == nil || r.Explanation == "" {
			continue
		}
		highlights = append(highlights, domain.Highlight{
			ID:          r.ID,
			Bounds:      *r.Bounds,
			Explanation: r.Explanation,
			Category:    domain.NormalizeCategory(r.Category),
			AnalyzedAt:  now,
		})
	}

	return FilterHighlights(highlights), nil
}

// FilterHighlights drops entries whose bounds fall outside the unit square
// and clamps the survivors. The filter is idempotent: re-validating an
// already-validated list returns it unchanged.
func FilterHighlights(in []domain.Highlight) []domain.Highlight {
	out := make([]domain.Highlight, 0, len(in))
	for _, h := range in {
		if h.ID == "" || h.Explanation == "" {
			continue
		}
		if !h.Bounds.InUnitSquare() {
			continue
		}
		h.Bounds = h.Bounds.Clamp()
		h.Category = domain.NormalizeCategory(string(h.Category))
		out = append(out, h)
	}
	return out
}

// extractJSONArray strips an optional markdown code fence and trims the
// response to the outermost JSON array.
func extractJSONArray(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end > start {
		return text[start : end+1]
	}
	return text
}

// splitDataURL separates a data-URL image payload into media type and raw
// base64. Raw base64 input is assumed to be a PNG.
func splitDataURL(imageData string) (mediaType, data string) {
	if !strings.HasPrefix(imageData, "data:") {
		return "image/png", imageData
	}
	rest := strings.TrimPrefix(imageData, "data:")
	semi := strings.Index(rest, ";base64,")
	if semi == -1 {
		return "image/png", imageData
	}
	return rest[:semi], rest[semi+len(";base64,"):]
}
