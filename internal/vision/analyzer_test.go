package vision

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/timmy/brandshot/internal/domain"
)

func TestParseHighlights(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedIDs   []string
		expectedError bool
	}{
		{
			name:        "plain JSON array",
			text:        `[{"id":"h1","bounds":{"x":0.1,"y":0.1,"width":0.2,"height":0.2},"explanation":"primary CTA","category":"cta"}]`,
			expectedIDs: []string{"h1"},
		},
		{
			name: "markdown fenced response",
			text: "```json\n[{\"id\":\"h1\",\"bounds\":{\"x\":0.1,\"y\":0.1,\"width\":0.2,\"height\":0.2},\"explanation\":\"hero banner\",\"category\":\"hero\"}]\n```",
			expectedIDs: []string{"h1"},
		},
		{
			name: "prose around the array",
			text: `Here are the detected regions: [{"id":"h1","bounds":{"x":0,"y":0,"width":0.5,"height":0.5},"explanation":"nav bar","category":"navigation"}] Hope that helps!`,
			expectedIDs: []string{"h1"},
		},
		{
			name:        "entry missing bounds is dropped",
			text:        `[{"id":"h1","explanation":"no bounds"},{"id":"h2","bounds":{"x":0.1,"y":0.1,"width":0.2,"height":0.2},"explanation":"ok","category":"cta"}]`,
			expectedIDs: []string{"h2"},
		},
		{
			name:        "entry missing explanation is dropped",
			text:        `[{"id":"h1","bounds":{"x":0.1,"y":0.1,"width":0.2,"height":0.2}}]`,
			expectedIDs: []string{},
		},
		{
			name:        "out-of-range bounds dropped",
			text:        `[{"id":"h1","bounds":{"x":1.5,"y":0.1,"width":0.2,"height":0.2},"explanation":"off screen","category":"cta"}]`,
			expectedIDs: []string{},
		},
		{
			name:        "empty array",
			text:        `[]`,
			expectedIDs: []string{},
		},
		{
			name:          "not JSON",
			text:          "I could not find any regions of interest.",
			expectedError: true,
		},
		{
			name:          "object instead of array",
			text:          `{"id":"h1"}`,
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHighlights(tt.text)
			if tt.expectedError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			ids := make([]string, 0, len(got))
			for _, h := range got {
				ids = append(ids, h.ID)
			}
			if !reflect.DeepEqual(ids, tt.expectedIDs) {
				t.Errorf("expected ids %v, got %v", tt.expectedIDs, ids)
			}
		})
	}
}

func TestParseHighlightsNormalizesCategory(t *testing.T) {
	text := `[{"id":"h1","bounds":{"x":0.1,"y":0.1,"width":0.2,"height":0.2},"explanation":"banner","category":"shiny-new-thing"}]`
	got, err := ParseHighlights(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(got))
	}
	if got[0].Category != domain.HighlightCategoryOther {
		t.Errorf("expected category other, got %s", got[0].Category)
	}
}

func TestFilterHighlightsClampsSmallBoxes(t *testing.T) {
	in := []domain.Highlight{
		{
			ID:          "h1",
			Bounds:      domain.Bounds{X: 0.995, Y: 0.5, Width: 0.005, Height: 0.005},
			Explanation: "tiny box near edge",
			Category:    domain.HighlightCategoryCTA,
		},
	}

	out := FilterHighlights(in)
	if len(out) != 1 {
		t.Fatalf("expected 1 highlight, got %d", len(out))
	}
	b := out[0].Bounds
	if b.Width < 0.01 || b.Height < 0.01 {
		t.Errorf("expected dimensions clamped to at least 0.01, got %+v", b)
	}
	if b.X+b.Width > 1 || b.Y+b.Height > 1 {
		t.Errorf("expected clamped box inside unit square, got %+v", b)
	}
}

func TestFilterHighlightsIdempotent(t *testing.T) {
	in := []domain.Highlight{
		{ID: "h1", Bounds: domain.Bounds{X: 0.99, Y: 0, Width: 0.005, Height: 2}, Explanation: "a", Category: "cta"},
		{ID: "h2", Bounds: domain.Bounds{X: 0.2, Y: 0.2, Width: 0.3, Height: 0.3}, Explanation: "b", Category: "bogus"},
		{ID: "", Bounds: domain.Bounds{X: 0.2, Y: 0.2, Width: 0.3, Height: 0.3}, Explanation: "no id"},
	}

	once := FilterHighlights(in)
	twice := FilterHighlights(once)
	if !reflect.DeepEqual(once, twice) {
		t.Errorf("filter is not idempotent:\nfirst:  %+v\nsecond: %+v", once, twice)
	}
}

func TestNewAnalyzerPriority(t *testing.T) {
	tests := []struct {
		name         string
		cfg          *Config
		expectedName string
	}{
		{
			name: "openai preferred when both configured",
			cfg: &Config{
				OpenAI:    BackendConfig{APIKey: "sk-1", Model: "gpt-4o-mini"},
				Anthropic: BackendConfig{APIKey: "sk-2", Model: "claude-3-5-haiku-latest"},
			},
			expectedName: "openai",
		},
		{
			name: "anthropic when openai missing",
			cfg: &Config{
				Anthropic: BackendConfig{APIKey: "sk-2", Model: "claude-3-5-haiku-latest"},
			},
			expectedName: "anthropic",
		},
		{
			name:         "unconfigured fallback",
			cfg:          &Config{},
			expectedName: "unconfigured",
		},
		{
			name:         "nil config",
			cfg:          nil,
			expectedName: "unconfigured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnalyzer(tt.cfg)
			if a.Name() != tt.expectedName {
				t.Errorf("expected backend %q, got %q", tt.expectedName, a.Name())
			}
		})
	}
}

func TestUnconfiguredAnalyzerErrorsAtUse(t *testing.T) {
	a := NewAnalyzer(nil)

	_, err := a.Analyze(context.Background(), "data:image/png;base64,aGk=")
	if err == nil {
		t.Fatal("expected configuration error, got nil")
	}
	var cfgErr *domain.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestSplitDataURL(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expectedMedia string
		expectedData  string
	}{
		{
			name:          "webp data url",
			input:         "data:image/webp;base64,AAAA",
			expectedMedia: "image/webp",
			expectedData:  "AAAA",
		},
		{
			name:          "raw base64 assumed png",
			input:         "AAAA",
			expectedMedia: "image/png",
			expectedData:  "AAAA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media, data := splitDataURL(tt.input)
			if media != tt.expectedMedia {
				t.Errorf("expected media type %q, got %q", tt.expectedMedia, media)
			}
			if data != tt.expectedData {
				t.Errorf("expected data %q, got %q", tt.expectedData, data)
			}
		})
	}
}
