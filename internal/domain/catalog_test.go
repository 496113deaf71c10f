package domain

import "testing"

func TestParsePageType(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expected   PageType
		expectedOK bool
	}{
		{name: "slug", input: "homepage", expected: PageTypeHomepage, expectedOK: true},
		{name: "display label", input: "Product Page", expected: PageTypeProduct, expectedOK: true},
		{name: "other", input: "other", expected: PageTypeOther, expectedOK: true},
		{name: "label casing", input: "Homepage", expected: PageTypeHomepage, expectedOK: true},
		{name: "unknown", input: "landing-zone", expectedOK: false},
		{name: "empty", input: "", expectedOK: false},
		{name: "uppercase", input: "HOMEPAGE", expectedOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePageType(tt.input)
			if ok != tt.expectedOK {
				t.Fatalf("expected ok=%v, got %v", tt.expectedOK, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("cta"); got != HighlightCategoryCTA {
		t.Errorf("expected cta, got %s", got)
	}
	if got := NormalizeCategory("something-else"); got != HighlightCategoryOther {
		t.Errorf("expected other, got %s", got)
	}
	if got := NormalizeCategory(""); got != HighlightCategoryOther {
		t.Errorf("expected other for empty input, got %s", got)
	}
}
