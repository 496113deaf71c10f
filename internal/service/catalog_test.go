package service

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple", input: "Acme", expected: "acme"},
		{name: "spaces", input: "Acme Outdoor Gear", expected: "acme-outdoor-gear"},
		{name: "punctuation collapsed", input: "Ben & Jerry's", expected: "ben-jerry-s"},
		{name: "leading and trailing junk", input: "  --Brand!  ", expected: "brand"},
		{name: "digits kept", input: "Store 24", expected: "store-24"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.input); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
