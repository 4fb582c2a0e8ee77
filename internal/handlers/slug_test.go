package handlers

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Summer Sale", "summer-sale"},
		{"  Best  Sellers!  ", "best-sellers"},
		{"New & Featured (2024)", "new-featured-2024"},
		{"---", ""},
		{"Çok Özel", "ok-zel"},
	}

	for _, tc := range tests {
		if got := slugify(tc.input); got != tc.expected {
			t.Fatalf("slugify(%q) = %q, expected %q", tc.input, got, tc.expected)
		}
	}
}
