package analyzer

import (
	"testing"
)

func TestContainsTagalog(t *testing.T) {
	tests := []struct {
		name       string
		normalized string
		expected   bool
	}{
		{name: "tagalog sentence", normalized: "malungkot ako ngayon", expected: true},
		{name: "taglish", normalized: "i feel so pagod today", expected: true},
		{name: "indicator at start", normalized: "salamat", expected: true},
		{name: "plain english", normalized: "i am very happy today", expected: false},
		{name: "substring does not count", normalized: "the language is tangible", expected: false},
		{name: "ambiguous english words excluded", normalized: "may i sit at the table", expected: false},
		{name: "empty", normalized: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsTagalog(tt.normalized); got != tt.expected {
				t.Errorf("ContainsTagalog(%q) = %v, want %v", tt.normalized, got, tt.expected)
			}
		})
	}
}

func TestWordLanguage(t *testing.T) {
	if got := wordLanguage("Masaya"); got != "tagalog" {
		t.Errorf("Expected tagalog, got %s", got)
	}
	if got := wordLanguage("happy"); got != "english" {
		t.Errorf("Expected english, got %s", got)
	}
}
