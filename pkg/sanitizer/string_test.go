package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"only whitespace", "   \t\n  ", ""},
		{"surrounding whitespace", "  birthday party  ", "birthday party"},
		{"internal runs collapse", "board   meeting\t\tQ3", "board meeting Q3"},
		{"already clean", "yoga class", "yoga class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.expected {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizePurpose_StripsControlCharacters(t *testing.T) {
	got := NormalizePurpose("community\x00 dinner\x1b[31m")
	if got != "community dinner[31m" {
		t.Errorf("NormalizePurpose() = %q", got)
	}
}

func TestNormalizeID(t *testing.T) {
	if got := NormalizeID("  Main-Hall "); got != "main-hall" {
		t.Errorf("NormalizeID() = %q, want %q", got, "main-hall")
	}
}
