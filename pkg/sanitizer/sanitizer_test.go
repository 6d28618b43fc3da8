package sanitizer

import (
	"strings"
	"testing"
)

func TestSanitizeNameOrAddress(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "spaces and punctuation",
			input: "  Taman  Suropati, Menteng ",
			want:  "taman_suropati_menteng",
		},
		{
			name:  "case differences collapse",
			input: "TAMAN suropati",
			want:  "taman_suropati",
		},
		{
			name:  "digits kept",
			input: "Jl. Sudirman No. 5",
			want:  "jl_sudirman_no_5",
		},
		{
			name:  "only symbols",
			input: "--- ,,, ",
			want:  "",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeNameOrAddress(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeNameOrAddress(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeNameOrAddress(got); again != got {
				t.Errorf("not idempotent: %q then %q", got, again)
			}
		})
	}
}

func TestSanitizeFreeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trims and collapses spaces",
			input: "  please   bring  a reflector  ",
			want:  "please bring a reflector",
		},
		{
			name:  "keeps line breaks",
			input: "golden hour\r\nno flash",
			want:  "golden hour\nno flash",
		},
		{
			name:  "drops control characters",
			input: "family\x00 portrait\x07",
			want:  "family portrait",
		},
		{
			name:  "tabs become spaces",
			input: "two\tlooks",
			want:  "two looks",
		},
		{
			name:  "blank lines squashed",
			input: "first\n\n\n\n\nsecond",
			want:  "first\n\nsecond",
		},
		{
			name:  "only whitespace",
			input: " \n\t ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFreeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeFreeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFreeText_Truncates(t *testing.T) {
	long := strings.Repeat("ab ", 600)

	got := SanitizeFreeText(long)

	if n := len([]rune(got)); n > maxFreeTextLength {
		t.Errorf("expected at most %d runes, got %d", maxFreeTextLength, n)
	}
	if SanitizeFreeText(got) != got {
		t.Error("expected truncated text to be stable")
	}
}

func TestSanitizeID(t *testing.T) {
	if got := SanitizeID("  p1 \n"); got != "p1" {
		t.Errorf("SanitizeID = %q, want %q", got, "p1")
	}
}
