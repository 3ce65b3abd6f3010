package output

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty string", "", 0},
		{"four chars", "abcd", 1},
		{"rounds up", "abcdef", 2},
		{"code line", "catch (Exception ex) { }", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestFormatTokenCount(t *testing.T) {
	tests := []struct {
		tokens int
		want   string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{12345, "12.3k"},
	}

	for _, tt := range tests {
		if got := FormatTokenCount(tt.tokens); got != tt.want {
			t.Errorf("FormatTokenCount(%d) = %q, want %q", tt.tokens, got, tt.want)
		}
	}
}
