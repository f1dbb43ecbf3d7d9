package http

import "testing"

func TestBarPercent(t *testing.T) {
	tests := []struct {
		name   string
		v, max int64
		want   int
	}{
		{"zero max", 10, 0, 0},
		{"zero value", 0, 100, 0},
		{"full", 100, 100, 100},
		{"half", 50, 100, 50},
		{"rounds", 1, 3, 33},
		{"tiny stays visible", 1, 1000, 2},
		{"clamped", 150, 100, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := barPercent(tt.v, tt.max); got != tt.want {
				t.Errorf("barPercent(%d, %d) = %d, want %d", tt.v, tt.max, got, tt.want)
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\tb\x01c\n "); got != "a\tbc" {
		t.Errorf("sanitizeInput() = %q", got)
	}
}
