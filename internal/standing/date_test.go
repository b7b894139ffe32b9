package standing

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024-03-02T00:00:00", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-11-02T00:00:00Z", time.Date(2024, 11, 2, 0, 0, 0, 0, time.UTC)},
		{"2024-11-02T08:30:00.123", time.Date(2024, 11, 2, 8, 30, 0, 123000000, time.UTC)},
		{"2024/06/01", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"06/01/2024", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"6/1/2024", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"02/15/26", time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)},
		{"Mar 13 2026", time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)},
		{"Mar 3 2026", time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)},
		{"  2024-01-13  ", time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"", time.Time{}},
		{"TBD", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDate(tt.input)
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-03-02T00:00:00", "2024-03-02"},
		{"2024/06/01", "2024-06-01"},
		{"Jan 2 2025", "2025-01-02"},
		{" TBD ", "TBD"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeDate(tt.input); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
