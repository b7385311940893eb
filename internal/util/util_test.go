package util

import (
	"testing"
	"time"
)

func TestFormatPoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   int
		expected string
	}{
		{name: "credit", amount: 120, expected: "+120 pts"},
		{name: "debit", amount: -40, expected: "-40 pts"},
		{name: "zero", amount: 0, expected: "0 pts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatPoints(tt.amount); got != tt.expected {
				t.Fatalf("FormatPoints(%d) = %s, want %s", tt.amount, got, tt.expected)
			}
		})
	}
}

func TestAbsInt(t *testing.T) {
	t.Parallel()

	if got := AbsInt(-5000); got != 5000 {
		t.Fatalf("AbsInt(-5000) = %d, want 5000", got)
	}
	if got := AbsInt(7); got != 7 {
		t.Fatalf("AbsInt(7) = %d, want 7", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	t.Parallel()

	if got := NormalizeKey("  Driver.One@Example.COM "); got != "driver.one@example.com" {
		t.Fatalf("NormalizeKey() = %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{name: "under one minute", duration: 45 * time.Second, expected: "45s"},
		{name: "rounded second to minute", duration: 59*time.Second + 500*time.Millisecond, expected: "1m0s"},
		{name: "minutes and seconds", duration: 2*time.Minute + 30*time.Second, expected: "2m30s"},
		{name: "hours and minutes", duration: time.Hour + 30*time.Minute, expected: "1h30m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FormatDuration(tt.duration); got != tt.expected {
				t.Fatalf("FormatDuration(%s) = %s, want %s", tt.duration, got, tt.expected)
			}
		})
	}
}
