package util

import (
	"fmt"
	"strings"
	"time"
)

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// AbsInt returns the absolute value of n.
func AbsInt(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// NormalizeKey lowercases and trims s for case-insensitive lookups such as usernames and emails.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FormatPoints renders a signed point amount as "+120 pts" or "-40 pts".
func FormatPoints(amount int) string {
	if amount > 0 {
		return fmt.Sprintf("+%d pts", amount)
	}

	return fmt.Sprintf("%d pts", amount)
}

// FormatDuration formats duration into human readable format (e.g., "1h30m", "5m10s", "45s").
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	}

	if duration < time.Hour {
		m := int(duration.Minutes())
		s := int(duration.Seconds()) % 60

		return fmt.Sprintf("%dm%ds", m, s)
	}

	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60

	return fmt.Sprintf("%dh%dm", h, m)
}
