package logger

import (
	"fmt"

	"github.com/fatih/color"
)

// colorScheme holds the colors used in the run summary.
// With enabled=false every method returns plain text.
type colorScheme struct {
	enabled bool
	good    *color.Color
	bad     *color.Color
	muted   *color.Color
}

func newColorScheme(enabled bool) *colorScheme {
	return &colorScheme{
		enabled: enabled,
		good:    color.New(color.FgGreen, color.Bold),
		bad:     color.New(color.FgYellow),
		muted:   color.New(color.FgHiBlack),
	}
}

// count renders a positive total in green, zero muted
func (s *colorScheme) count(n int) string {
	text := fmt.Sprintf("%d", n)
	if !s.enabled {
		return text
	}
	if n == 0 {
		return s.muted.Sprint(text)
	}
	return s.good.Sprint(text)
}

// problem renders a non-zero problem count in yellow
func (s *colorScheme) problem(n int) string {
	text := fmt.Sprintf("%d", n)
	if !s.enabled || n == 0 {
		return text
	}
	return s.bad.Sprint(text)
}
