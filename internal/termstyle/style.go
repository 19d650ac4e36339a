// Package termstyle provides the small set of colored status output the
// CLI uses for ls/health, built on termenv so it degrades correctly on
// non-color terminals and respects NO_COLOR.
package termstyle

import (
	"github.com/muesli/termenv"
)

var profile = termenv.EnvColorProfile()

// SetProfile overrides the auto-detected color profile. For testing.
func SetProfile(p termenv.Profile) {
	profile = p
}

// Enabled returns whether styling is currently active.
func Enabled() bool {
	return profile != termenv.Ascii
}

func style(s, color string) string {
	if !Enabled() || s == "" {
		return s
	}
	return termenv.String(s).Foreground(profile.Color(color)).String()
}

// Bold renders text in bold.
func Bold(s string) string {
	if !Enabled() || s == "" {
		return s
	}
	return termenv.String(s).Bold().String()
}

// Dim renders text in dim/faint.
func Dim(s string) string {
	if !Enabled() || s == "" {
		return s
	}
	return termenv.String(s).Faint().String()
}

func Red(s string) string     { return style(s, "1") }
func Green(s string) string   { return style(s, "2") }
func Yellow(s string) string  { return style(s, "3") }
func Magenta(s string) string { return style(s, "5") }
func Cyan(s string) string    { return style(s, "6") }
func Gray(s string) string    { return style(s, "7") }

// GreenDot/YellowDot/RedDot/GrayDot/RedX are status glyphs for ls/health.
func GreenDot() string  { return Green("●") }
func YellowDot() string { return Yellow("●") }
func RedDot() string    { return Red("●") }
func GrayDot() string   { return Gray("○") }
func RedX() string      { return Red("✗") }
