package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"practiceplan-cli/internal/model"
)

// The editor must stay readable on light and dark terminals, so every colour is an
// AdaptiveColor and faint styling is only used on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted     = ac("240", "243")
	colorSurfaceFg = ac("235", "252")
	colorControlBg = ac("252", "235")
	colorAccent    = ac("27", "62")
	colorWarn      = ac("166", "214")
	colorDrop      = ac("28", "42")
	colorBorder    = ac("250", "243")

	// One colour per builtin timeline; custom timelines use colorMuted.
	timelineColors = map[string]lipgloss.AdaptiveColor{
		model.TimelineBeaters: ac("124", "203"),
		model.TimelineChasers: ac("22", "114"),
		model.TimelineSeekers: ac("136", "221"),
	}
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

func timelineColor(name string) lipgloss.AdaptiveColor {
	if c, ok := timelineColors[name]; ok {
		return c
	}
	return colorMuted
}

// applyColorProfilePreference honours NO_COLOR and otherwise trusts TERM/COLORTERM when
// they claim more than termenv detects.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}

	profile := termenv.ColorProfile()
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	colorterm := strings.ToLower(strings.TrimSpace(os.Getenv("COLORTERM")))
	if strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit") {
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	} else if strings.Contains(term, "256color") && (profile == termenv.Ascii || profile == termenv.ANSI) {
		profile = termenv.ANSI256
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference: PRACTICEPLAN_TUI_THEME=light|dark|auto, then the COLORFGBG
// heuristic ("fg;bg").
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("PRACTICEPLAN_TUI_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
