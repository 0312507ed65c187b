package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// truncate cuts s to width display columns, ANSI-aware, with a trailing ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, width-1) + "…"
}

// padRight pads or truncates s to exactly width columns.
func padRight(s string, width int) string {
	s = truncate(s, width)
	if w := xansi.StringWidth(s); w < width {
		s += strings.Repeat(" ", width-w)
	}
	return s
}

// clipLines keeps the lines [from, from+height) of s.
func clipLines(s string, from, height int) string {
	lines := strings.Split(s, "\n")
	if from < 0 {
		from = 0
	}
	if from > len(lines) {
		from = len(lines)
	}
	lines = lines[from:]
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
