package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"practiceplan-cli/internal/dnd"
	"practiceplan-cli/internal/model"
)

// zoneMarker is the marking half of *zone.Manager.
type zoneMarker interface {
	Mark(id, v string) string
}

type renderer struct {
	width int
	sink  *markerSink
	zm    zoneMarker
	focus int
}

func (r renderer) mark(id, v string) string {
	if r.zm == nil {
		return v
	}
	return r.zm.Mark(id, v)
}

func (r renderer) marker(id string) dnd.Marker {
	if r.sink == nil {
		return ""
	}
	return r.sink.marker(id)
}

func gutter(m dnd.Marker) string {
	drop := lipgloss.NewStyle().Foreground(colorDrop).Bold(true)
	switch m {
	case dnd.MarkerDropBefore, dnd.MarkerSectionDropBefore:
		return drop.Render("▲ ")
	case dnd.MarkerDropAfter, dnd.MarkerSectionDropAfter:
		return drop.Render("▼ ")
	case dnd.MarkerDragging:
		return styleMuted().Render("┆ ")
	default:
		return "  "
	}
}

func kindGlyph(k model.ItemKind) string {
	switch k {
	case model.ItemKindDrill:
		return "●"
	case model.ItemKindBreak:
		return "◌"
	case model.ItemKindFormation:
		return "◆"
	default:
		return "○"
	}
}

func minutes(n int) string { return fmt.Sprintf("%dm", n) }

func (r renderer) outline(secs []model.Section) string {
	blocks := make([]string, 0, len(secs))
	for si, s := range secs {
		blocks = append(blocks, r.section(si, s))
	}
	return strings.Join(blocks, "\n\n")
}

func (r renderer) section(si int, s model.Section) string {
	id := sectionZoneID(si)
	m := r.marker(id)

	title := lipgloss.NewStyle().Bold(true)
	if si == r.focus {
		title = title.Foreground(colorAccent)
	}
	if m == dnd.MarkerDragging {
		title = faintIfDark(title)
	}
	meta := minutes(model.SectionDuration(s))
	if n := len(s.Goals); n > 0 {
		meta += fmt.Sprintf(" · %d goal", n)
		if n > 1 {
			meta += "s"
		}
	}
	lines := []string{
		gutter(m) + title.Render(truncate("▍ "+s.Name, r.width-2)),
		"  " + styleMuted().Render(meta),
	}

	body := r.items(si, s.Items)
	if len(s.Items) == 0 {
		body = r.emptySection(si)
	}
	return r.mark(id, strings.Join(lines, "\n")+"\n"+indent(body, 2))
}

func (r renderer) emptySection(si int) string {
	id := emptyZoneID(si)
	st := styleMuted()
	text := "(empty, drop items here)"
	if r.marker(id) == dnd.MarkerEmptySection {
		st = lipgloss.NewStyle().Foreground(colorDrop).Bold(true)
		text = "→ drop here"
	}
	return r.mark(id, "  "+st.Render(text))
}

func (r renderer) items(si int, items []model.Item) string {
	var out []string
	for ii := 0; ii < len(items); ii++ {
		gid := items[ii].GroupID()
		if gid == "" {
			out = append(out, r.item(si, ii, items[ii], r.width-4))
			continue
		}
		_, last, ok := model.GroupSpan(items, gid)
		if !ok {
			continue
		}
		out = append(out, r.group(si, gid, items))
		ii = last
	}
	return strings.Join(out, "\n")
}

func (r renderer) item(si, ii int, it model.Item, width int) string {
	id := itemZoneID(si, ii)
	m := r.marker(id)
	name := lipgloss.NewStyle()
	if m == dnd.MarkerDragging {
		name = faintIfDark(name)
	}
	if m == dnd.MarkerTimelineTarget {
		name = name.Foreground(colorDrop).Bold(true)
	}
	w := width - 2
	line1 := gutter(m) + name.Render(truncate(kindGlyph(it.Kind)+" "+it.Name, w))
	line2 := "  " + styleMuted().Render(truncate(fmt.Sprintf("  %s · %s", it.Kind, minutes(it.Duration)), w))
	return r.mark(id, line1+"\n"+line2)
}

func (r renderer) group(si int, gid string, items []model.Item) string {
	id := groupZoneID(si, gid)
	m := r.marker(id)
	roster := model.GroupRoster(items, gid)

	head := lipgloss.NewStyle().Bold(true)
	if m == dnd.MarkerDragging {
		head = faintIfDark(head)
	}
	header := gutter(m) + head.Render("⇉ Parallel block") + " " + styleMuted().Render(minutes(model.BlockDuration(items, gid)))
	var warn []string
	for _, mm := range model.TimelineMismatches(items, gid) {
		warn = append(warn, fmt.Sprintf("%s %dm short", model.TimelineLabel(mm.Timeline), mm.Shortfall))
	}
	if len(warn) > 0 {
		header += "  " + lipgloss.NewStyle().Foreground(colorWarn).Render("⚠ "+strings.Join(warn, ", "))
	}

	avail := r.width - 6
	colW := avail
	if n := len(roster); n > 0 {
		colW = (avail - (n - 1)) / n
	}
	if colW < 12 {
		colW = 12
	}
	cols := make([]string, 0, len(roster)*2)
	for i, tl := range roster {
		if i > 0 {
			cols = append(cols, " ")
		}
		cols = append(cols, r.timeline(si, gid, tl, items, colW))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cols...)
	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(colorBorder).
		PaddingLeft(1)
	return r.mark(id, header+"\n"+box.Render(body))
}

func (r renderer) timeline(si int, gid, tl string, items []model.Item, width int) string {
	id := timelineZoneID(si, gid, tl)
	members := model.TimelineMembers(items, gid, tl)
	total := 0
	for _, ii := range members {
		total += items[ii].Duration
	}

	st := lipgloss.NewStyle().Foreground(timelineColor(tl)).Bold(true)
	prefix := ""
	if r.marker(id) == dnd.MarkerTimelineTarget {
		st = st.Background(colorControlBg)
		prefix = "→ "
	}
	lines := []string{padRight(st.Render(prefix+model.TimelineLabel(tl)+" "+minutes(total)), width)}
	for _, ii := range members {
		for _, ln := range strings.Split(r.item(si, ii, items[ii], width), "\n") {
			lines = append(lines, padRight(ln, width))
		}
	}
	if len(members) == 0 {
		lines = append(lines, padRight(styleMuted().Render("(empty)"), width))
	}
	return r.mark(id, strings.Join(lines, "\n"))
}

func indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = pad + lines[i]
	}
	return strings.Join(lines, "\n")
}
