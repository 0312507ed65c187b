package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"practiceplan-cli/internal/model"
)

const textWidth = 80

// PlanView renders a plan as an indented outline.
type PlanView struct {
	Plan *model.Plan
}

func (v PlanView) MarshalJSON() ([]byte, error) {
	return jsonOf(v.Plan)
}

func (v PlanView) Text() string {
	p := v.Plan
	if p == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%dm)\n", p.Name, model.PlanDuration(p.Sections))
	for si, s := range p.Sections {
		fmt.Fprintf(&b, "\n%d. %s (%dm) [%s]\n", si+1, s.Name, model.SectionDuration(s), s.ID)
		for _, g := range s.Goals {
			fmt.Fprintf(&b, "   goal: %s\n", g)
		}
		if notes := notesText(s.Notes); notes != "" {
			for _, ln := range strings.Split(notes, "\n") {
				b.WriteString("   " + ln + "\n")
			}
		}
		writeItems(&b, s.Items)
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeItems(b *strings.Builder, items []model.Item) {
	for ii := 0; ii < len(items); ii++ {
		it := items[ii]
		gid := it.GroupID()
		if gid == "" {
			fmt.Fprintf(b, "   - %s (%s, %dm) [%s]\n", it.Name, it.Kind, it.Duration, it.ID)
			continue
		}
		_, last, _ := model.GroupSpan(items, gid)
		fmt.Fprintf(b, "   = parallel block %s (%dm)\n", gid, model.BlockDuration(items, gid))
		for _, tl := range model.GroupRoster(items, gid) {
			fmt.Fprintf(b, "     %s:\n", model.TimelineLabel(tl))
			for _, mi := range model.TimelineMembers(items, gid, tl) {
				m := items[mi]
				fmt.Fprintf(b, "       - %s (%s, %dm) [%s]\n", m.Name, m.Kind, m.Duration, m.ID)
			}
		}
		for _, mm := range model.TimelineMismatches(items, gid) {
			fmt.Fprintf(b, "     ! %s finishes %dm early\n", model.TimelineLabel(mm.Timeline), mm.Shortfall)
		}
		ii = last
	}
}

// notesText renders markdown notes for plain terminals; on failure the raw notes are
// returned.
func notesText(md string) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("notty"), glamour.WithWordWrap(textWidth-4))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// HistoryView lists undo and redo entries without their snapshots.
type HistoryView struct {
	Undo []model.HistoryEntry
	Redo []model.HistoryEntry
}

type historyRow struct {
	ID          string    `json:"id"`
	TS          time.Time `json:"ts"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
}

func rows(es []model.HistoryEntry) []historyRow {
	out := make([]historyRow, 0, len(es))
	for _, e := range es {
		out = append(out, historyRow{ID: e.ID, TS: e.TS, Type: e.Type, Description: e.Description})
	}
	return out
}

func (v HistoryView) MarshalJSON() ([]byte, error) {
	return jsonOf(map[string]any{"undo": rows(v.Undo), "redo": rows(v.Redo)})
}

func (v HistoryView) Text() string {
	var b strings.Builder
	b.WriteString("undo (newest last):\n")
	if len(v.Undo) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, r := range rows(v.Undo) {
		fmt.Fprintf(&b, "  %s  %-14s %s\n", r.TS.Local().Format("2006-01-02 15:04:05"), r.Type, r.Description)
	}
	b.WriteString("redo:\n")
	if len(v.Redo) == 0 {
		b.WriteString("  (empty)\n")
	}
	for _, r := range rows(v.Redo) {
		fmt.Fprintf(&b, "  %s  %-14s %s\n", r.TS.Local().Format("2006-01-02 15:04:05"), r.Type, r.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
