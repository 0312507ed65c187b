package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"practiceplan-cli/internal/dnd"
	"practiceplan-cli/internal/history"
	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/store"
)

type fakeZones map[string]*zone.ZoneInfo

func (f fakeZones) Get(id string) *zone.ZoneInfo { return f[id] }

func box(x0, y0, x1, y1 int) *zone.ZoneInfo {
	return &zone.ZoneInfo{StartX: x0, StartY: y0, EndX: x1, EndY: y1}
}

func item(id string) model.Item {
	return model.Item{ID: id, Kind: model.ItemKindDrill, Name: id, Duration: 10}
}

func testSections() []model.Section {
	return []model.Section{
		{ID: "s0", Name: "Warmup", Order: 0, Items: []model.Item{item("a"), item("b")}},
		{ID: "s1", Name: "Half Court", Order: 1, Items: []model.Item{item("c")}},
	}
}

func newTestEditor(t *testing.T, secs []model.Section, mods ...func(*Options)) (editorModel, *store.Sections, *history.Ledger) {
	t.Helper()
	list := store.NewSections(secs)
	ledger := history.New(list, history.Options{})
	opts := Options{
		List:   list,
		Ledger: ledger,
		Engine: dnd.Options{HistorySampleEvery: 1, SweepDelays: []time.Duration{10 * time.Millisecond}},
	}
	for _, mod := range mods {
		mod(&opts)
	}
	m := newEditorModel(opts)
	m.zm = nil
	m.zones = fakeZones{
		sectionZoneID(0): box(0, 0, 40, 5),
		itemZoneID(0, 0): box(2, 2, 40, 3),
		itemZoneID(0, 1): box(2, 4, 40, 5),
		sectionZoneID(1): box(0, 7, 40, 10),
		itemZoneID(1, 0): box(2, 9, 40, 10),
	}
	return m, list, ledger
}

func ids(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func send(t *testing.T, m editorModel, msg tea.Msg) (editorModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	em, ok := next.(editorModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return em, cmd
}

func TestEditor_MouseDragMovesItemAcrossSections(t *testing.T) {
	m, list, ledger := newTestEditor(t, testSections())

	m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.engine.State() != dnd.StateDragging {
		t.Fatalf("expected dragging after press, got %q", m.engine.State())
	}
	if got := m.sink.marker(itemZoneID(0, 0)); got != dnd.MarkerDragging {
		t.Fatalf("expected source marked dragging, got %q", got)
	}

	// Bottom row of c's two-row card: drop after c.
	m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	s := m.engine.Session()
	if s.Target.Kind != dnd.TargetItem || s.DropPosition != dnd.PositionAfter {
		t.Fatalf("unexpected target: %+v pos=%q", s.Target, s.DropPosition)
	}
	if got := m.sink.marker(itemZoneID(1, 0)); got != dnd.MarkerDropAfter {
		t.Fatalf("expected drop-after marker on c, got %q", got)
	}

	m, cmd := send(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if cmd == nil {
		t.Fatalf("expected sweep and save commands after drop")
	}
	if m.engine.State() != dnd.StateIdle {
		t.Fatalf("expected idle after drop")
	}
	got := list.Read()
	if strings.Join(ids(got[0].Items), ",") != "b" || strings.Join(ids(got[1].Items), ",") != "c,a" {
		t.Fatalf("unexpected lists: %v / %v", ids(got[0].Items), ids(got[1].Items))
	}
	if m.sink.len() != 0 {
		t.Fatalf("expected indicators cleared, got %d", m.sink.len())
	}
	if !ledger.CanUndo() {
		t.Fatalf("expected drop recorded in history")
	}

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")})
	got = list.Read()
	if strings.Join(ids(got[0].Items), ",") != "a,b" {
		t.Fatalf("undo did not restore: %v", ids(got[0].Items))
	}
	if !strings.HasPrefix(m.status, "undo: ") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time          { return c.now }
func (c *stepClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestEditor_QuickMoveThenReleaseUsesReleaseTarget(t *testing.T) {
	tests := []struct {
		name  string
		pause time.Duration
	}{
		{name: "release after pause", pause: 100 * time.Millisecond},
		{name: "release inside throttle window", pause: 5 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &stepClock{now: time.Date(2026, 3, 3, 18, 0, 0, 0, time.UTC)}
			m, list, _ := newTestEditor(t, testSections(), func(o *Options) {
				o.Engine = dnd.DefaultOptions()
				o.Engine.HistorySampleEvery = 1
				o.Clock = clock.Now
			})

			m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
			clock.Advance(10 * time.Millisecond)
			// Leaves b for the bottom half of c faster than the dragOver throttle.
			m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
			clock.Advance(tt.pause)
			m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

			if m.engine.State() != dnd.StateIdle {
				t.Fatalf("expected idle after release")
			}
			got := list.Read()
			if strings.Join(ids(got[0].Items), ",") != "b" || strings.Join(ids(got[1].Items), ",") != "c,a" {
				t.Fatalf("unexpected lists: %v / %v", ids(got[0].Items), ids(got[1].Items))
			}
		})
	}
}

func TestEditor_EscCancelsDrag(t *testing.T) {
	m, list, _ := newTestEditor(t, testSections())

	m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 9, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	if m.engine.State() != dnd.StateIdle {
		t.Fatalf("expected idle after esc")
	}
	if m.sink.len() != 0 {
		t.Fatalf("expected indicators cleared")
	}
	m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 9, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	if got := list.Read(); len(got[0].Items) != 2 {
		t.Fatalf("expected list unchanged, got %v", ids(got[0].Items))
	}
}

func TestEditor_SectionDragIgnoresNestedZones(t *testing.T) {
	m, list, _ := newTestEditor(t, testSections())

	m, _ = send(t, m, tea.MouseMsg{X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.engine.Session().DragType != dnd.DragSection {
		t.Fatalf("expected section drag, got %q", m.engine.Session().DragType)
	}
	// Pointer is over item c, but a section drag only sees sections.
	m, _ = send(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	if k := m.engine.Session().Target.Kind; k != dnd.TargetSection {
		t.Fatalf("expected section target, got %q", k)
	}
	_, _ = send(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})

	got := list.Read()
	if got[0].ID != "s1" || got[1].ID != "s0" || got[0].Order != 0 || got[1].Order != 1 {
		t.Fatalf("unexpected section order: %+v", got)
	}
}

func TestEditor_SweepMsgRunsDeferredClear(t *testing.T) {
	m, _, _ := newTestEditor(t, testSections())

	ran := false
	m, _ = send(t, m, sweepMsg{fn: func() { ran = true }})
	if !ran {
		t.Fatalf("expected sweep fn to run")
	}
}

func TestHitTest_DeepestFirst(t *testing.T) {
	secs := testSections()
	targets := buildTargets(secs)
	zones := fakeZones{
		sectionZoneID(0): box(0, 0, 40, 5),
		itemZoneID(0, 0): box(2, 2, 40, 3),
	}
	got, ok := hitTest(zones, targets, 3, 3)
	if !ok || got.kind != zoneItem || got.item != 0 {
		t.Fatalf("expected item hit, got %+v ok=%v", got, ok)
	}
	got, ok = hitTest(zones, targets, 3, 0)
	if !ok || got.kind != zoneSection {
		t.Fatalf("expected section hit, got %+v ok=%v", got, ok)
	}
	if _, ok := hitTest(zones, targets, 50, 50); ok {
		t.Fatalf("expected miss")
	}
}

func TestZoneElement_RectAndContains(t *testing.T) {
	zones := fakeZones{
		"outer": box(0, 0, 40, 9),
		"inner": box(2, 3, 30, 4),
	}
	outer := zoneElement{id: "outer", zones: zones}
	inner := zoneElement{id: "inner", zones: zones}

	r, err := inner.Rect()
	if err != nil || r.Top != 3 || r.Height != 2 {
		t.Fatalf("unexpected rect %+v err=%v", r, err)
	}
	if !outer.Contains(inner) || inner.Contains(outer) {
		t.Fatalf("containment is wrong")
	}
	if _, err := (zoneElement{id: "gone", zones: zones}).Rect(); err != dnd.ErrUnmeasurable {
		t.Fatalf("expected ErrUnmeasurable, got %v", err)
	}
}

func TestRender_OutlineShowsBlocksAndMarkers(t *testing.T) {
	roster := []string{"Beaters", "Seekers"}
	secs := []model.Section{
		{ID: "s0", Name: "Half Court", Items: []model.Item{
			{ID: "p1", Kind: model.ItemKindBreak, Name: "Beater drill", Duration: 10,
				Group: &model.GroupMembership{GroupID: "g", Timeline: "Beaters", Roster: roster}},
			{ID: "p2", Kind: model.ItemKindBreak, Name: "Seeker drill", Duration: 15,
				Group: &model.GroupMembership{GroupID: "g", Timeline: "Seekers", Roster: roster}},
		}},
		{ID: "s1", Name: "Cooldown"},
	}
	sink := newMarkerSink()
	_ = sink.Mark(zoneElement{id: emptyZoneID(1)}, dnd.MarkerEmptySection)

	out := renderer{width: 100, sink: sink}.outline(secs)
	for _, want := range []string{"Half Court", "Parallel block", "Beater drill", "Seeker drill", "5m short", "drop here"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestTickScheduler_DrainsOnce(t *testing.T) {
	s := &tickScheduler{}
	s.After(time.Millisecond, func() {})
	s.After(2*time.Millisecond, func() {})
	if got := len(s.drain()); got != 2 {
		t.Fatalf("expected 2 commands, got %d", got)
	}
	if got := len(s.drain()); got != 0 {
		t.Fatalf("expected empty queue, got %d", got)
	}
}
