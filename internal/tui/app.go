package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"go.uber.org/zap"

	"practiceplan-cli/internal/dnd"
	"practiceplan-cli/internal/history"
	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/store"
)

type Options struct {
	Store  store.Store
	Plan   *model.Plan
	List   *store.Sections
	Ledger *history.Ledger
	Engine dnd.Options
	Logger *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// shared is state every copy of the model points at: bubbletea passes the model by
// value, while the list subscription fires from inside Update.
type shared struct {
	rev      int
	savedRev int
	unsub    func()
}

type editorModel struct {
	st     store.Store
	plan   *model.Plan
	list   *store.Sections
	ledger *history.Ledger
	engine *dnd.Engine
	sink   *markerSink
	sched  *tickScheduler
	zm     *zone.Manager
	zones  zoneLookup
	keys   keyMap
	log    *zap.Logger
	shared *shared

	targets []zoneTarget
	hover   string

	width     int
	height    int
	scroll    int
	focus     int
	showNotes bool
	status    string
}

type savedMsg struct{ err error }

func newEditorModel(opts Options) editorModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sink := newMarkerSink()
	sched := &tickScheduler{}
	zm := zone.New()
	m := editorModel{
		st:     opts.Store,
		plan:   opts.Plan,
		list:   opts.List,
		ledger: opts.Ledger,
		sink:   sink,
		sched:  sched,
		zm:     zm,
		zones:  zm,
		keys:   defaultKeyMap(),
		log:    log.Named("tui"),
		shared: &shared{},
		width:  80,
	}
	var hist dnd.History
	if opts.Ledger != nil {
		hist = opts.Ledger
	}
	m.engine = dnd.New(dnd.Deps{
		Store:     opts.List,
		History:   hist,
		Sink:      sink,
		Scheduler: sched,
		Clock:     opts.Clock,
		Logger:    log,
	}, opts.Engine)

	sh := m.shared
	sh.unsub = opts.List.Subscribe(func([]model.Section) { sh.rev++ })
	m.targets = buildTargets(opts.List.Read())
	return m
}

func (m editorModel) Init() tea.Cmd { return nil }

func (m editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sweepMsg:
		if msg.fn != nil {
			msg.fn()
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "save failed: " + msg.err.Error()
			m.log.Error("save failed", zap.Error(msg.err))
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		m.updateMouse(msg)
		cmd := m.afterEngine()
		return m, cmd
	}
	return m, nil
}

func (m editorModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Reset()
		m.saveViewState()
		if m.shared.unsub != nil {
			m.shared.unsub()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.engine.DragEnd(&dnd.Event{})
		m.hover = ""
	case key.Matches(msg, m.keys.Undo):
		m.undoRedo(true)
	case key.Matches(msg, m.keys.Redo):
		m.undoRedo(false)
	case key.Matches(msg, m.keys.Notes):
		m.showNotes = !m.showNotes
	case key.Matches(msg, m.keys.Up):
		if m.focus > 0 {
			m.focus--
		}
		if m.scroll > 0 {
			m.scroll--
		}
	case key.Matches(msg, m.keys.Down):
		if m.focus < len(m.list.Read())-1 {
			m.focus++
		}
		m.scroll++
	}
	cmd := m.afterEngine()
	return m, cmd
}

func (m *editorModel) undoRedo(undo bool) {
	if m.ledger == nil {
		return
	}
	m.engine.Reset()
	op, fn := "undo", m.ledger.Undo
	if !undo {
		op, fn = "redo", m.ledger.Redo
	}
	e, ok, err := fn(context.Background())
	switch {
	case err != nil:
		m.status = fmt.Sprintf("%s: %v", op, err)
	case !ok:
		m.status = "nothing to " + op
	default:
		m.status = fmt.Sprintf("%s: %s", op, e.Description)
	}
}

func (m *editorModel) updateMouse(msg tea.MouseMsg) {
	ev := mouse(msg)
	x, y := msg.X, msg.Y
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		t, ok := hitTest(m.zones, m.targets, x, y)
		if !ok {
			return
		}
		m.focus = t.section
		m.startDrag(ev, t)

	case tea.MouseActionMotion:
		if m.engine.State() != dnd.StateDragging {
			return
		}
		m.hoverAt(ev, x, y)

	case tea.MouseActionRelease:
		if m.engine.State() != dnd.StateDragging {
			return
		}
		// The release cell is the final hover; a throttled one is applied by Drop.
		m.hoverAt(mouse(msg), x, y)
		m.engine.Drop(ev)
		m.hover = ""
	}
}

// hoverAt dispatches leave and dragOver for the deepest target under (x, y).
func (m *editorModel) hoverAt(ev *dnd.Event, x, y int) {
	targets := m.targets
	if m.engine.Session().DragType == dnd.DragSection {
		targets = sectionTargets(targets)
	}
	t, ok := hitTest(m.zones, targets, x, y)
	if !ok {
		return
	}
	if m.hover != "" && m.hover != t.id {
		m.engine.DragLeave(&dnd.Event{PointerY: float64(y), Current: m.element(m.hover), Related: m.element(t.id)})
	}
	m.hover = t.id
	ev.PointerY = float64(y)
	ev.Current = m.element(t.id)
	m.dragOver(ev, t)
}

func mouse(msg tea.MouseMsg) *dnd.Event {
	return &dnd.Event{PointerY: float64(msg.Y)}
}

func sectionTargets(ts []zoneTarget) []zoneTarget {
	out := make([]zoneTarget, 0, len(ts))
	for _, t := range ts {
		if t.kind == zoneSection {
			out = append(out, t)
		}
	}
	return out
}

func (m *editorModel) element(id string) dnd.Element {
	if id == "" {
		return nil
	}
	return zoneElement{id: id, zones: m.zones}
}

func (m *editorModel) startDrag(ev *dnd.Event, t zoneTarget) {
	ev.Current = m.element(t.id)
	secs := m.list.Read()
	switch t.kind {
	case zoneItem:
		if t.section >= len(secs) || t.item >= len(secs[t.section].Items) {
			return
		}
		it := secs[t.section].Items[t.item]
		m.engine.StartItemDrag(ev, t.section, t.item, it, it.ID, t.timelineIdx)
	case zoneGroup:
		m.engine.StartGroupDrag(ev, t.section, t.groupID)
	case zoneSection:
		m.engine.StartSectionDrag(ev, t.section)
	}
	if ev.Canceled() {
		m.log.Debug("drag start canceled", zap.String("zone", t.id))
	}
}

func (m *editorModel) dragOver(ev *dnd.Event, t zoneTarget) {
	switch t.kind {
	case zoneItem:
		secs := m.list.Read()
		if t.section < len(secs) && t.item < len(secs[t.section].Items) {
			m.engine.DragOverItem(ev, t.section, t.item, secs[t.section].Items[t.item])
		}
	case zoneTimeline:
		m.engine.DragOverTimeline(ev, t.section, t.groupID, t.timeline)
	case zoneGroup:
		m.engine.DragOverGroup(ev, t.section, t.groupID)
	case zoneEmptySection:
		m.engine.DragOverEmptySection(ev, t.section)
	case zoneSection:
		m.engine.DragOverSection(ev, t.section)
	}
}

// afterEngine refreshes hit targets, schedules deferred sweeps and saves the plan when
// the list changed.
func (m *editorModel) afterEngine() tea.Cmd {
	cmds := m.sched.drain()
	if m.shared.rev != m.shared.savedRev {
		m.shared.savedRev = m.shared.rev
		secs := m.list.Read()
		m.targets = buildTargets(secs)
		if m.focus >= len(secs) {
			m.focus = max(0, len(secs)-1)
		}
		cmds = append(cmds, m.saveCmd(secs))
	}
	return tea.Batch(cmds...)
}

func (m *editorModel) saveCmd(secs []model.Section) tea.Cmd {
	if m.plan == nil || strings.TrimSpace(m.st.Dir) == "" {
		return nil
	}
	p := *m.plan
	p.Sections = secs
	st := m.st
	return func() tea.Msg {
		return savedMsg{err: st.SavePlan(context.Background(), &p)}
	}
}

func (m *editorModel) saveViewState() {
	if strings.TrimSpace(m.st.Dir) == "" {
		return
	}
	secs := m.list.Read()
	vs := &store.TUIState{Scroll: m.scroll, ShowNotes: m.showNotes}
	if m.focus < len(secs) {
		vs.FocusSectionID = secs[m.focus].ID
	}
	if err := m.st.SaveTUIState(vs); err != nil {
		m.log.Warn("view state not saved", zap.Error(err))
	}
}

func (m *editorModel) restoreViewState(vs *store.TUIState) {
	if vs == nil {
		return
	}
	m.scroll = max(0, vs.Scroll)
	m.showNotes = vs.ShowNotes
	for i, s := range m.list.Read() {
		if s.ID == vs.FocusSectionID {
			m.focus = i
		}
	}
}

func (m editorModel) View() string {
	secs := m.list.Read()
	r := renderer{width: m.width, sink: m.sink, focus: m.focus}
	if m.zm != nil {
		r.zm = m.zm
	}

	name := "Practice Plan"
	if m.plan != nil && m.plan.Name != "" {
		name = m.plan.Name
	}
	header := lipgloss.NewStyle().Bold(true).Render(name) + "  " +
		styleMuted().Render(fmt.Sprintf("%s · %d items", minutes(model.PlanDuration(secs)), model.CountItems(secs)))

	body := clipLines(r.outline(secs), m.scroll, m.bodyHeight())
	view := header + "\n\n" + body + "\n" + m.footer(secs)
	if m.zm == nil {
		return view
	}
	return m.zm.Scan(view)
}

func (m editorModel) bodyHeight() int {
	if m.height <= 0 {
		return 0
	}
	h := m.height - 4
	if m.showNotes {
		h -= 6
	}
	return max(1, h)
}

func (m editorModel) footer(secs []model.Section) string {
	var parts []string
	if m.showNotes && m.focus < len(secs) {
		notes := renderNotes(secs[m.focus].Notes, max(10, m.width-4))
		if notes == "" {
			notes = styleMuted().Render("(no notes)")
		}
		parts = append(parts, clipLines(notes, 0, 6))
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	var help []string
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	parts = append(parts, styleMuted().Render(truncate(strings.Join(help, " · "), max(10, m.width))))
	return strings.Join(parts, "\n")
}
