package dnd

import (
	"errors"
	"sort"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"practiceplan-cli/internal/model"
)

type memStore struct {
	secs     []model.Section
	replaces int
	panicOn  bool
}

func (m *memStore) Read() []model.Section {
	if m.panicOn {
		panic("store unavailable")
	}
	return model.CloneSections(m.secs)
}

func (m *memStore) Replace(secs []model.Section) {
	m.replaces++
	m.secs = model.CloneSections(secs)
}

type recorded struct {
	action      string
	payload     map[string]any
	description string
}

type recHistory struct{ calls []recorded }

func (r *recHistory) Record(action string, payload map[string]any, description string) {
	r.calls = append(r.calls, recorded{action: action, payload: payload, description: description})
}

type fakeSink struct {
	marks     map[string]Marker
	clearAlls int
	err       error
	panicMark bool
}

func newFakeSink() *fakeSink { return &fakeSink{marks: map[string]Marker{}} }

func (f *fakeSink) Mark(el Element, m Marker) error {
	if f.panicMark {
		panic("paint failed")
	}
	if f.err != nil {
		return f.err
	}
	f.marks[el.Key()] = m
	return nil
}

func (f *fakeSink) Clear(el Element) error {
	delete(f.marks, el.Key())
	return f.err
}

func (f *fakeSink) ClearAll() error {
	f.clearAlls++
	f.marks = map[string]Marker{}
	return f.err
}

type pending struct {
	d  time.Duration
	fn func()
}

type manualScheduler struct{ queue []pending }

func (s *manualScheduler) After(d time.Duration, fn func()) {
	s.queue = append(s.queue, pending{d: d, fn: fn})
}

func (s *manualScheduler) delays() []time.Duration {
	var out []time.Duration
	for _, p := range s.queue {
		out = append(out, p.d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *manualScheduler) runAll() {
	q := s.queue
	s.queue = nil
	for _, p := range q {
		p.fn()
	}
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeElement struct {
	key      string
	rect     Rect
	err      error
	children []string
}

func el(key string) *fakeElement {
	return &fakeElement{key: key, rect: Rect{Top: 0, Height: 10}}
}

func (f *fakeElement) Key() string { return f.key }

func (f *fakeElement) Rect() (Rect, error) { return f.rect, f.err }

func (f *fakeElement) Contains(other Element) bool {
	if other == nil {
		return false
	}
	if other.Key() == f.key {
		return true
	}
	for _, c := range f.children {
		if c == other.Key() {
			return true
		}
	}
	return false
}

const (
	upperHalf = 2.0
	lowerHalf = 8.0
)

type harness struct {
	t     *testing.T
	store *memStore
	hist  *recHistory
	sink  *fakeSink
	sched *manualScheduler
	clock *fakeClock
	logs  *observer.ObservedLogs
	eng   *Engine
}

func newHarness(t *testing.T, secs []model.Section, mods ...func(*Options)) *harness {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	h := &harness{
		t:     t,
		store: &memStore{secs: secs},
		hist:  &recHistory{},
		sink:  newFakeSink(),
		sched: &manualScheduler{},
		clock: &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
		logs:  logs,
	}
	opts := DefaultOptions()
	opts.HistorySampleEvery = 1
	for _, m := range mods {
		m(&opts)
	}
	h.eng = New(Deps{
		Store:     h.store,
		History:   h.hist,
		Sink:      h.sink,
		Scheduler: h.sched,
		Clock:     h.clock.Now,
		Logger:    zap.New(core),
	}, opts)
	return h
}

// step moves the clock past every debounce and throttle window.
func (h *harness) step() { h.clock.Advance(time.Second) }

func (h *harness) item(si, ii int) model.Item { return h.store.secs[si].Items[ii] }

func (h *harness) startItem(si, ii int) *Event {
	h.step()
	it := h.item(si, ii)
	ev := &Event{Current: el("item:" + it.ID)}
	h.eng.StartItemDrag(ev, si, ii, it, it.ID, -1)
	return ev
}

func (h *harness) startGroup(si int, gid string) *Event {
	h.step()
	ev := &Event{Current: el("group:" + gid)}
	h.eng.StartGroupDrag(ev, si, gid)
	return ev
}

func (h *harness) startSection(si int) *Event {
	h.step()
	ev := &Event{Current: el("section:" + h.store.secs[si].ID)}
	h.eng.StartSectionDrag(ev, si)
	return ev
}

func (h *harness) overItem(si, ii int, y float64) {
	h.step()
	it := h.item(si, ii)
	h.eng.DragOverItem(&Event{PointerY: y, Current: el("item:" + it.ID)}, si, ii, it)
}

func (h *harness) overGroup(si int, gid string, y float64) {
	h.step()
	h.eng.DragOverGroup(&Event{PointerY: y, Current: el("group:" + gid)}, si, gid)
}

func (h *harness) overSection(si int, y float64) {
	h.step()
	h.eng.DragOverSection(&Event{PointerY: y, Current: el("section:" + h.store.secs[si].ID)}, si)
}

func (h *harness) overTimeline(si int, gid, tl string) {
	h.step()
	h.eng.DragOverTimeline(&Event{Current: el("timeline:" + gid + ":" + tl)}, si, gid, tl)
}

func (h *harness) overEmpty(si int) {
	h.step()
	h.eng.DragOverEmptySection(&Event{Current: el("empty:" + h.store.secs[si].ID)}, si)
}

func (h *harness) drop() {
	h.step()
	h.eng.Drop(&Event{})
}

func drill(id string) model.Item {
	return model.Item{ID: id, Kind: model.ItemKindDrill, Name: "Drill " + id, Duration: 10}
}

func member(id, gid, tl string, roster ...string) model.Item {
	it := drill(id)
	it.Group = &model.GroupMembership{GroupID: gid, Timeline: tl, Roster: roster}
	return it
}

func section(id string, items ...model.Item) model.Section {
	return model.Section{ID: id, Name: "Section " + id, Items: items}
}

func ids(items []model.Item) []string {
	out := []string{}
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func sectionIDs(secs []model.Section) []string {
	var out []string
	for _, s := range secs {
		out = append(out, s.ID)
	}
	return out
}

var errPaint = errors.New("paint failed")
