// Package dnd is the drag-and-drop reordering engine for plan sections, items and
// parallel blocks. An Engine holds at most one drag session; every handler returns
// the engine to a consistent state whatever the host or the list does.
package dnd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"practiceplan-cli/internal/model"
)

const HistoryAction = "DRAG_DROP"

type Options struct {
	// MinStartInterval debounces drag starts.
	MinStartInterval time.Duration
	// MinDragOverInterval throttles target updates.
	MinDragOverInterval time.Duration
	// HistorySampleEvery records every Nth successful drop. Zero disables recording.
	HistorySampleEvery int
	SweepDelays        []time.Duration
}

func DefaultOptions() Options {
	return Options{
		MinStartInterval:    100 * time.Millisecond,
		MinDragOverInterval: 40 * time.Millisecond,
		HistorySampleEvery:  5,
		SweepDelays:         DefaultSweepDelays,
	}
}

type Deps struct {
	Store     ListStore
	History   History
	Sink      IndicatorSink
	Scheduler Scheduler
	Clock     func() time.Time
	Logger    *zap.Logger
}

// Event carries what the host knows about a pointer event. Current is the element the
// handler is bound to; Related is the element the pointer moved into (leave only).
type Event struct {
	PointerY float64
	Current  Element
	Related  Element

	canceled bool
}

// Cancel tells the host not to begin its native drag.
func (ev *Event) Cancel() {
	if ev != nil {
		ev.canceled = true
	}
}

func (ev *Event) Canceled() bool { return ev != nil && ev.canceled }

func (ev *Event) current() Element {
	if ev == nil {
		return nil
	}
	return ev.Current
}

func (ev *Event) pointerY() float64 {
	if ev == nil {
		return 0
	}
	return ev.PointerY
}

type Engine struct {
	store   ListStore
	history History
	ind     *Indicators
	now     func() time.Time
	log     *zap.Logger
	opts    Options

	session   Session
	sourceEl  Element
	targetEl  Element
	lastStart time.Time
	lastOver  time.Time
	pending   *pendingOver
	commits   int
}

// pendingOver is the newest dragOver the throttle held back. A terminal pointer that
// stops moving sends no further events, so Drop applies it.
type pendingOver struct {
	key   string
	kind  TargetKind
	apply func()
}

func elementKey(el Element) string {
	if el == nil {
		return ""
	}
	return el.Key()
}

func New(deps Deps, opts Options) *Engine {
	if deps.Store == nil {
		panic("dnd: New requires a ListStore")
	}
	if deps.History == nil {
		deps.History = nopHistory{}
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Scheduler == nil {
		deps.Scheduler = TimerScheduler{}
	}
	log := deps.Logger.Named("dnd")
	e := &Engine{
		store:   deps.Store,
		history: deps.History,
		ind:     NewIndicators(deps.Sink, deps.Scheduler, opts.SweepDelays, log),
		now:     deps.Clock,
		log:     log,
		opts:    opts,
	}
	e.session.clearTarget()
	return e
}

// Session returns a copy of the current session.
func (e *Engine) Session() Session { return e.session }

func (e *Engine) State() State { return e.session.State() }

// Reset aborts any in-flight drag without committing.
func (e *Engine) Reset() {
	e.end()
}

// StartItemDrag begins dragging one item. timelineIdx is the item's column inside a
// parallel block, or -1.
func (e *Engine) StartItemDrag(ev *Event, sectionIdx, itemIdx int, item model.Item, itemID string, timelineIdx int) {
	defer e.guard("start item drag")
	if !e.admitStart(ev) {
		return
	}
	id := strings.TrimSpace(itemID)
	if id == "" {
		id = strings.TrimSpace(item.ID)
	}
	if id == "" {
		e.log.Warn("item drag rejected: no item id", zap.Int("section", sectionIdx), zap.Int("item", itemIdx), zap.String("name", item.Name))
		ev.Cancel()
		return
	}
	e.begin(ev, DragItem, Source{
		SectionIdx:  sectionIdx,
		SectionID:   e.sectionID(sectionIdx),
		ItemIdx:     itemIdx,
		ItemID:      id,
		ItemName:    item.Name,
		GroupID:     item.GroupID(),
		Timeline:    item.Timeline(),
		TimelineIdx: timelineIdx,
	})
}

func (e *Engine) StartGroupDrag(ev *Event, sectionIdx int, groupID string) {
	defer e.guard("start group drag")
	if !e.admitStart(ev) {
		return
	}
	if strings.TrimSpace(groupID) == "" {
		e.log.Warn("group drag rejected: no group id", zap.Int("section", sectionIdx))
		ev.Cancel()
		return
	}
	e.begin(ev, DragGroup, Source{
		SectionIdx:  sectionIdx,
		SectionID:   e.sectionID(sectionIdx),
		ItemIdx:     -1,
		GroupID:     groupID,
		TimelineIdx: -1,
	})
}

func (e *Engine) StartSectionDrag(ev *Event, sectionIdx int) {
	defer e.guard("start section drag")
	if !e.admitStart(ev) {
		return
	}
	e.begin(ev, DragSection, Source{
		SectionIdx:  sectionIdx,
		SectionID:   e.sectionID(sectionIdx),
		ItemIdx:     -1,
		TimelineIdx: -1,
	})
}

func (e *Engine) admitStart(ev *Event) bool {
	now := e.now()
	if !e.lastStart.IsZero() && now.Sub(e.lastStart) < e.opts.MinStartInterval {
		e.log.Debug("drag start debounced", zap.Duration("since", now.Sub(e.lastStart)))
		ev.Cancel()
		return false
	}
	e.lastStart = now
	return true
}

func (e *Engine) begin(ev *Event, t DragType, src Source) {
	if e.session.Active {
		e.log.Info("clearing stale drag session", zap.String("type", string(e.session.DragType)))
		e.ind.ClearAll()
		e.sourceEl, e.targetEl = nil, nil
	}
	e.session = Session{Active: true, DragType: t, Source: src}
	e.session.clearTarget()
	e.lastOver = time.Time{}
	e.pending = nil
	e.sourceEl = ev.current()
	e.ind.Mark(e.sourceEl, MarkerDragging)
	e.log.Debug("drag started", zap.String("type", string(t)), zap.Int("section", src.SectionIdx), zap.String("item", src.ItemID), zap.String("group", src.GroupID))
}

func (e *Engine) sectionID(idx int) string {
	secs := e.store.Read()
	if idx < 0 || idx >= len(secs) {
		return ""
	}
	return secs[idx].ID
}

// over runs apply unless the throttle holds it back, in which case it becomes the
// pending candidate.
func (e *Engine) over(ev *Event, kind TargetKind, apply func()) {
	if !e.session.Active {
		return
	}
	now := e.now()
	if !e.lastOver.IsZero() && now.Sub(e.lastOver) < e.opts.MinDragOverInterval {
		e.pending = &pendingOver{key: elementKey(ev.current()), kind: kind, apply: apply}
		return
	}
	e.lastOver = now
	e.pending = nil
	e.applyOver(kind, apply)
}

func (e *Engine) applyOver(kind TargetKind, apply func()) {
	if !Accepts(e.session.DragType, kind) {
		e.dropTarget()
		return
	}
	apply()
}

func (e *Engine) DragOverItem(ev *Event, sectionIdx, itemIdx int, item model.Item) {
	defer e.guard("drag over item")
	e.over(ev, TargetItem, func() { e.overItem(ev, sectionIdx, itemIdx, item) })
}

func (e *Engine) overItem(ev *Event, sectionIdx, itemIdx int, item model.Item) {
	src := e.session.Source
	if e.isSourceItem(sectionIdx, itemIdx, item) {
		e.dropTarget()
		return
	}
	t := Target{
		Kind:       TargetItem,
		SectionIdx: sectionIdx,
		SectionID:  e.sectionID(sectionIdx),
		ItemIdx:    itemIdx,
		ItemID:     item.ID,
		GroupID:    item.GroupID(),
		Timeline:   item.Timeline(),
	}
	pos := ResolveDropPosition(ev.pointerY(), ev.current())

	if e.session.DragType == DragItem && t.GroupID != "" {
		same := src.SectionIdx == sectionIdx && src.GroupID == t.GroupID && src.Timeline == t.Timeline
		if !same {
			pos = PositionInside
		}
		e.setTarget(ev, t, pos, same)
		return
	}
	if e.session.DragType == DragGroup && t.GroupID != "" && t.GroupID == src.GroupID && sectionIdx == src.SectionIdx {
		e.dropTarget()
		return
	}
	e.setTarget(ev, t, pos, false)
}

func (e *Engine) isSourceItem(sectionIdx, itemIdx int, item model.Item) bool {
	src := e.session.Source
	if e.session.DragType != DragItem {
		return false
	}
	if item.ID != "" && src.ItemID != "" {
		return item.ID == src.ItemID
	}
	return sectionIdx == src.SectionIdx && itemIdx == src.ItemIdx
}

func (e *Engine) DragOverGroup(ev *Event, sectionIdx int, groupID string) {
	defer e.guard("drag over group")
	e.over(ev, TargetGroup, func() { e.overGroup(ev, sectionIdx, groupID) })
}

func (e *Engine) overGroup(ev *Event, sectionIdx int, groupID string) {
	if e.session.DragType == DragGroup && groupID == e.session.Source.GroupID && sectionIdx == e.session.Source.SectionIdx {
		e.dropTarget()
		return
	}
	t := Target{Kind: TargetGroup, SectionIdx: sectionIdx, SectionID: e.sectionID(sectionIdx), ItemIdx: -1, GroupID: groupID}
	e.setTarget(ev, t, ResolveDropPosition(ev.pointerY(), ev.current()), false)
}

func (e *Engine) DragOverSection(ev *Event, sectionIdx int) {
	defer e.guard("drag over section")
	e.over(ev, TargetSection, func() { e.overSection(ev, sectionIdx) })
}

func (e *Engine) overSection(ev *Event, sectionIdx int) {
	if sectionIdx == e.session.Source.SectionIdx {
		e.dropTarget()
		return
	}
	t := Target{Kind: TargetSection, SectionIdx: sectionIdx, SectionID: e.sectionID(sectionIdx), ItemIdx: -1}
	e.setTarget(ev, t, ResolveDropPosition(ev.pointerY(), ev.current()), false)
}

func (e *Engine) DragOverTimeline(ev *Event, sectionIdx int, groupID, timeline string) {
	defer e.guard("drag over timeline")
	e.over(ev, TargetTimeline, func() { e.overTimeline(ev, sectionIdx, groupID, timeline) })
}

func (e *Engine) overTimeline(ev *Event, sectionIdx int, groupID, timeline string) {
	src := e.session.Source
	same := src.SectionIdx == sectionIdx && src.GroupID == groupID && src.Timeline == timeline
	t := Target{Kind: TargetTimeline, SectionIdx: sectionIdx, SectionID: e.sectionID(sectionIdx), ItemIdx: -1, GroupID: groupID, Timeline: timeline}
	e.setTarget(ev, t, PositionInside, same)
}

func (e *Engine) DragOverEmptySection(ev *Event, sectionIdx int) {
	defer e.guard("drag over empty section")
	e.over(ev, TargetEmptySection, func() { e.overEmptySection(ev, sectionIdx) })
}

func (e *Engine) overEmptySection(ev *Event, sectionIdx int) {
	t := Target{Kind: TargetEmptySection, SectionIdx: sectionIdx, SectionID: e.sectionID(sectionIdx), ItemIdx: 0}
	e.setTarget(ev, t, PositionInside, false)
}

func (e *Engine) setTarget(ev *Event, t Target, pos DropPosition, sameTimeline bool) {
	el := ev.current()
	if el != nil {
		t.ElementKey = el.Key()
	}
	if e.targetEl != nil && (el == nil || e.targetEl.Key() != t.ElementKey) {
		e.ind.Clear(e.targetEl)
	}
	e.session.Target = t
	e.session.DropPosition = pos
	e.session.SameTimeline = sameTimeline
	e.targetEl = el

	switch {
	case t.Kind == TargetTimeline || (t.Kind == TargetItem && pos == PositionInside):
		e.ind.Replace(el, MarkerTimelineTarget)
	case t.Kind == TargetEmptySection:
		e.ind.Replace(el, MarkerEmptySection)
	default:
		e.ind.Replace(el, positionMarker(pos, t.Kind == TargetSection))
	}
}

func (e *Engine) dropTarget() {
	if e.targetEl != nil {
		e.ind.Clear(e.targetEl)
		e.targetEl = nil
	}
	e.session.clearTarget()
}

// DragLeave clears the current element's indicator unless the pointer only moved
// into one of its descendants.
func (e *Engine) DragLeave(ev *Event) {
	defer e.guard("drag leave")
	cur := ev.current()
	if !e.session.Active || cur == nil {
		return
	}
	if ev.Related != nil && cur.Contains(ev.Related) {
		return
	}
	if e.pending != nil && e.pending.key == cur.Key() {
		e.pending = nil
	}
	e.ind.Clear(cur)
	if e.session.Target.ElementKey != "" && e.session.Target.ElementKey == cur.Key() {
		e.targetEl = nil
		e.session.clearTarget()
	}
}

// DragEnd finishes a drag that ended without a drop.
func (e *Engine) DragEnd(ev *Event) {
	defer e.guard("drag end")
	e.end()
}

// Drop commits the session against the live list. The engine is idle afterwards
// whether or not anything changed.
func (e *Engine) Drop(ev *Event) {
	defer e.guard("drop")
	defer e.end()
	if !e.session.Active {
		return
	}
	if p := e.pending; p != nil {
		e.pending = nil
		e.log.Debug("applying throttled drag over before drop", zap.String("target", string(p.kind)))
		e.applyOver(p.kind, p.apply)
	}
	s := e.session
	if !s.HasTarget() {
		e.log.Debug("drop without target", zap.String("type", string(s.DragType)))
		return
	}

	before := e.store.Read()
	next, changed, err := Commit(s, before)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrIndexOutOfRange) {
			e.log.Warn("drop source or target no longer resolves; list unchanged", zap.String("type", string(s.DragType)), zap.Error(err))
		} else {
			e.log.Error("drop failed; list unchanged", zap.String("type", string(s.DragType)), zap.Error(err))
		}
		return
	}
	if !changed {
		e.log.Debug("drop left list unchanged", zap.String("type", string(s.DragType)))
		return
	}
	e.store.Replace(next)
	e.commits++
	e.log.Info("drop committed",
		zap.String("type", string(s.DragType)),
		zap.String("target", string(s.Target.Kind)),
		zap.String("position", string(s.DropPosition)),
		zap.Int("commits", e.commits))

	if every := e.opts.HistorySampleEvery; every > 0 && e.commits%every == 0 {
		e.history.Record(HistoryAction, map[string]any{
			"dragType":     string(s.DragType),
			"source":       s.Source,
			"target":       s.Target,
			"dropPosition": string(s.DropPosition),
			"oldSections":  before,
		}, fmt.Sprintf("Moved %s", s.DragType))
	}
}

// Commits reports how many drops have changed the list since the engine was built.
func (e *Engine) Commits() int { return e.commits }

func (e *Engine) end() {
	e.ind.Clear(e.sourceEl)
	e.ind.Sweep()
	e.sourceEl, e.targetEl = nil, nil
	e.pending = nil
	e.session = Session{}
	e.session.clearTarget()
}

func (e *Engine) guard(op string) {
	if r := recover(); r != nil {
		e.log.Error("drag handler panicked; session reset", zap.String("op", op), zap.String("panic", fmt.Sprint(r)))
		e.end()
	}
}
