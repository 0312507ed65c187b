package dnd

import (
	"time"

	"practiceplan-cli/internal/model"
)

// ListStore owns the plan's sections. The engine only reads whole snapshots and
// replaces them whole.
type ListStore interface {
	Read() []model.Section
	Replace(secs []model.Section)
}

// History receives sampled, successful drops. Snapshotting is the recorder's job.
type History interface {
	Record(action string, payload map[string]any, description string)
}

type Marker string

const (
	MarkerDragging          Marker = "dragging"
	MarkerDropBefore        Marker = "drop-before"
	MarkerDropAfter         Marker = "drop-after"
	MarkerSectionDropBefore Marker = "section-drop-before"
	MarkerSectionDropAfter  Marker = "section-drop-after"
	MarkerTimelineTarget    Marker = "timeline-drop-target"
	MarkerEmptySection      Marker = "empty-section-target"
)

// IndicatorSink paints drop affordances. Implementations may fail; the engine never
// depends on them succeeding.
type IndicatorSink interface {
	Mark(el Element, m Marker) error
	Clear(el Element) error
	ClearAll() error
}

// Scheduler runs fn once after d. Runs may be dropped or repeated by the host.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// TimerScheduler schedules on runtime timers; fn runs on another goroutine, so the
// sink it touches must be safe for concurrent use.
type TimerScheduler struct{}

func (TimerScheduler) After(d time.Duration, fn func()) {
	time.AfterFunc(d, fn)
}

type nopSink struct{}

func (nopSink) Mark(Element, Marker) error { return nil }
func (nopSink) Clear(Element) error        { return nil }
func (nopSink) ClearAll() error            { return nil }

type nopHistory struct{}

func (nopHistory) Record(string, map[string]any, string) {}
