// Package history keeps the plan's undo/redo stacks. Each entry holds the sections as
// they were before the step it undoes.
package history

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"practiceplan-cli/internal/dnd"
	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/store"
)

// SnapshotKey is the payload key a recorder may use to hand over the pre-change
// sections. It is stripped from the stored payload.
const SnapshotKey = "oldSections"

const DefaultMaxEntries = 50

// Saver persists both stacks. store.Store satisfies it.
type Saver interface {
	SaveHistory(ctx context.Context, st store.HistoryState) error
}

type Options struct {
	MaxEntries int
	Saver      Saver
	Clock      func() time.Time
	Logger     *zap.Logger
}

type Ledger struct {
	mu   sync.Mutex
	list dnd.ListStore

	undo []model.HistoryEntry
	redo []model.HistoryEntry

	max   int
	saver Saver
	now   func() time.Time
	log   *zap.Logger
}

func New(list dnd.ListStore, opts Options) *Ledger {
	if list == nil {
		panic("history: nil list store")
	}
	l := &Ledger{list: list, max: opts.MaxEntries, saver: opts.Saver, now: opts.Clock, log: opts.Logger}
	if l.max <= 0 {
		l.max = DefaultMaxEntries
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	l.log = l.log.Named("history")
	return l
}

// Restore replaces both stacks, typically with what store.LoadHistory returned.
func (l *Ledger) Restore(st store.HistoryState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.undo = append([]model.HistoryEntry(nil), st.Undo...)
	l.redo = append([]model.HistoryEntry(nil), st.Redo...)
	l.trimLocked()
}

// Record pushes an undo entry and clears the redo stack. It never fails; a
// persistence error is logged.
func (l *Ledger) Record(action string, payload map[string]any, description string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	snap, rest := splitSnapshot(payload)
	if snap == nil {
		snap = l.list.Read()
	}
	l.undo = append(l.undo, model.HistoryEntry{
		ID:          store.NewID("hist"),
		TS:          l.now().UTC(),
		Type:        action,
		Description: description,
		Payload:     rest,
		Snapshot:    model.CloneSections(snap),
	})
	l.redo = nil
	l.trimLocked()

	if err := l.saveLocked(context.Background()); err != nil {
		l.log.Warn("history not persisted", zap.String("action", action), zap.Error(err))
	}
}

func splitSnapshot(payload map[string]any) ([]model.Section, map[string]any) {
	if len(payload) == 0 {
		return nil, nil
	}
	rest := make(map[string]any, len(payload))
	var snap []model.Section
	for k, v := range payload {
		if k == SnapshotKey {
			if secs, ok := v.([]model.Section); ok {
				snap = secs
			}
			continue
		}
		rest[k] = v
	}
	if len(rest) == 0 {
		rest = nil
	}
	return snap, rest
}

func (l *Ledger) trimLocked() {
	if over := len(l.undo) - l.max; over > 0 {
		l.undo = append([]model.HistoryEntry(nil), l.undo[over:]...)
	}
	if over := len(l.redo) - l.max; over > 0 {
		l.redo = append([]model.HistoryEntry(nil), l.redo[over:]...)
	}
}

func (l *Ledger) saveLocked(ctx context.Context) error {
	if l.saver == nil {
		return nil
	}
	return l.saver.SaveHistory(ctx, store.HistoryState{Undo: l.undo, Redo: l.redo})
}

// Undo restores the newest undo snapshot. The sections it replaces become the redo
// entry's snapshot. ok is false when there is nothing to undo.
func (l *Ledger) Undo(ctx context.Context) (model.HistoryEntry, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.swap(&l.undo, &l.redo)
	if !ok {
		return model.HistoryEntry{}, false, nil
	}
	return e, true, l.saveLocked(ctx)
}

func (l *Ledger) Redo(ctx context.Context) (model.HistoryEntry, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.swap(&l.redo, &l.undo)
	if !ok {
		return model.HistoryEntry{}, false, nil
	}
	return e, true, l.saveLocked(ctx)
}

func (l *Ledger) swap(from, to *[]model.HistoryEntry) (model.HistoryEntry, bool) {
	if len(*from) == 0 {
		return model.HistoryEntry{}, false
	}
	e := (*from)[len(*from)-1]
	*from = (*from)[:len(*from)-1]

	current := l.list.Read()
	l.list.Replace(e.Snapshot)

	moved := e
	moved.Snapshot = current
	*to = append(*to, moved)
	l.trimLocked()
	return e, true
}

func (l *Ledger) CanUndo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.undo) > 0
}

func (l *Ledger) CanRedo() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.redo) > 0
}

// Entries returns copies of both stacks, oldest first.
func (l *Ledger) Entries() store.HistoryState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return store.HistoryState{
		Undo: append([]model.HistoryEntry(nil), l.undo...),
		Redo: append([]model.HistoryEntry(nil), l.redo...),
	}
}
