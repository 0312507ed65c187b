package store

import (
	"sync"

	"practiceplan-cli/internal/model"
)

// Sections is the in-memory list store the drag engine and edits work against.
// Reads and replaces are whole-list copies; subscribers see every replace.
type Sections struct {
	mu   sync.RWMutex
	secs []model.Section
	subs map[int]func([]model.Section)
	next int
}

func NewSections(secs []model.Section) *Sections {
	return &Sections{secs: model.CloneSections(secs), subs: map[int]func([]model.Section){}}
}

func (l *Sections) Read() []model.Section {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return model.CloneSections(l.secs)
}

// Replace swaps in secs and notifies subscribers outside the lock.
func (l *Sections) Replace(secs []model.Section) {
	l.mu.Lock()
	l.secs = model.CloneSections(secs)
	fns := make([]func([]model.Section), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	snapshot := l.secs
	l.mu.Unlock()

	for _, fn := range fns {
		fn(model.CloneSections(snapshot))
	}
}

// Subscribe registers fn for every later Replace and returns the unsubscribe func.
func (l *Sections) Subscribe(fn func([]model.Section)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.next
	l.next++
	l.subs[id] = fn
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subs, id)
	}
}
