package tui

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"practiceplan-cli/internal/dnd"
)

// markerSink records drop affordances by zone id; View paints from it.
type markerSink struct {
	mu      sync.Mutex
	markers map[string]dnd.Marker
}

func newMarkerSink() *markerSink {
	return &markerSink{markers: map[string]dnd.Marker{}}
}

func (s *markerSink) Mark(el dnd.Element, m dnd.Marker) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers[el.Key()] = m
	return nil
}

func (s *markerSink) Clear(el dnd.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.markers, el.Key())
	return nil
}

func (s *markerSink) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.markers)
	return nil
}

func (s *markerSink) marker(id string) dnd.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers[id]
}

func (s *markerSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}

type sweepMsg struct{ fn func() }

// tickScheduler queues deferred work until Update turns it into tea.Tick commands,
// so deferred sweeps run on the program's goroutine.
type tickScheduler struct {
	mu      sync.Mutex
	pending []scheduled
}

type scheduled struct {
	d  time.Duration
	fn func()
}

func (s *tickScheduler) After(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, scheduled{d: d, fn: fn})
}

func (s *tickScheduler) drain() []tea.Cmd {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	cmds := make([]tea.Cmd, 0, len(pending))
	for _, p := range pending {
		fn := p.fn
		cmds = append(cmds, tea.Tick(p.d, func(time.Time) tea.Msg { return sweepMsg{fn: fn} }))
	}
	return cmds
}
