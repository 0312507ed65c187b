package dnd

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

var DefaultSweepDelays = []time.Duration{50 * time.Millisecond, 200 * time.Millisecond}

// Indicators drives an IndicatorSink. Sink failures and panics are logged and
// swallowed; nothing here can fail a drag.
type Indicators struct {
	sink   IndicatorSink
	sched  Scheduler
	delays []time.Duration
	log    *zap.Logger
}

func NewIndicators(sink IndicatorSink, sched Scheduler, delays []time.Duration, log *zap.Logger) *Indicators {
	if sink == nil {
		sink = nopSink{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Indicators{sink: sink, sched: sched, delays: append([]time.Duration(nil), delays...), log: log}
}

func (in *Indicators) Mark(el Element, m Marker) {
	if el == nil {
		return
	}
	in.safely("mark", func() error { return in.sink.Mark(el, m) })
}

// Replace clears whatever el showed and marks it with m.
func (in *Indicators) Replace(el Element, m Marker) {
	if el == nil {
		return
	}
	in.safely("clear", func() error { return in.sink.Clear(el) })
	in.safely("mark", func() error { return in.sink.Mark(el, m) })
}

func (in *Indicators) Clear(el Element) {
	if el == nil {
		return
	}
	in.safely("clear", func() error { return in.sink.Clear(el) })
}

func (in *Indicators) ClearAll() {
	in.safely("clear all", in.sink.ClearAll)
}

// Sweep clears every indicator now and again after each configured delay, so marks
// painted by late events are still removed.
func (in *Indicators) Sweep() {
	in.ClearAll()
	if in.sched == nil {
		return
	}
	for _, d := range in.delays {
		in.safely("schedule sweep", func() error {
			in.sched.After(d, in.ClearAll)
			return nil
		})
	}
}

func (in *Indicators) safely(op string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			in.log.Warn("indicator sink panicked", zap.String("op", op), zap.String("panic", fmt.Sprint(r)))
		}
	}()
	if err := fn(); err != nil {
		in.log.Debug("indicator sink failed", zap.String("op", op), zap.Error(err))
	}
}

func positionMarker(pos DropPosition, section bool) Marker {
	switch {
	case section && pos == PositionBefore:
		return MarkerSectionDropBefore
	case section:
		return MarkerSectionDropAfter
	case pos == PositionBefore:
		return MarkerDropBefore
	default:
		return MarkerDropAfter
	}
}
