package tui

import (
	"fmt"

	zone "github.com/lrstanley/bubblezone"

	"practiceplan-cli/internal/dnd"
	"practiceplan-cli/internal/model"
)

// zoneLookup is the part of *zone.Manager the editor reads bounds from.
type zoneLookup interface {
	Get(id string) *zone.ZoneInfo
}

type zoneKind int

// Ordered deepest first: hit testing returns the first kind that contains the pointer.
const (
	zoneItem zoneKind = iota
	zoneTimeline
	zoneGroup
	zoneEmptySection
	zoneSection
)

// zoneTarget is one marked region of the outline and what it stands for.
type zoneTarget struct {
	id          string
	kind        zoneKind
	section     int
	item        int
	groupID     string
	timeline    string
	timelineIdx int
}

func itemZoneID(si, ii int) string { return fmt.Sprintf("item:%d:%d", si, ii) }
func groupZoneID(si int, gid string) string { return fmt.Sprintf("grp:%d:%s", si, gid) }
func sectionZoneID(si int) string { return fmt.Sprintf("sec:%d", si) }
func emptyZoneID(si int) string { return fmt.Sprintf("empty:%d", si) }
func timelineZoneID(si int, gid, tl string) string {
	return fmt.Sprintf("tl:%d:%s:%s", si, gid, tl)
}

// buildTargets lists every zone the outline renders, deepest kinds first.
func buildTargets(secs []model.Section) []zoneTarget {
	var items, timelines, groups, empties, sections []zoneTarget
	for si, s := range secs {
		sections = append(sections, zoneTarget{id: sectionZoneID(si), kind: zoneSection, section: si, item: -1})
		if len(s.Items) == 0 {
			empties = append(empties, zoneTarget{id: emptyZoneID(si), kind: zoneEmptySection, section: si, item: -1})
			continue
		}
		for _, gid := range model.GroupIDs(s.Items) {
			groups = append(groups, zoneTarget{id: groupZoneID(si, gid), kind: zoneGroup, section: si, item: -1, groupID: gid})
			for _, tl := range model.GroupRoster(s.Items, gid) {
				timelines = append(timelines, zoneTarget{id: timelineZoneID(si, gid, tl), kind: zoneTimeline, section: si, item: -1, groupID: gid, timeline: tl})
			}
		}
		for ii, it := range s.Items {
			t := zoneTarget{id: itemZoneID(si, ii), kind: zoneItem, section: si, item: ii, timelineIdx: -1}
			if gid := it.GroupID(); gid != "" {
				t.groupID = gid
				t.timeline = it.Timeline()
				t.timelineIdx = indexOf(model.GroupRoster(s.Items, gid), t.timeline)
			}
			items = append(items, t)
		}
	}
	out := make([]zoneTarget, 0, len(items)+len(timelines)+len(groups)+len(empties)+len(sections))
	out = append(out, items...)
	out = append(out, timelines...)
	out = append(out, groups...)
	out = append(out, empties...)
	return append(out, sections...)
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func inZone(z *zone.ZoneInfo, x, y int) bool {
	if z == nil {
		return false
	}
	return x >= z.StartX && x <= z.EndX && y >= z.StartY && y <= z.EndY
}

// hitTest returns the deepest target under (x, y).
func hitTest(zones zoneLookup, targets []zoneTarget, x, y int) (zoneTarget, bool) {
	if zones == nil {
		return zoneTarget{}, false
	}
	for _, t := range targets {
		if inZone(zones.Get(t.id), x, y) {
			return t, true
		}
	}
	return zoneTarget{}, false
}

// zoneElement adapts a bubblezone region to dnd.Element. Bounds are read on demand
// because zones move whenever the view is re-rendered.
type zoneElement struct {
	id    string
	zones zoneLookup
}

func (z zoneElement) Key() string { return z.id }

func (z zoneElement) Rect() (dnd.Rect, error) {
	if z.zones == nil {
		return dnd.Rect{}, dnd.ErrUnmeasurable
	}
	info := z.zones.Get(z.id)
	if info == nil || info.EndY < info.StartY {
		return dnd.Rect{}, dnd.ErrUnmeasurable
	}
	return dnd.Rect{Top: float64(info.StartY), Height: float64(info.EndY - info.StartY + 1)}, nil
}

// Contains is geometric: a zone contains another when its bounds enclose it.
func (z zoneElement) Contains(other dnd.Element) bool {
	o, ok := other.(zoneElement)
	if !ok || z.zones == nil {
		return false
	}
	if o.id == z.id {
		return true
	}
	outer, inner := z.zones.Get(z.id), z.zones.Get(o.id)
	if outer == nil || inner == nil {
		return false
	}
	return inner.StartX >= outer.StartX && inner.EndX <= outer.EndX &&
		inner.StartY >= outer.StartY && inner.EndY <= outer.EndY
}
