package dnd

import (
	"errors"
	"fmt"
	"reflect"
	"slices"

	"practiceplan-cli/internal/model"
)

var (
	ErrIndexOutOfRange = errors.New("dnd: index out of range")
	ErrNoTarget        = errors.New("dnd: session has no drop target")
)

// Commit computes the sections that result from dropping s onto secs. secs is never
// modified. When the drop would leave the list deep-equal to its input, Commit
// returns secs with changed=false.
func Commit(s Session, secs []model.Section) (out []model.Section, changed bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, changed, err = nil, false, fmt.Errorf("dnd: commit %s drop: %v", s.DragType, r)
		}
	}()
	if !s.HasTarget() {
		return nil, false, ErrNoTarget
	}
	if !Accepts(s.DragType, s.Target.Kind) {
		return nil, false, fmt.Errorf("dnd: %s drag cannot drop on %s", s.DragType, s.Target.Kind)
	}

	work := model.CloneSections(secs)
	switch s.DragType {
	case DragItem:
		err = commitItem(s, work)
	case DragGroup:
		err = commitGroup(s, work)
	case DragSection:
		work, err = commitSection(s, work)
	default:
		err = fmt.Errorf("dnd: unknown drag type %q", s.DragType)
	}
	if err != nil {
		return nil, false, err
	}
	if reflect.DeepEqual(work, secs) {
		return secs, false, nil
	}
	return work, true, nil
}

// adjustForRemoval maps an insertion index computed against the original list onto
// the list with the removed indexes taken out.
func adjustForRemoval(insertAt int, removed ...int) int {
	n := insertAt
	for _, r := range removed {
		if r < insertAt {
			n--
		}
	}
	return n
}

func clampIndex(i, n int) int {
	return max(0, min(i, n))
}

func offset(pos DropPosition) int {
	if pos == PositionAfter {
		return 1
	}
	return 0
}

func commitItem(s Session, secs []model.Section) error {
	srcSec, err := resolveSection(secs, s.Source.SectionIdx, s.Source.SectionID)
	if err != nil {
		return err
	}
	dstSec, err := resolveSection(secs, s.Target.SectionIdx, s.Target.SectionID)
	if err != nil {
		return err
	}
	loc, err := Locate(Locator{
		SectionIdx: srcSec,
		ItemIdx:    s.Source.ItemIdx,
		ItemID:     s.Source.ItemID,
		ItemName:   s.Source.ItemName,
	}, secs)
	if err != nil {
		return err
	}

	if s.Target.Timeline != "" && s.Target.GroupID != "" &&
		(s.Target.Kind == TargetTimeline || s.Target.Kind == TargetItem) {
		return commitIntoTimeline(s, secs, srcSec, dstSec, loc)
	}

	dst := secs[dstSec].Items
	var insertAt int
	switch s.Target.Kind {
	case TargetItem:
		ref, err := resolveTargetItem(dst, s.Target)
		if err != nil {
			return err
		}
		insertAt = ref + offset(s.DropPosition)
	case TargetGroup:
		first, last, ok := model.GroupSpan(dst, s.Target.GroupID)
		if !ok {
			return fmt.Errorf("%w: group %s", ErrNotFound, s.Target.GroupID)
		}
		insertAt = first
		if s.DropPosition != PositionBefore {
			insertAt = last + 1
		}
	case TargetEmptySection:
		insertAt = len(dst)
	default:
		return fmt.Errorf("dnd: item drop on %s", s.Target.Kind)
	}
	if srcSec == dstSec {
		insertAt = adjustForRemoval(insertAt, loc.Index)
	}

	moved := secs[srcSec].Items[loc.Index]
	oldGroup := moved.GroupID()
	moved.Group = nil
	secs[srcSec].Items = slices.Delete(secs[srcSec].Items, loc.Index, loc.Index+1)
	model.NormalizeGroup(secs[srcSec].Items, oldGroup)

	items := secs[dstSec].Items
	secs[dstSec].Items = slices.Insert(items, clampIndex(insertAt, len(items)), moved)
	return nil
}

// commitIntoTimeline handles drops onto a timeline slot or onto an item inside a
// parallel block. Same-timeline drops onto an item reorder within the timeline;
// anything else appends to the target timeline.
func commitIntoTimeline(s Session, secs []model.Section, srcSec, dstSec int, loc Located) error {
	gid, tl := s.Target.GroupID, s.Target.Timeline
	moved := secs[srcSec].Items[loc.Index]
	oldGroup := moved.GroupID()
	sameTimeline := srcSec == dstSec && oldGroup == gid && moved.Timeline() == tl

	if sameTimeline {
		return reorderWithinTimeline(s, secs[dstSec].Items, loc, gid, tl, func(items []model.Item) {
			secs[dstSec].Items = items
		})
	}

	if len(model.GroupMembers(secs[dstSec].Items, gid)) == 0 {
		return fmt.Errorf("%w: group %s in section %d", ErrNotFound, gid, dstSec)
	}
	if s.Target.Kind == TargetItem {
		if _, err := resolveTargetItem(secs[dstSec].Items, s.Target); err != nil {
			return err
		}
	}
	roster := model.GroupRoster(secs[dstSec].Items, gid)
	if !slices.Contains(roster, tl) {
		roster = append(roster, tl)
	}

	secs[srcSec].Items = slices.Delete(secs[srcSec].Items, loc.Index, loc.Index+1)
	if oldGroup != "" && (srcSec != dstSec || oldGroup != gid) {
		model.NormalizeGroup(secs[srcSec].Items, oldGroup)
	}

	items := secs[dstSec].Items
	insertAt := len(items)
	if tm := model.TimelineMembers(items, gid, tl); len(tm) > 0 {
		insertAt = tm[len(tm)-1] + 1
	} else if _, last, ok := model.GroupSpan(items, gid); ok {
		insertAt = last + 1
	}
	moved.Group = &model.GroupMembership{GroupID: gid, Timeline: tl}
	items = slices.Insert(items, insertAt, moved)
	for i := range items {
		if items[i].InGroup(gid) {
			items[i].Group.Roster = append([]string(nil), roster...)
		}
	}
	model.NormalizeGroup(items, gid)
	secs[dstSec].Items = items
	return nil
}

func reorderWithinTimeline(s Session, items []model.Item, loc Located, gid, tl string, set func([]model.Item)) error {
	members := model.TimelineMembers(items, gid, tl)
	srcPos := slices.Index(members, loc.Index)
	if srcPos < 0 {
		return fmt.Errorf("%w: item %s not on timeline %s", ErrNotFound, loc.Item.ID, tl)
	}

	// A timeline slot appends; an item target positions relative to that item.
	pos := len(members)
	if s.Target.Kind == TargetItem && s.DropPosition != PositionInside {
		ref, err := resolveTargetItem(items, s.Target)
		if err != nil {
			return err
		}
		refPos := slices.Index(members, ref)
		if refPos < 0 {
			return fmt.Errorf("%w: target %s left timeline %s", ErrNotFound, s.Target.ItemID, tl)
		}
		pos = refPos + offset(s.DropPosition)
	}
	pos = adjustForRemoval(pos, srcPos)
	if pos == srcPos {
		return nil
	}

	moved := items[loc.Index]
	items = slices.Delete(items, loc.Index, loc.Index+1)
	rest := model.TimelineMembers(items, gid, tl)
	var at int
	switch {
	case pos < len(rest):
		at = rest[max(pos, 0)]
	case len(rest) > 0:
		at = rest[len(rest)-1] + 1
	default:
		at = loc.Index
	}
	set(slices.Insert(items, clampIndex(at, len(items)), moved))
	return nil
}

func commitGroup(s Session, secs []model.Section) error {
	srcSec, err := resolveSection(secs, s.Source.SectionIdx, s.Source.SectionID)
	if err != nil {
		return err
	}
	dstSec, err := resolveSection(secs, s.Target.SectionIdx, s.Target.SectionID)
	if err != nil {
		return err
	}
	members := model.GroupMembers(secs[srcSec].Items, s.Source.GroupID)
	if len(members) == 0 {
		return fmt.Errorf("%w: group %s in section %d", ErrNotFound, s.Source.GroupID, srcSec)
	}

	dst := secs[dstSec].Items
	var insertAt int
	switch s.Target.Kind {
	case TargetItem:
		ref, err := resolveTargetItem(dst, s.Target)
		if err != nil {
			return err
		}
		// A block never splits another block: snap to the hovered block's edge.
		if gid := dst[ref].GroupID(); gid != "" {
			first, last, _ := model.GroupSpan(dst, gid)
			insertAt = first
			if s.DropPosition != PositionBefore {
				insertAt = last + 1
			}
		} else {
			insertAt = ref + offset(s.DropPosition)
		}
	case TargetGroup:
		first, last, ok := model.GroupSpan(dst, s.Target.GroupID)
		if !ok {
			return fmt.Errorf("%w: group %s", ErrNotFound, s.Target.GroupID)
		}
		insertAt = first
		if s.DropPosition != PositionBefore {
			insertAt = last + 1
		}
	case TargetEmptySection:
		insertAt = len(dst)
	default:
		return fmt.Errorf("dnd: group drop on %s", s.Target.Kind)
	}
	if srcSec == dstSec {
		insertAt = adjustForRemoval(insertAt, members...)
	}

	block := make([]model.Item, 0, len(members))
	rest := make([]model.Item, 0, len(secs[srcSec].Items)-len(members))
	for i, it := range secs[srcSec].Items {
		if slices.Contains(members, i) {
			block = append(block, it)
		} else {
			rest = append(rest, it)
		}
	}
	secs[srcSec].Items = rest

	items := secs[dstSec].Items
	secs[dstSec].Items = slices.Insert(items, clampIndex(insertAt, len(items)), block...)
	return nil
}

func commitSection(s Session, secs []model.Section) ([]model.Section, error) {
	src, err := resolveSection(secs, s.Source.SectionIdx, s.Source.SectionID)
	if err != nil {
		return nil, err
	}
	dst, err := resolveSection(secs, s.Target.SectionIdx, s.Target.SectionID)
	if err != nil {
		return nil, err
	}
	insertAt := adjustForRemoval(dst+offset(s.DropPosition), src)

	moved := secs[src]
	rest := slices.Delete(secs, src, src+1)
	out := slices.Insert(rest, clampIndex(insertAt, len(rest)), moved)
	model.Reindex(out)
	return out, nil
}
