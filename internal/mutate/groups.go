package mutate

import (
	"slices"
	"strings"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/store"
)

const placeholderDuration = 15

func normalizeTimelines(timelines []string) []string {
	var out []string
	for _, t := range timelines {
		t = model.NormalizeTimeline(t)
		if t != "" && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

func placeholder(groupID, timeline string, roster []string) model.Item {
	return model.Item{
		ID:       store.NewID("placeholder"),
		Kind:     model.ItemKindBreak,
		Name:     model.TimelineLabel(timeline) + " Drill",
		Duration: placeholderDuration,
		Group: &model.GroupMembership{
			GroupID:  groupID,
			Timeline: timeline,
			Roster:   append([]string(nil), roster...),
		},
	}
}

// CreateParallelBlock appends a new block to a section with one placeholder per timeline.
func CreateParallelBlock(p *model.Plan, sectionID string, timelines []string) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	roster := normalizeTimelines(timelines)
	if len(roster) < 2 {
		return Result{}, ErrTooFewTimelines
	}
	gid := store.NewID("group")
	for _, t := range roster {
		p.Sections[idx].Items = append(p.Sections[idx].Items, placeholder(gid, t, roster))
	}
	return Result{Changed: true, ID: gid, EventPayload: map[string]any{"groupId": gid, "timelines": roster}}, nil
}

// UpdateBlockTimelines sets a block's roster: members of dropped timelines are removed
// and each added timeline gets a placeholder after the block's last member.
func UpdateBlockTimelines(p *model.Plan, sectionID, groupID string, timelines []string) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	items := p.Sections[idx].Items
	if len(model.GroupMembers(items, groupID)) == 0 {
		return Result{}, NotFoundError{Kind: "group", ID: groupID}
	}
	roster := normalizeTimelines(timelines)
	if len(roster) < 2 {
		return Result{}, ErrTooFewTimelines
	}
	prev := model.GroupRoster(items, groupID)
	if slices.Equal(prev, roster) {
		return Result{ID: groupID}, nil
	}

	populated := model.PopulatedTimelines(items, groupID)
	var removed []string
	kept := items[:0:0]
	for _, it := range items {
		if it.InGroup(groupID) && !slices.Contains(roster, it.Group.Timeline) {
			if !slices.Contains(removed, it.Group.Timeline) {
				removed = append(removed, it.Group.Timeline)
			}
			continue
		}
		if it.InGroup(groupID) {
			it.Group = it.Group.Clone()
			it.Group.Roster = append([]string(nil), roster...)
		}
		kept = append(kept, it)
	}

	var added []string
	for _, t := range roster {
		if !slices.Contains(populated, t) {
			added = append(added, t)
		}
	}
	at := len(kept)
	if _, last, ok := model.GroupSpan(kept, groupID); ok {
		at = last + 1
	}
	var fresh []model.Item
	for _, t := range added {
		fresh = append(fresh, placeholder(groupID, t, roster))
	}
	kept = slices.Insert(kept, at, fresh...)
	p.Sections[idx].Items = kept

	return Result{
		Changed: true,
		ID:      groupID,
		EventPayload: map[string]any{
			"groupId": groupID,
			"from":    prev,
			"to":      roster,
			"removed": removed,
			"added":   added,
		},
	}, nil
}

// RemoveTimeline drops one timeline from a block. A block of two or fewer items is
// dissolved instead of shrunk; so is one left with fewer than two populated timelines.
func RemoveTimeline(p *model.Plan, sectionID, groupID, timeline string) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	items := p.Sections[idx].Items
	members := model.GroupMembers(items, groupID)
	if len(members) == 0 {
		return Result{}, NotFoundError{Kind: "group", ID: groupID}
	}
	timeline = model.NormalizeTimeline(timeline)
	roster := model.GroupRoster(items, groupID)
	if !slices.Contains(roster, timeline) && !slices.Contains(model.PopulatedTimelines(items, groupID), timeline) {
		return Result{}, UnknownTimelineError{GroupID: groupID, Timeline: timeline}
	}

	if len(members) <= 2 {
		model.DissolveGroup(items, groupID)
		return Result{Changed: true, ID: groupID, EventPayload: map[string]any{"groupId": groupID, "timeline": timeline, "dissolved": true}}, nil
	}

	nextRoster := slices.DeleteFunc(append([]string(nil), roster...), func(t string) bool { return t == timeline })
	kept := items[:0:0]
	dropped := 0
	for _, it := range items {
		if it.InGroup(groupID) {
			if it.Group.Timeline == timeline {
				dropped++
				continue
			}
			it.Group = it.Group.Clone()
			it.Group.Roster = append([]string(nil), nextRoster...)
		}
		kept = append(kept, it)
	}
	dissolved := model.NormalizeGroup(kept, groupID)
	p.Sections[idx].Items = kept
	return Result{
		Changed: true,
		ID:      groupID,
		EventPayload: map[string]any{
			"groupId":   groupID,
			"timeline":  timeline,
			"dropped":   dropped,
			"dissolved": dissolved,
		},
	}, nil
}

// Ungroup dissolves a block in every section it appears in.
func Ungroup(p *model.Plan, groupID string) (Result, error) {
	groupID = strings.TrimSpace(groupID)
	if p == nil || groupID == "" {
		return Result{}, nil
	}
	n := 0
	for si := range p.Sections {
		n += model.DissolveGroup(p.Sections[si].Items, groupID)
	}
	if n == 0 {
		return Result{}, NotFoundError{Kind: "group", ID: groupID}
	}
	return Result{Changed: true, ID: groupID, EventPayload: map[string]any{"groupId": groupID, "items": n}}, nil
}
