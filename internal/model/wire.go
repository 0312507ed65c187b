package model

import (
	"encoding/json"
	"strings"
)

// itemWire is the persisted/exported item shape. Group membership is flattened into
// the parallel_* fields that plan documents have always used.
type itemWire struct {
	ID       string   `json:"id"`
	Kind     ItemKind `json:"type"`
	Name     string   `json:"name"`
	Duration int      `json:"duration"`

	DrillID     *string `json:"drill_id,omitempty"`
	FormationID *string `json:"formation_id,omitempty"`

	ParallelGroupID  *string  `json:"parallel_group_id,omitempty"`
	ParallelTimeline *string  `json:"parallel_timeline,omitempty"`
	GroupTimelines   []string `json:"groupTimelines,omitempty"`

	// Legacy spelling of groupTimelines.
	LegacyGroupTimelines []string `json:"group_timelines,omitempty"`

	Shadow *GroupMembership `json:"shadow_group,omitempty"`
}

func (it Item) MarshalJSON() ([]byte, error) {
	w := itemWire{
		ID:          it.ID,
		Kind:        it.Kind,
		Name:        it.Name,
		Duration:    it.Duration,
		DrillID:     it.DrillID,
		FormationID: it.FormationID,
		Shadow:      it.Shadow,
	}
	if it.Group != nil {
		gid := it.Group.GroupID
		tl := it.Group.Timeline
		w.ParallelGroupID = &gid
		w.ParallelTimeline = &tl
		w.GroupTimelines = append([]string{}, it.Group.Roster...)
	}
	return json.Marshal(w)
}

func (it *Item) UnmarshalJSON(b []byte) error {
	var w itemWire
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*it = Item{
		ID:          w.ID,
		Kind:        w.Kind,
		Name:        w.Name,
		Duration:    w.Duration,
		DrillID:     w.DrillID,
		FormationID: w.FormationID,
		Shadow:      w.Shadow,
	}
	if it.Kind == "" {
		it.Kind = ItemKindDrill
	}
	if w.ParallelGroupID == nil || strings.TrimSpace(*w.ParallelGroupID) == "" {
		return nil
	}
	g := &GroupMembership{GroupID: strings.TrimSpace(*w.ParallelGroupID)}
	if w.ParallelTimeline != nil {
		g.Timeline = strings.TrimSpace(*w.ParallelTimeline)
	}
	roster := w.GroupTimelines
	if len(roster) == 0 {
		roster = w.LegacyGroupTimelines
	}
	g.Roster = append([]string{}, roster...)
	if len(g.Roster) == 0 && g.Timeline != "" {
		g.Roster = []string{g.Timeline}
	}
	it.Group = g
	return nil
}

// ReconcileRosters gives every member of a group the union of the rosters seen on
// any member (in first-seen order), so loaded documents satisfy the shared-roster rule.
func ReconcileRosters(secs []Section) {
	for si := range secs {
		items := secs[si].Items
		for _, gid := range GroupIDs(items) {
			var roster []string
			seen := map[string]bool{}
			add := func(t string) {
				if t == "" || seen[t] {
					return
				}
				seen[t] = true
				roster = append(roster, t)
			}
			for _, it := range items {
				if !it.InGroup(gid) {
					continue
				}
				for _, t := range it.Group.Roster {
					add(t)
				}
				add(it.Group.Timeline)
			}
			for i := range items {
				if items[i].InGroup(gid) {
					items[i].Group.Roster = append([]string{}, roster...)
				}
			}
		}
	}
}
