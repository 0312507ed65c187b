package model

import (
	"fmt"
	"slices"
)

// GroupIDs lists the parallel groups present in items, in first-appearance order.
func GroupIDs(items []Item) []string {
	var out []string
	seen := map[string]bool{}
	for _, it := range items {
		gid := it.GroupID()
		if gid == "" || seen[gid] {
			continue
		}
		seen[gid] = true
		out = append(out, gid)
	}
	return out
}

// GroupMembers returns the indexes of the items belonging to groupID, ascending.
func GroupMembers(items []Item, groupID string) []int {
	var out []int
	for i, it := range items {
		if it.InGroup(groupID) {
			out = append(out, i)
		}
	}
	return out
}

// GroupSpan returns the first and last member index of a group.
func GroupSpan(items []Item, groupID string) (first, last int, ok bool) {
	idx := GroupMembers(items, groupID)
	if len(idx) == 0 {
		return -1, -1, false
	}
	return idx[0], idx[len(idx)-1], true
}

// TimelineMembers returns the indexes of the items on (groupID, timeline), ascending.
func TimelineMembers(items []Item, groupID, timeline string) []int {
	var out []int
	for i, it := range items {
		if it.InGroup(groupID) && it.Group.Timeline == timeline {
			out = append(out, i)
		}
	}
	return out
}

// PopulatedTimelines lists the distinct timelines that currently hold at least one member.
func PopulatedTimelines(items []Item, groupID string) []string {
	var out []string
	for _, it := range items {
		if !it.InGroup(groupID) {
			continue
		}
		if !slices.Contains(out, it.Group.Timeline) {
			out = append(out, it.Group.Timeline)
		}
	}
	return out
}

// GroupRoster returns a copy of the group's roster as carried by its first member.
func GroupRoster(items []Item, groupID string) []string {
	for _, it := range items {
		if it.InGroup(groupID) {
			return append([]string{}, it.Group.Roster...)
		}
	}
	return nil
}

// DissolveGroup clears membership on every member of groupID, keeping the former
// membership in Shadow. Returns the number of items touched.
func DissolveGroup(items []Item, groupID string) int {
	n := 0
	for i := range items {
		if !items[i].InGroup(groupID) {
			continue
		}
		items[i].Shadow = items[i].Group
		items[i].Group = nil
		n++
	}
	return n
}

// NormalizeGroup dissolves groupID when its members span fewer than two timelines.
func NormalizeGroup(items []Item, groupID string) bool {
	if groupID == "" {
		return false
	}
	members := GroupMembers(items, groupID)
	if len(members) == 0 {
		return false
	}
	if len(members) >= 2 && len(PopulatedTimelines(items, groupID)) >= 2 {
		return false
	}
	DissolveGroup(items, groupID)
	return true
}

// ValidateGroups checks the parallel-group invariants across all sections.
func ValidateGroups(secs []Section) error {
	for si, s := range secs {
		for _, gid := range GroupIDs(s.Items) {
			roster := GroupRoster(s.Items, gid)
			for _, idx := range GroupMembers(s.Items, gid) {
				if !slices.Equal(s.Items[idx].Group.Roster, roster) {
					return fmt.Errorf("section %d: group %s: item %s roster %v differs from %v", si, gid, s.Items[idx].ID, s.Items[idx].Group.Roster, roster)
				}
			}
			if n := len(PopulatedTimelines(s.Items, gid)); n < 2 {
				return fmt.Errorf("section %d: group %s spans %d timeline(s)", si, gid, n)
			}
		}
	}
	return nil
}

// CountItems returns the total number of items across sections.
func CountItems(secs []Section) int {
	n := 0
	for _, s := range secs {
		n += len(s.Items)
	}
	return n
}
