package model

import "slices"

// TimelineDurations sums member durations per timeline. Every roster timeline is
// present (possibly zero) along with any populated timeline missing from the roster.
func TimelineDurations(items []Item, groupID string) map[string]int {
	out := map[string]int{}
	for _, t := range GroupRoster(items, groupID) {
		out[t] = 0
	}
	for _, it := range items {
		if it.InGroup(groupID) {
			out[it.Group.Timeline] += it.Duration
		}
	}
	return out
}

// BlockDuration is the effective length of a parallel block: its longest timeline.
func BlockDuration(items []Item, groupID string) int {
	max := 0
	for _, d := range TimelineDurations(items, groupID) {
		if d > max {
			max = d
		}
	}
	return max
}

// SectionDuration counts ungrouped items at face value and each block once.
func SectionDuration(s Section) int {
	total := 0
	counted := map[string]bool{}
	for _, it := range s.Items {
		gid := it.GroupID()
		if gid == "" {
			total += it.Duration
			continue
		}
		if counted[gid] {
			continue
		}
		counted[gid] = true
		total += BlockDuration(s.Items, gid)
	}
	return total
}

func PlanDuration(secs []Section) int {
	total := 0
	for _, s := range secs {
		total += SectionDuration(s)
	}
	return total
}

type TimelineMismatch struct {
	Timeline  string `json:"timeline"`
	Shortfall int    `json:"shortfall"`
}

// TimelineMismatches reports the timelines of a block that finish before its longest one.
func TimelineMismatches(items []Item, groupID string) []TimelineMismatch {
	durs := TimelineDurations(items, groupID)
	if len(durs) == 0 {
		return nil
	}
	max := BlockDuration(items, groupID)
	var out []TimelineMismatch
	for t, d := range durs {
		if d < max {
			out = append(out, TimelineMismatch{Timeline: t, Shortfall: max - d})
		}
	}
	slices.SortFunc(out, func(a, b TimelineMismatch) int {
		if a.Timeline < b.Timeline {
			return -1
		}
		if a.Timeline > b.Timeline {
			return 1
		}
		return 0
	})
	return out
}
