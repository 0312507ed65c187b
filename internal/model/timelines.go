package model

import "strings"

const (
	TimelineBeaters = "BEATERS"
	TimelineChasers = "CHASERS"
	TimelineSeekers = "SEEKERS"
)

var timelineLabels = map[string]string{
	TimelineBeaters: "Beaters",
	TimelineChasers: "Chasers",
	TimelineSeekers: "Seekers",
}

// BuiltinTimelines in display order.
func BuiltinTimelines() []string {
	return []string{TimelineBeaters, TimelineChasers, TimelineSeekers}
}

// TimelineLabel returns the display label; custom timelines display as named.
func TimelineLabel(name string) string {
	if l, ok := timelineLabels[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return l
	}
	return name
}

// NormalizeTimeline maps a builtin label ("beaters") to its key; other names pass through trimmed.
func NormalizeTimeline(name string) string {
	name = strings.TrimSpace(name)
	up := strings.ToUpper(name)
	if _, ok := timelineLabels[up]; ok {
		return up
	}
	return name
}
