package model

import "time"

type ItemKind string

const (
	ItemKindDrill     ItemKind = "drill"
	ItemKindBreak     ItemKind = "break"
	ItemKindOneOff    ItemKind = "one-off"
	ItemKindFormation ItemKind = "formation"
)

func (k ItemKind) Valid() bool {
	switch k {
	case ItemKindDrill, ItemKindBreak, ItemKindOneOff, ItemKindFormation:
		return true
	default:
		return false
	}
}

// GroupMembership places an item on one timeline of a parallel block.
// Roster is the block's full timeline list and is identical on every member.
type GroupMembership struct {
	GroupID  string   `json:"groupId"`
	Timeline string   `json:"timeline"`
	Roster   []string `json:"roster"`
}

func (g *GroupMembership) Clone() *GroupMembership {
	if g == nil {
		return nil
	}
	out := *g
	out.Roster = cloneStrings(g.Roster)
	return &out
}

// Item is serialized through itemWire (see wire.go).
type Item struct {
	ID       string
	Kind     ItemKind
	Name     string
	Duration int

	DrillID     *string
	FormationID *string

	Group *GroupMembership

	// Shadow keeps the membership an item had when its block was dissolved.
	// It is informational only and never counts as live membership.
	Shadow *GroupMembership
}

func (it Item) GroupID() string {
	if it.Group == nil {
		return ""
	}
	return it.Group.GroupID
}

func (it Item) Timeline() string {
	if it.Group == nil {
		return ""
	}
	return it.Group.Timeline
}

func (it Item) InGroup(groupID string) bool {
	return groupID != "" && it.Group != nil && it.Group.GroupID == groupID
}

func (it Item) Clone() Item {
	out := it
	if it.DrillID != nil {
		v := *it.DrillID
		out.DrillID = &v
	}
	if it.FormationID != nil {
		v := *it.FormationID
		out.FormationID = &v
	}
	out.Group = it.Group.Clone()
	out.Shadow = it.Shadow.Clone()
	return out
}

type Section struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Order int      `json:"order"`
	Goals []string `json:"goals"`
	Notes string   `json:"notes"`
	Items []Item   `json:"items"`
}

func (s Section) Clone() Section {
	out := s
	out.Goals = cloneStrings(s.Goals)
	if s.Items != nil {
		out.Items = make([]Item, len(s.Items))
		for i := range s.Items {
			out.Items[i] = s.Items[i].Clone()
		}
	}
	return out
}

// CloneSections returns a deep copy; mutations on the result never reach the input.
func CloneSections(secs []Section) []Section {
	if secs == nil {
		return nil
	}
	out := make([]Section, len(secs))
	for i := range secs {
		out[i] = secs[i].Clone()
	}
	return out
}

// cloneStrings copies s, preserving nil so clones compare deep-equal to their source.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// Reindex rewrites every section's Order to its array position.
func Reindex(secs []Section) {
	for i := range secs {
		secs[i].Order = i
	}
}

type Plan struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sections  []Section `json:"sections"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryEntry is one undoable step: the snapshot holds the sections as they were
// before the step (undo stack) or before it was undone (redo stack).
type HistoryEntry struct {
	ID          string         `json:"id"`
	TS          time.Time      `json:"ts"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Payload     map[string]any `json:"payload,omitempty"`
	Snapshot    []Section      `json:"snapshot,omitempty"`
}
