package dnd

type DragType string

const (
	DragItem    DragType = "item"
	DragGroup   DragType = "group"
	DragSection DragType = "section"
)

type TargetKind string

const (
	TargetNone         TargetKind = ""
	TargetItem         TargetKind = "item"
	TargetGroup        TargetKind = "group"
	TargetTimeline     TargetKind = "timeline"
	TargetEmptySection TargetKind = "empty-section"
	TargetSection      TargetKind = "section"
)

var compatibleTargets = map[DragType]map[TargetKind]bool{
	DragItem:    {TargetItem: true, TargetGroup: true, TargetTimeline: true, TargetEmptySection: true},
	DragGroup:   {TargetItem: true, TargetGroup: true, TargetEmptySection: true},
	DragSection: {TargetSection: true},
}

// Accepts reports whether a drag of type d may land on a target of kind k.
func Accepts(d DragType, k TargetKind) bool {
	return compatibleTargets[d][k]
}

type State string

const (
	StateIdle     State = "idle"
	StateDragging State = "dragging"
)

// Source is what the drag recorded at start. ItemIdx and TimelineIdx are -1 when unset.
type Source struct {
	SectionIdx  int    `json:"sectionIdx"`
	SectionID   string `json:"sectionId,omitempty"`
	ItemIdx     int    `json:"itemIdx"`
	ItemID      string `json:"itemId,omitempty"`
	ItemName    string `json:"itemName,omitempty"`
	GroupID     string `json:"groupId,omitempty"`
	Timeline    string `json:"timeline,omitempty"`
	TimelineIdx int    `json:"timelineIdx"`
}

// Target is the drop zone currently under the pointer. Kind is TargetNone when cleared.
type Target struct {
	Kind       TargetKind `json:"kind,omitempty"`
	SectionIdx int        `json:"sectionIdx"`
	SectionID  string     `json:"sectionId,omitempty"`
	ItemIdx    int        `json:"itemIdx"`
	ItemID     string     `json:"itemId,omitempty"`
	GroupID    string     `json:"groupId,omitempty"`
	Timeline   string     `json:"timeline,omitempty"`
	ElementKey string     `json:"elementKey,omitempty"`
}

// Session describes the single in-flight drag. The zero value is idle.
type Session struct {
	Active       bool         `json:"active"`
	DragType     DragType     `json:"dragType,omitempty"`
	Source       Source       `json:"source"`
	Target       Target       `json:"target"`
	DropPosition DropPosition `json:"dropPosition,omitempty"`
	SameTimeline bool         `json:"sameTimeline"`
}

func (s Session) State() State {
	if s.Active {
		return StateDragging
	}
	return StateIdle
}

// HasTarget reports whether a drop now would commit anything.
func (s Session) HasTarget() bool {
	return s.Active && s.Target.Kind != TargetNone && s.DropPosition != PositionNone
}

func (s *Session) clearTarget() {
	s.Target = Target{ItemIdx: -1}
	s.DropPosition = PositionNone
	s.SameTimeline = false
}
