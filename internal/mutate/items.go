package mutate

import (
	"fmt"
	"slices"
	"strings"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/store"
)

const (
	MinDuration = 1
	MaxDuration = 120
)

var defaultDurations = map[model.ItemKind]int{
	model.ItemKindDrill:     15,
	model.ItemKindBreak:     10,
	model.ItemKindOneOff:    10,
	model.ItemKindFormation: 0,
}

var defaultNames = map[model.ItemKind]string{
	model.ItemKindDrill:     "Drill",
	model.ItemKindBreak:     "Break",
	model.ItemKindOneOff:    "Quick Activity",
	model.ItemKindFormation: "Formation",
}

// NewItem describes an item to append. RefID is the drill or formation id.
type NewItem struct {
	Kind     model.ItemKind
	Name     string
	Duration int
	RefID    string
}

// AddItem appends an item to the end of a section, filling kind defaults.
func AddItem(p *model.Plan, sectionID string, n NewItem) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	if !n.Kind.Valid() {
		return Result{}, ErrInvalidItemKind
	}
	it := model.Item{
		ID:       store.NewID(string(n.Kind)),
		Kind:     n.Kind,
		Name:     strings.TrimSpace(n.Name),
		Duration: n.Duration,
	}
	if it.Name == "" {
		it.Name = defaultNames[n.Kind]
	}
	if it.Duration == 0 {
		it.Duration = defaultDurations[n.Kind]
	} else if err := checkDuration(it.Duration); err != nil {
		return Result{}, err
	}
	if ref := strings.TrimSpace(n.RefID); ref != "" {
		switch n.Kind {
		case model.ItemKindDrill:
			it.DrillID = &ref
		case model.ItemKindFormation:
			it.FormationID = &ref
		}
	}
	p.Sections[idx].Items = append(p.Sections[idx].Items, it)
	return Result{
		Changed: true,
		ID:      it.ID,
		EventPayload: map[string]any{
			"sectionId": sectionID,
			"type":      string(it.Kind),
			"name":      it.Name,
		},
	}, nil
}

// RemoveItem deletes the item at (sectionIdx, itemIdx). A block left with fewer than
// two populated timelines is dissolved.
func RemoveItem(p *model.Plan, sectionIdx, itemIdx int) (Result, error) {
	if p == nil || sectionIdx < 0 || sectionIdx >= len(p.Sections) {
		return Result{}, NotFoundError{Kind: "section", ID: fmt.Sprint(sectionIdx)}
	}
	items := p.Sections[sectionIdx].Items
	if itemIdx < 0 || itemIdx >= len(items) {
		return Result{}, NotFoundError{Kind: "item", ID: fmt.Sprintf("%d/%d", sectionIdx, itemIdx)}
	}
	removed := items[itemIdx]
	items = slices.Delete(items, itemIdx, itemIdx+1)
	dissolved := model.NormalizeGroup(items, removed.GroupID())
	p.Sections[sectionIdx].Items = items

	payload := map[string]any{"itemId": removed.ID, "name": removed.Name}
	if gid := removed.GroupID(); gid != "" {
		payload["groupId"] = gid
		payload["dissolved"] = dissolved
	}
	return Result{Changed: true, ID: removed.ID, EventPayload: payload}, nil
}

func RemoveItemByID(p *model.Plan, itemID string) (Result, error) {
	si, ii, ok := FindItem(p, itemID)
	if !ok {
		return Result{}, NotFoundError{Kind: "item", ID: itemID}
	}
	return RemoveItem(p, si, ii)
}

func checkDuration(minutes int) error {
	if minutes < MinDuration || minutes > MaxDuration {
		return fmt.Errorf("%w: got %d", ErrInvalidDuration, minutes)
	}
	return nil
}

func SetDuration(p *model.Plan, itemID string, minutes int) (Result, error) {
	if err := checkDuration(minutes); err != nil {
		return Result{}, err
	}
	si, ii, ok := FindItem(p, itemID)
	if !ok {
		return Result{}, NotFoundError{Kind: "item", ID: itemID}
	}
	it := &p.Sections[si].Items[ii]
	if it.Duration == minutes {
		return Result{ID: it.ID}, nil
	}
	prev := it.Duration
	it.Duration = minutes
	return Result{Changed: true, ID: it.ID, EventPayload: map[string]any{"from": prev, "to": minutes}}, nil
}

// SetTimeline moves a grouped item onto another timeline of its block's roster.
// The item is placed after that timeline's last member and the block is normalized.
func SetTimeline(p *model.Plan, itemID, timeline string) (Result, error) {
	si, ii, ok := FindItem(p, itemID)
	if !ok {
		return Result{}, NotFoundError{Kind: "item", ID: itemID}
	}
	items := p.Sections[si].Items
	it := items[ii]
	if it.Group == nil {
		return Result{}, ErrNotGrouped
	}
	timeline = model.NormalizeTimeline(timeline)
	gid := it.Group.GroupID
	if !slices.Contains(it.Group.Roster, timeline) {
		return Result{}, UnknownTimelineError{GroupID: gid, Timeline: timeline}
	}
	if it.Group.Timeline == timeline {
		return Result{ID: it.ID}, nil
	}
	prev := it.Group.Timeline

	items = slices.Delete(items, ii, ii+1)
	it.Group = it.Group.Clone()
	it.Group.Timeline = timeline
	at := len(items)
	if tm := model.TimelineMembers(items, gid, timeline); len(tm) > 0 {
		at = tm[len(tm)-1] + 1
	} else if _, last, ok := model.GroupSpan(items, gid); ok {
		at = last + 1
	}
	items = slices.Insert(items, at, it)
	dissolved := model.NormalizeGroup(items, gid)
	p.Sections[si].Items = items
	return Result{
		Changed: true,
		ID:      it.ID,
		EventPayload: map[string]any{
			"groupId":   gid,
			"from":      prev,
			"to":        timeline,
			"dissolved": dissolved,
		},
	}, nil
}
