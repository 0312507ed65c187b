package mutate

import (
	"strconv"
	"strings"
	"time"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/store"
)

// Result reports what an edit did. Callers are responsible for recording history
// before the edit and saving the plan after it.
type Result struct {
	Changed      bool
	ID           string
	EventPayload map[string]any
}

var DefaultSectionNames = []string{"Warmup", "Skill Building", "Half Court"}

func NewPlan(name string, now time.Time) *model.Plan {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Practice Plan"
	}
	p := &model.Plan{ID: store.NewID("plan"), Name: name, CreatedAt: now.UTC(), UpdatedAt: now.UTC()}
	for i, n := range DefaultSectionNames {
		p.Sections = append(p.Sections, model.Section{
			ID:    store.NewID("section"),
			Name:  n,
			Order: i,
			Goals: []string{},
			Items: []model.Item{},
		})
	}
	return p
}

// ResolveSection accepts a section id, a case-insensitive name, or a zero-based index.
func ResolveSection(p *model.Plan, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if p == nil || ref == "" {
		return -1, NotFoundError{Kind: "section", ID: ref}
	}
	for i, s := range p.Sections {
		if s.ID == ref {
			return i, nil
		}
	}
	for i, s := range p.Sections {
		if strings.EqualFold(s.Name, ref) {
			return i, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 0 && n < len(p.Sections) {
		return n, nil
	}
	return -1, NotFoundError{Kind: "section", ID: ref}
}

func findSection(p *model.Plan, sectionID string) (int, error) {
	sectionID = strings.TrimSpace(sectionID)
	if p != nil {
		for i, s := range p.Sections {
			if s.ID == sectionID {
				return i, nil
			}
		}
	}
	return -1, NotFoundError{Kind: "section", ID: sectionID}
}

// FindItem locates an item by id across all sections.
func FindItem(p *model.Plan, itemID string) (sectionIdx, itemIdx int, ok bool) {
	itemID = strings.TrimSpace(itemID)
	if p == nil || itemID == "" {
		return -1, -1, false
	}
	for si, s := range p.Sections {
		for ii, it := range s.Items {
			if it.ID == itemID {
				return si, ii, true
			}
		}
	}
	return -1, -1, false
}

// FindGroup returns the section holding groupID.
func FindGroup(p *model.Plan, groupID string) (int, bool) {
	if p == nil || groupID == "" {
		return -1, false
	}
	for si, s := range p.Sections {
		if len(model.GroupMembers(s.Items, groupID)) > 0 {
			return si, true
		}
	}
	return -1, false
}
