package mutate

import (
	"slices"
	"strings"

	"practiceplan-cli/internal/model"
	"practiceplan-cli/internal/store"
)

func AddSection(p *model.Plan, name string) (Result, error) {
	if p == nil {
		return Result{}, nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "New Section"
	}
	s := model.Section{
		ID:    store.NewID("section"),
		Name:  name,
		Order: len(p.Sections),
		Goals: []string{},
		Items: []model.Item{},
	}
	p.Sections = append(p.Sections, s)
	return Result{Changed: true, ID: s.ID, EventPayload: map[string]any{"sectionId": s.ID, "name": name}}, nil
}

// RemoveSection deletes a section and its items, then reindexes order densely.
func RemoveSection(p *model.Plan, sectionID string) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	removed := p.Sections[idx]
	p.Sections = slices.Delete(p.Sections, idx, idx+1)
	model.Reindex(p.Sections)
	return Result{
		Changed: true,
		ID:      removed.ID,
		EventPayload: map[string]any{
			"sectionId": removed.ID,
			"name":      removed.Name,
			"items":     len(removed.Items),
		},
	}, nil
}

func RenameSection(p *model.Plan, sectionID, name string) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" || p.Sections[idx].Name == name {
		return Result{ID: sectionID}, nil
	}
	prev := p.Sections[idx].Name
	p.Sections[idx].Name = name
	return Result{Changed: true, ID: sectionID, EventPayload: map[string]any{"from": prev, "to": name}}, nil
}

func SetSectionNotes(p *model.Plan, sectionID, notes string) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	if p.Sections[idx].Notes == notes {
		return Result{ID: sectionID}, nil
	}
	p.Sections[idx].Notes = notes
	return Result{Changed: true, ID: sectionID, EventPayload: map[string]any{"notes": notes}}, nil
}

// SetSectionGoals replaces the goal list; blank entries are dropped.
func SetSectionGoals(p *model.Plan, sectionID string, goals []string) (Result, error) {
	idx, err := findSection(p, sectionID)
	if err != nil {
		return Result{}, err
	}
	next := []string{}
	for _, g := range goals {
		if g = strings.TrimSpace(g); g != "" {
			next = append(next, g)
		}
	}
	if slices.Equal(p.Sections[idx].Goals, next) {
		return Result{ID: sectionID}, nil
	}
	p.Sections[idx].Goals = next
	return Result{Changed: true, ID: sectionID, EventPayload: map[string]any{"goals": next}}, nil
}
