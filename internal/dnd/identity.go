package dnd

import (
	"errors"
	"fmt"
	"strings"

	"practiceplan-cli/internal/model"
)

var ErrNotFound = errors.New("dnd: not found")

// Locator is what a drag recorded about its source item at drag start.
type Locator struct {
	SectionIdx int
	ItemIdx    int
	ItemID     string
	ItemName   string
}

type Strategy string

const (
	StrategyID    Strategy = "id"
	StrategyName  Strategy = "name"
	StrategyIndex Strategy = "index"
)

type Located struct {
	Item     model.Item
	Index    int
	Strategy Strategy
}

// Locate finds the live position of a dragged item. The id is authoritative; the name
// covers payloads that predate ids; the recorded index is used only while in bounds.
func Locate(src Locator, secs []model.Section) (Located, error) {
	if src.SectionIdx < 0 || src.SectionIdx >= len(secs) {
		return Located{}, fmt.Errorf("%w: section %d of %d", ErrNotFound, src.SectionIdx, len(secs))
	}
	items := secs[src.SectionIdx].Items

	if id := strings.TrimSpace(src.ItemID); id != "" {
		for i := range items {
			if items[i].ID == id {
				return Located{Item: items[i], Index: i, Strategy: StrategyID}, nil
			}
		}
	}
	if name := src.ItemName; name != "" {
		for i := range items {
			if items[i].Name == name {
				return Located{Item: items[i], Index: i, Strategy: StrategyName}, nil
			}
		}
	}
	if src.ItemIdx >= 0 && src.ItemIdx < len(items) {
		return Located{Item: items[src.ItemIdx], Index: src.ItemIdx, Strategy: StrategyIndex}, nil
	}
	return Located{}, fmt.Errorf("%w: item id=%q name=%q index=%d in section %d", ErrNotFound, src.ItemID, src.ItemName, src.ItemIdx, src.SectionIdx)
}

// resolveSection prefers the section id recorded on the session and falls back to the index.
func resolveSection(secs []model.Section, idx int, id string) (int, error) {
	if id != "" {
		for i := range secs {
			if secs[i].ID == id {
				return i, nil
			}
		}
	}
	if idx >= 0 && idx < len(secs) {
		return idx, nil
	}
	return -1, fmt.Errorf("%w: section id=%q index=%d of %d", ErrIndexOutOfRange, id, idx, len(secs))
}

// resolveTargetItem finds the hovered item by id, falling back to its recorded index.
func resolveTargetItem(items []model.Item, t Target) (int, error) {
	if t.ItemID != "" {
		for i := range items {
			if items[i].ID == t.ItemID {
				return i, nil
			}
		}
	}
	if t.ItemIdx >= 0 && t.ItemIdx < len(items) && t.ItemID == "" {
		return t.ItemIdx, nil
	}
	return -1, fmt.Errorf("%w: target item id=%q index=%d", ErrNotFound, t.ItemID, t.ItemIdx)
}
