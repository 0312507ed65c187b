package dnd

import "errors"

type DropPosition string

const (
	PositionNone   DropPosition = ""
	PositionBefore DropPosition = "before"
	PositionAfter  DropPosition = "after"
	PositionInside DropPosition = "inside"
)

var ErrUnmeasurable = errors.New("dnd: element cannot be measured")

// Rect is the vertical extent of a drop target in the host's coordinate space.
type Rect struct {
	Top    float64
	Height float64
}

// Element is a drop target or drag handle as seen by the rendering layer.
type Element interface {
	// Key identifies the element; two elements with the same key are the same target.
	Key() string
	Rect() (Rect, error)
	// Contains reports whether other is this element or one of its descendants.
	Contains(other Element) bool
}

// PositionInRect splits the rect at half height: the top half is before, the rest after.
// A degenerate rect resolves to after.
func PositionInRect(pointerY float64, r Rect) DropPosition {
	if r.Height <= 0 {
		return PositionAfter
	}
	if pointerY-r.Top < r.Height*0.5 {
		return PositionBefore
	}
	return PositionAfter
}

// ResolveDropPosition measures el and classifies pointerY against it. Any failure to
// measure (nil element, error, panic in the host) resolves to after so a drag never
// goes inert.
func ResolveDropPosition(pointerY float64, el Element) (pos DropPosition) {
	if el == nil {
		return PositionAfter
	}
	defer func() {
		if recover() != nil {
			pos = PositionAfter
		}
	}()
	r, err := el.Rect()
	if err != nil {
		return PositionAfter
	}
	return PositionInRect(pointerY, r)
}
