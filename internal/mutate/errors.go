package mutate

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDuration = errors.New("duration must be between 1 and 120 minutes")
	ErrTooFewTimelines = errors.New("a parallel block needs at least two timelines")
	ErrInvalidItemKind = errors.New("invalid item kind")
	ErrNotGrouped      = errors.New("item is not in a parallel block")
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// UnknownTimelineError is returned when a timeline is not on the block's roster.
type UnknownTimelineError struct {
	GroupID  string
	Timeline string
}

func (e UnknownTimelineError) Error() string {
	return fmt.Sprintf("timeline %s is not part of block %s", e.Timeline, e.GroupID)
}
